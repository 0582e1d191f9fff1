package warehouse

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

// ReadDelimited reads the cleaned CSV at path and converts each row to typed
// values matching def's columns: INT to int64, DOUBLE to float64, STRING
// untouched. Empty cells become nil. The header line is checked against the
// declaration and skipped; the native-driver backends insert the result
// row by row.
func ReadDelimited(path string, def ddl.TableDef) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("warehouse: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("warehouse: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("warehouse: %s is empty, expected a header line", path)
	}

	names := def.ColumnNames()
	header := records[0]
	if len(header) != len(names) {
		return nil, fmt.Errorf("warehouse: %s has %d columns, table %s declares %d", path, len(header), def.Name, len(names))
	}
	for i, name := range names {
		if header[i] != name {
			return nil, fmt.Errorf("warehouse: %s column %d is %q, table %s declares %q", path, i, header[i], def.Name, name)
		}
	}

	rows := make([][]any, 0, len(records)-1)
	for lineNo, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			v, err := convertCell(cell, def.Columns[i].Type)
			if err != nil {
				return nil, fmt.Errorf("warehouse: %s line %d column %s: %w", path, lineNo+2, names[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// convertCell parses one CSV cell per the canonical column type.
func convertCell(cell, typ string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch typ {
	case "INT":
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as INT: %w", cell, err)
		}
		return n, nil
	case "DOUBLE":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q as DOUBLE: %w", cell, err)
		}
		return f, nil
	case "STRING":
		return cell, nil
	default:
		return nil, fmt.Errorf("unknown column type %q", typ)
	}
}
