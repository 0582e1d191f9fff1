// Package records defines the tabular data model handed between pipeline
// stages: a Record is a single row keyed by column name, and a Dataset is an
// ordered sequence of Records together with the ordered column list they
// share.
//
// The column slice is the source of truth for column order; Record maps carry
// the cell values. Missing cells are represented as nil so that "empty string"
// and "no value" remain distinguishable throughout the pipeline.
package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Record is one row of a dataset, keyed by column name. Values are either
// strings (as read from the source), integers (assigned identifiers), or nil
// for missing cells.
type Record map[string]any

// Dataset is an ordered table: a fixed column list plus rows in source order.
// Invariant: every row shares the same column set as Columns.
type Dataset struct {
	Columns []string
	Rows    []Record
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.Columns) }

// Shape returns a human-readable "(rows, columns)" string for progress lines.
func (d *Dataset) Shape() string {
	return fmt.Sprintf("(%d, %d)", len(d.Rows), len(d.Columns))
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// WriteCSV writes the dataset to w in CSV form: a header row with the column
// names followed by one line per row, cells in column order. Nil cells are
// written as empty fields.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("records: write header: %w", err)
	}
	line := make([]string, len(d.Columns))
	for i, row := range d.Rows {
		for j, col := range d.Columns {
			line[j] = FormatCell(row[col])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("records: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("records: flush: %w", err)
	}
	return nil
}

// FormatCell renders a cell value as a CSV field. Nil becomes the empty
// string; integer identifiers are rendered in base 10; everything else falls
// back to fmt formatting.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
