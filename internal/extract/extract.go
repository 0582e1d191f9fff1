// Package extract implements the first pipeline stage: reading the source CSV
// file into a records.Dataset while preserving the file's row and column
// order. Column names are taken verbatim from the header row (a UTF-8 BOM on
// the first cell is stripped); empty cells become nil so that downstream null
// handling can distinguish "missing" from any legitimate value.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ReadError wraps any failure to open or parse the source file. The extract
// stage is the only producer of this type; callers match it with errors.As.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("extract: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Extractor reads one CSV file into a Dataset.
type Extractor struct {
	// Path is the local filesystem path of the input CSV.
	Path string
}

// Run reads the whole file and returns the dataset. Every row and column is
// kept; rows whose width differs from the header make the file unparseable
// and fail the stage. The returned error is always a *ReadError on failure.
func (e *Extractor) Run(ctx context.Context) (*records.Dataset, error) {
	log.Printf("extract: starting data extraction from %s", e.Path)

	f, err := os.Open(e.Path)
	if err != nil {
		return nil, &ReadError{Path: e.Path, Err: err}
	}
	defer f.Close()

	ds, err := readCSV(f)
	if err != nil {
		return nil, &ReadError{Path: e.Path, Err: err}
	}

	log.Printf("extract: extracted %d rows", ds.NumRows())
	log.Printf("extract: columns: %s", strings.Join(ds.Columns, ", "))
	return ds, nil
}

// readCSV parses r into a dataset. The header row is required; encoding/csv's
// default fixed-width enforcement rejects ragged rows.
func readCSV(r io.Reader) (*records.Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		columns[i] = col
	}

	ds := &records.Dataset{Columns: columns}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec := make(records.Record, len(columns))
		for i, val := range row {
			rec[columns[i]] = emptyToNil(val)
		}
		ds.Rows = append(ds.Rows, rec)
	}

	return ds, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
