package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/pkg/records"
)

// droppedColumn is removed from the dataset when present. The column is
// redundant with Property_Type in the source extract.
const droppedColumn = "Residential Type"

// idColumn is the sequential identifier prepended by the cleaning stage.
const idColumn = "SaleID"

// ErrNoUpstreamData reports that the cleaning stage received no dataset from
// the extract stage. It is distinct from an empty dataset: zero rows is a
// valid input, an absent handoff is not.
var ErrNoUpstreamData = errors.New("transform: no dataset received from extract stage")

// Cleaner is the transform stage. Given the extractor's dataset it applies,
// in order: drop the Residential Type column when present, drop every row
// with a missing value in any remaining column, and prepend SaleID = 1..N.
// The cleaned dataset is written to OutputPath and also returned for the
// load stage.
type Cleaner struct {
	// OutputPath is the local CSV the cleaned dataset is written to. Parent
	// directories are created as needed.
	OutputPath string

	// NormalizeColumns optionally lists text columns to normalize before the
	// null-row pass. Empty leaves cells untouched.
	NormalizeColumns []string
}

// Run cleans ds and persists it. A nil ds fails with ErrNoUpstreamData
// before anything is written. An empty dataset is cleaned and written
// normally.
func (c *Cleaner) Run(ctx context.Context, ds *records.Dataset) (*records.Dataset, error) {
	log.Printf("transform: starting data transformation")

	if ds == nil {
		return nil, ErrNoUpstreamData
	}

	log.Printf("transform: initial shape: %s", ds.Shape())

	if ds.HasColumn(droppedColumn) {
		ds = DropColumns{Names: []string{droppedColumn}}.Apply(ds)
		log.Printf("transform: dropped %q column", droppedColumn)
	}

	if len(c.NormalizeColumns) > 0 {
		ds = NormalizeText{Columns: c.NormalizeColumns}.Apply(ds)
		log.Printf("transform: normalized columns: %s", strings.Join(c.NormalizeColumns, ", "))
	}

	nulls := &DropNulls{}
	ds = nulls.Apply(ds)
	log.Printf("transform: dropped %d rows with null values", nulls.Dropped)

	ds = AssignSequence{Column: idColumn}.Apply(ds)
	log.Printf("transform: added %s column", idColumn)

	log.Printf("transform: final shape: %s", ds.Shape())
	log.Printf("transform: columns: %s", strings.Join(ds.Columns, ", "))

	if err := c.write(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// write persists the dataset to OutputPath, creating parent directories, and
// logs the written size together with a content fingerprint.
func (c *Cleaner) write(ds *records.Dataset) error {
	if dir := filepath.Dir(c.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("transform: create output dir: %w", err)
		}
	}

	f, err := os.Create(c.OutputPath)
	if err != nil {
		return fmt.Errorf("transform: create output: %w", err)
	}

	h := xxh3.New()
	if err := ds.WriteCSV(io.MultiWriter(f, h)); err != nil {
		f.Close()
		return fmt.Errorf("transform: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("transform: close output: %w", err)
	}

	fi, err := os.Stat(c.OutputPath)
	if err != nil {
		return fmt.Errorf("transform: stat output: %w", err)
	}
	log.Printf("transform: saved %s (%d bytes, xxh3=%016x)", c.OutputPath, fi.Size(), h.Sum64())
	return nil
}
