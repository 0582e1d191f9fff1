// Package transform implements the cleaning stage: column pruning, null-row
// elimination, and sequential identifier assignment, followed by writing the
// cleaned dataset to the local output CSV.
package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/pkg/records"
)

// Step mutates or replaces a dataset. Steps run in order as a Chain.
type Step interface {
	Apply(*records.Dataset) *records.Dataset
}

// Chain is an ordered list of steps.
type Chain []Step

func (c Chain) Apply(in *records.Dataset) *records.Dataset {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}

// DropColumns removes the named columns from the dataset, both from the
// column list and from every row. Names not present are ignored.
type DropColumns struct {
	Names []string
}

func (d DropColumns) Apply(in *records.Dataset) *records.Dataset {
	drop := make(map[string]bool, len(d.Names))
	for _, n := range d.Names {
		drop[n] = true
	}

	cols := in.Columns[:0:0]
	for _, c := range in.Columns {
		if !drop[c] {
			cols = append(cols, c)
		}
	}
	if len(cols) == len(in.Columns) {
		return in
	}

	for _, row := range in.Rows {
		for n := range drop {
			delete(row, n)
		}
	}
	in.Columns = cols
	return in
}

// DropNulls removes every row containing a missing value in any column of the
// dataset. After Apply, Dropped holds the number of removed rows.
type DropNulls struct {
	Dropped int
}

func (d *DropNulls) Apply(in *records.Dataset) *records.Dataset {
	out := in.Rows[:0]
	for _, row := range in.Rows {
		ok := true
		for _, c := range in.Columns {
			v, exists := row[c]
			if !exists || v == nil {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	d.Dropped = len(in.Rows) - len(out)
	in.Rows = out
	return in
}

// AssignSequence prepends an integer identifier column counting 1..N in the
// current row order. If the column already exists it is moved to the front
// and its values reassigned, so re-running the step never duplicates it.
type AssignSequence struct {
	Column string
}

func (a AssignSequence) Apply(in *records.Dataset) *records.Dataset {
	for i, row := range in.Rows {
		row[a.Column] = i + 1
	}
	cols := make([]string, 0, len(in.Columns)+1)
	cols = append(cols, a.Column)
	for _, c := range in.Columns {
		if c != a.Column {
			cols = append(cols, c)
		}
	}
	in.Columns = cols
	return in
}

// NormalizeText applies Unicode NFC normalization and whitespace collapsing
// to string cells of the named columns. It is an optional supplemental step;
// the stock pipeline runs without it so output stays byte-identical to the
// source cells.
type NormalizeText struct {
	Columns []string
}

func (n NormalizeText) Apply(in *records.Dataset) *records.Dataset {
	for _, col := range n.Columns {
		if !in.HasColumn(col) {
			continue
		}
		for _, row := range in.Rows {
			if s, ok := row[col].(string); ok {
				row[col] = normalizeCell(s)
			}
		}
	}
	return in
}

// normalizeCell returns s in NFC form with leading/trailing whitespace
// trimmed and inner whitespace runs collapsed to single spaces.
func normalizeCell(s string) string {
	s = norm.NFC.String(s)
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
