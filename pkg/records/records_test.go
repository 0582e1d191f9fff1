package records

import (
	"strings"
	"testing"
)

/*
TestWriteCSV verifies that a dataset is serialized with a header line, rows in
order, cells in column order, and nil cells as empty fields.
*/
func TestWriteCSV(t *testing.T) {
	d := &Dataset{
		Columns: []string{"SaleID", "Town", "Sale_Amount"},
		Rows: []Record{
			{"SaleID": 1, "Town": "Andover", "Sale_Amount": "248400"},
			{"SaleID": 2, "Town": nil, "Sale_Amount": "239900"},
		},
	}

	var sb strings.Builder
	if err := d.WriteCSV(&sb); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "SaleID,Town,Sale_Amount\n1,Andover,248400\n2,,239900\n"
	if sb.String() != want {
		t.Fatalf("csv mismatch:\n got: %q\nwant: %q", sb.String(), want)
	}
}

/*
TestFormatCell covers the supported cell value kinds.
*/
func TestFormatCell(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{7, "7"},
		{int64(9), "9"},
		{1.25, "1.25"},
	}
	for _, c := range cases {
		if got := FormatCell(c.in); got != c.want {
			t.Errorf("FormatCell(%v)=%q; want %q", c.in, got, c.want)
		}
	}
}

/*
TestShapeAndHasColumn exercises the small accessors used in progress lines.
*/
func TestShapeAndHasColumn(t *testing.T) {
	d := &Dataset{Columns: []string{"a", "b"}, Rows: []Record{{"a": "1", "b": "2"}}}
	if got := d.Shape(); got != "(1, 2)" {
		t.Fatalf("Shape=%q; want (1, 2)", got)
	}
	if !d.HasColumn("a") || d.HasColumn("z") {
		t.Fatalf("HasColumn misbehaved")
	}
	if d.NumRows() != 1 || d.NumColumns() != 2 {
		t.Fatalf("NumRows/NumColumns mismatch")
	}
}
