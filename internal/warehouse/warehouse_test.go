package warehouse

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

type fakeClient struct{}

func (fakeClient) EnsureTable(context.Context, ddl.TableDef) error { return nil }
func (fakeClient) LoadFile(context.Context, Source, ddl.TableDef) (int64, error) {
	return 0, nil
}
func (fakeClient) Close() error { return nil }

/*
TestFactory verifies registration, lookup by kind, and the unknown-kind error
naming what is registered.
*/
func TestFactory(t *testing.T) {
	Register("fake", func(cfg config.Warehouse) (Client, error) {
		return fakeClient{}, nil
	})

	c, err := Open(config.Warehouse{Kind: "fake"})
	if err != nil {
		t.Fatalf("Open(fake): %v", err)
	}
	c.Close()

	_, err = Open(config.Warehouse{Kind: "oracle"})
	if err == nil {
		t.Fatal("want error for unregistered kind")
	}
	if !strings.Contains(err.Error(), "oracle") || !strings.Contains(err.Error(), "fake") {
		t.Fatalf("error should name the kind and the registered set: %v", err)
	}
}

/*
TestSalesTable pins the fixed table declaration: 8 columns in order, comma
delimiter, one skipped header line, and the given location.
*/
func TestSalesTable(t *testing.T) {
	def := SalesTable("real_estate_sales", "/user/hive/warehouse/real_estate/")
	want := []string{
		"SaleID", "List_Year", "Town", "Address",
		"Assessed_Value", "Sale_Amount", "Sales_Ratio", "Property_Type",
	}
	names := def.ColumnNames()
	if len(names) != len(want) {
		t.Fatalf("columns=%v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("column %d: got %s want %s", i, names[i], want[i])
		}
	}
	if def.Columns[0].Type != "INT" || def.Columns[4].Type != "DOUBLE" || def.Columns[2].Type != "STRING" {
		t.Fatalf("types=%+v", def.Columns)
	}
	if def.FieldDelimiter != "," || def.SkipHeaderLines != 1 {
		t.Fatalf("def=%+v", def)
	}
	if def.Location != "/user/hive/warehouse/real_estate/" {
		t.Fatalf("location=%q", def.Location)
	}
}

/*
TestReadDelimited verifies header validation, type conversion per canonical
column type, and empty cells turning into nil.
*/
func TestReadDelimited(t *testing.T) {
	def := ddl.TableDef{
		Name: "t",
		Columns: []ddl.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "ratio", Type: "DOUBLE"},
			{Name: "town", Type: "STRING"},
		},
	}

	path := filepath.Join(t.TempDir(), "rows.csv")
	data := "id,ratio,town\n1,0.5,Andover\n2,,Bethel\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadDelimited(path, def)
	if err != nil {
		t.Fatalf("ReadDelimited: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][0] != int64(1) || rows[0][1] != 0.5 || rows[0][2] != "Andover" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if rows[1][1] != nil {
		t.Fatalf("empty cell should read as nil, got %v", rows[1][1])
	}
}

/*
TestReadDelimited_Errors covers header mismatches and cells that do not parse
as their declared type.
*/
func TestReadDelimited_Errors(t *testing.T) {
	def := ddl.TableDef{
		Name:    "t",
		Columns: []ddl.ColumnDef{{Name: "id", Type: "INT"}},
	}

	cases := []struct {
		name string
		data string
	}{
		{"wrong header name", "identifier\n1\n"},
		{"extra column", "id,junk\n1,2\n"},
		{"non-integer cell", "id\nabc\n"},
		{"empty file", ""},
	}
	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "bad.csv")
		if err := os.WriteFile(path, []byte(c.data), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadDelimited(path, def); err == nil {
			t.Errorf("%s: want error", c.name)
		}
	}
}
