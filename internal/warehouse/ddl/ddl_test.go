package ddl

import (
	"strings"
	"testing"
)

func salesDef() TableDef {
	return TableDef{
		Name: "real_estate_sales",
		Columns: []ColumnDef{
			{Name: "SaleID", Type: "INT"},
			{Name: "List_Year", Type: "INT"},
			{Name: "Town", Type: "STRING"},
			{Name: "Address", Type: "STRING"},
			{Name: "Assessed_Value", Type: "DOUBLE"},
			{Name: "Sale_Amount", Type: "DOUBLE"},
			{Name: "Sales_Ratio", Type: "DOUBLE"},
			{Name: "Property_Type", Type: "STRING"},
		},
		Location:        "/user/hive/warehouse/real_estate/",
		FieldDelimiter:  ",",
		SkipHeaderLines: 1,
	}
}

/*
TestBuildHiveCreateTable pins the exact HiveQL emitted for the sales table:
IF NOT EXISTS, the 8 columns in order, delimited-text row format, external
location, and the skip-header property.
*/
func TestBuildHiveCreateTable(t *testing.T) {
	got, err := BuildHiveCreateTable(salesDef())
	if err != nil {
		t.Fatalf("BuildHiveCreateTable: %v", err)
	}

	want := `CREATE TABLE IF NOT EXISTS real_estate_sales (
    SaleID INT,
    List_Year INT,
    Town STRING,
    Address STRING,
    Assessed_Value DOUBLE,
    Sale_Amount DOUBLE,
    Sales_Ratio DOUBLE,
    Property_Type STRING
)
ROW FORMAT DELIMITED
FIELDS TERMINATED BY ','
STORED AS TEXTFILE
LOCATION '/user/hive/warehouse/real_estate/'
TBLPROPERTIES ('skip.header.line.count'='1');`

	if got != want {
		t.Fatalf("hive ddl mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

/*
TestBuildCreateTable verifies the generic renderer with a type map, as the
postgres backend uses it.
*/
func TestBuildCreateTable(t *testing.T) {
	def := TableDef{
		Name: "t",
		Columns: []ColumnDef{
			{Name: "a", Type: "INT"},
			{Name: "b", Type: "DOUBLE"},
			{Name: "c", Type: "STRING"},
		},
	}
	m := map[string]string{"INT": "INTEGER", "DOUBLE": "DOUBLE PRECISION", "STRING": "TEXT"}
	got, err := BuildCreateTable(def, func(s string) string { return m[s] })
	if err != nil {
		t.Fatalf("BuildCreateTable: %v", err)
	}
	for _, frag := range []string{"IF NOT EXISTS t", "a INTEGER", "b DOUBLE PRECISION", "c TEXT"} {
		if !strings.Contains(got, frag) {
			t.Errorf("missing %q in:\n%s", frag, got)
		}
	}
}

/*
TestCheckRejectsBadDefs covers the validation errors shared by both renderers.
*/
func TestCheckRejectsBadDefs(t *testing.T) {
	cases := []struct {
		name string
		def  TableDef
	}{
		{"empty name", TableDef{Columns: []ColumnDef{{Name: "a", Type: "INT"}}}},
		{"no columns", TableDef{Name: "t"}},
		{"unnamed column", TableDef{Name: "t", Columns: []ColumnDef{{Type: "INT"}}}},
		{"untyped column", TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}},
	}
	for _, c := range cases {
		if _, err := BuildHiveCreateTable(c.def); err == nil {
			t.Errorf("%s: want error", c.name)
		}
	}
}

/*
TestColumnNames verifies declaration-order name extraction.
*/
func TestColumnNames(t *testing.T) {
	names := salesDef().ColumnNames()
	if len(names) != 8 || names[0] != "SaleID" || names[7] != "Property_Type" {
		t.Fatalf("names=%v", names)
	}
}
