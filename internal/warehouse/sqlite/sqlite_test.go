package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse"
)

// writeSales writes a cleaned sales CSV with the full 8-column header.
func writeSales(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "SaleID,List_Year,Town,Address,Assessed_Value,Sale_Amount,Sales_Ratio,Property_Type\n" + rows
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

/*
TestEnsureAndLoad exercises the full backend path: table creation, loading a
cleaned CSV, and the reported row count.
*/
func TestEnsureAndLoad(t *testing.T) {
	c := newTestClient(t)
	def := warehouse.SalesTable("real_estate_sales", "")
	ctx := context.Background()

	if err := c.EnsureTable(ctx, def); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	path := writeSales(t,
		"1,2020,Andover,1 Main St,150000,200000,0.75,Single Family\n"+
			"2,2021,Bethel,2 Oak Ave,90000,,0,Condo\n")
	n, err := c.LoadFile(ctx, warehouse.Source{LocalPath: path}, def)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d; want 2", n)
	}

	var town string
	err = c.db.QueryRow("SELECT Town FROM real_estate_sales WHERE SaleID = 2").Scan(&town)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if town != "Bethel" {
		t.Fatalf("town=%q", town)
	}
}

/*
TestEnsureTable_Idempotent verifies a second EnsureTable is a no-op rather
than an error.
*/
func TestEnsureTable_Idempotent(t *testing.T) {
	c := newTestClient(t)
	def := warehouse.SalesTable("real_estate_sales", "")
	ctx := context.Background()

	if err := c.EnsureTable(ctx, def); err != nil {
		t.Fatalf("first EnsureTable: %v", err)
	}
	if err := c.EnsureTable(ctx, def); err != nil {
		t.Fatalf("second EnsureTable: %v", err)
	}
}

/*
TestLoadFile_AppendsOnRepeat verifies that repeating a load duplicates rows,
matching the warehouse contract rather than deduplicating.
*/
func TestLoadFile_AppendsOnRepeat(t *testing.T) {
	c := newTestClient(t)
	def := warehouse.SalesTable("real_estate_sales", "")
	ctx := context.Background()

	if err := c.EnsureTable(ctx, def); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	path := writeSales(t, "1,2020,Andover,1 Main St,150000,200000,0.75,Single Family\n")
	src := warehouse.Source{LocalPath: path}
	if _, err := c.LoadFile(ctx, src, def); err != nil {
		t.Fatalf("first load: %v", err)
	}
	n, err := c.LoadFile(ctx, src, def)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if n != 2 {
		t.Fatalf("count after repeat=%d; want 2", n)
	}
}

/*
TestLoadFile_BadCSV verifies a load with a mismatched header fails before any
insert and leaves the table unchanged.
*/
func TestLoadFile_BadCSV(t *testing.T) {
	c := newTestClient(t)
	def := warehouse.SalesTable("real_estate_sales", "")
	ctx := context.Background()

	if err := c.EnsureTable(ctx, def); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("wrong,header\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadFile(ctx, warehouse.Source{LocalPath: path}, def); err == nil {
		t.Fatal("want error for mismatched header")
	}

	var count int64
	if err := c.db.QueryRow("SELECT COUNT(*) FROM real_estate_sales").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count=%d; want 0", count)
	}
}

/*
TestLoadFile_RequiresLocalPath verifies the backend refuses a source without
a local file.
*/
func TestLoadFile_RequiresLocalPath(t *testing.T) {
	c := newTestClient(t)
	def := warehouse.SalesTable("real_estate_sales", "")
	if _, err := c.LoadFile(context.Background(), warehouse.Source{RemotePath: "/x.csv"}, def); err == nil {
		t.Fatal("want error without local path")
	}
}
