package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/extract"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/pkg/records"
)

var (
	flagPath = flag.String("path", "inputData/Real_Estate_Sales.csv", "CSV file to probe")
	flagRows = flag.Int("rows", 0, "limit type inference to the first N rows (0 = all)")
)

// csvprobe summarizes a source CSV before a run: per-column inferred type and
// null count, plus the overall shape. Useful for checking a new extract
// against the fixed warehouse schema.
func main() {
	flag.Parse()

	ext := &extract.Extractor{Path: *flagPath}
	ds, err := ext.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "csvprobe: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s\n", *flagPath, ds.Shape())
	for _, col := range ds.Columns {
		typ, nulls := probeColumn(ds, col, *flagRows)
		fmt.Printf("  %-24s %-8s nulls=%d\n", col, typ, nulls)
	}
}

// probeColumn infers the narrowest type that fits every non-null cell and
// counts nulls. Order of preference: INT, DOUBLE, STRING.
func probeColumn(ds *records.Dataset, col string, limit int) (string, int) {
	rows := ds.Rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	nulls := 0
	candidates := map[string]bool{"INT": true, "DOUBLE": true}
	seen := false
	for _, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			nulls++
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			s = fmt.Sprint(v)
		}
		seen = true
		if candidates["INT"] {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				candidates["INT"] = false
			}
		}
		if candidates["DOUBLE"] {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				candidates["DOUBLE"] = false
			}
		}
	}

	if !seen {
		return "STRING", nulls
	}
	for _, t := range []string{"INT", "DOUBLE"} {
		if candidates[t] {
			return t, nulls
		}
	}
	return "STRING", nulls
}
