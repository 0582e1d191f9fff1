// Package warehouse defines the capability interface the registration stage
// depends on, a factory for concrete backends, and the fixed declaration of
// the real-estate sales table.
//
// The interface deliberately hides the mechanism: the faithful deployment
// drives HiveServer2 through the beeline CLI, while the postgres and sqlite
// backends speak their native drivers. Pipeline code never knows which.
package warehouse

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

// Source locates the cleaned dataset for a load. Backends pick the path they
// can reach: beeline loads the uploaded file by its distributed-filesystem
// path, native drivers read the local file directly.
type Source struct {
	// LocalPath is the cleaned CSV on the local filesystem.
	LocalPath string

	// RemotePath is the uploaded object inside the distributed filesystem.
	RemotePath string
}

// Client is the warehouse capability: declare the table once, load a file
// into it, and report the resulting row count.
//
// LoadFile is not idempotent in the Hive deployment: LOAD DATA INPATH
// appends, so re-running a load duplicates rows. Backends preserve that
// semantic rather than papering over it.
type Client interface {
	// EnsureTable creates the table when absent; a pre-existing table is not
	// an error and is never altered.
	EnsureTable(ctx context.Context, def ddl.TableDef) error

	// LoadFile loads the dataset into the table and returns the table's row
	// count after the load, or -1 when the backend cannot report one.
	LoadFile(ctx context.Context, src Source, def ddl.TableDef) (int64, error)

	// Close releases backend resources.
	Close() error
}

// Factory builds a Client from warehouse configuration.
type Factory func(cfg config.Warehouse) (Client, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Backend packages call this
// from init; the program selects backends with blank imports of
// internal/warehouse/all.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("warehouse: duplicate backend %q", kind))
	}
	factories[kind] = f
}

// Open builds the Client selected by cfg.Kind.
func Open(cfg config.Warehouse) (Client, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("warehouse: unknown backend %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(cfg)
}

// Kinds returns the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SalesTable returns the fixed 8-column declaration of the real-estate sales
// table, bound to the given storage location.
func SalesTable(name, location string) ddl.TableDef {
	return ddl.TableDef{
		Name: name,
		Columns: []ddl.ColumnDef{
			{Name: "SaleID", Type: "INT"},
			{Name: "List_Year", Type: "INT"},
			{Name: "Town", Type: "STRING"},
			{Name: "Address", Type: "STRING"},
			{Name: "Assessed_Value", Type: "DOUBLE"},
			{Name: "Sale_Amount", Type: "DOUBLE"},
			{Name: "Sales_Ratio", Type: "DOUBLE"},
			{Name: "Property_Type", Type: "STRING"},
		},
		Location:        location,
		FieldDelimiter:  ",",
		SkipHeaderLines: 1,
	}
}
