// Package sqlite registers the table in an embedded SQLite database. It is
// the zero-infrastructure backend used for local runs and end-to-end tests;
// the load reads the cleaned CSV locally and inserts it in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

func init() {
	warehouse.Register("sqlite", func(cfg config.Warehouse) (warehouse.Client, error) {
		return New(cfg.DB.DSN)
	})
}

// typeMap converts the canonical Hive column types to SQLite's affinities.
var typeMap = map[string]string{
	"INT":    "INTEGER",
	"DOUBLE": "REAL",
	"STRING": "TEXT",
}

// Client is a warehouse backend over an embedded SQLite database.
type Client struct {
	db *sql.DB
}

// New opens the database at dsn, which is a file path or ":memory:".
func New(dsn string) (*Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: DSN is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	// The in-memory database vanishes when its only connection closes.
	db.SetMaxOpenConns(1)
	return &Client{db: db}, nil
}

// EnsureTable creates the table when absent via CREATE TABLE IF NOT EXISTS.
func (c *Client) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	stmt, err := ddl.BuildCreateTable(def, func(t string) string { return typeMap[t] })
	if err != nil {
		return fmt.Errorf("sqlite: ensure table %s: %w", def.Name, err)
	}
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: ensure table %s: %w", def.Name, err)
	}
	log.Printf("sqlite: table %s ensured", def.Name)
	return nil
}

// LoadFile inserts the cleaned CSV's rows in one transaction and returns the
// row count afterwards. Repeating a load appends the rows again, matching
// the Hive backend's semantics.
func (c *Client) LoadFile(ctx context.Context, src warehouse.Source, def ddl.TableDef) (int64, error) {
	if src.LocalPath == "" {
		return -1, fmt.Errorf("sqlite: load into %s: local path is required", def.Name)
	}
	rows, err := warehouse.ReadDelimited(src.LocalPath, def)
	if err != nil {
		return -1, fmt.Errorf("sqlite: load into %s: %w", def.Name, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, fmt.Errorf("sqlite: load into %s: %w", def.Name, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStatement(def))
	if err != nil {
		return -1, fmt.Errorf("sqlite: load into %s: %w", def.Name, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return -1, fmt.Errorf("sqlite: load into %s: %w", def.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return -1, fmt.Errorf("sqlite: load into %s: %w", def.Name, err)
	}
	log.Printf("sqlite: inserted %d rows into %s", len(rows), def.Name)

	var count int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+def.Name).Scan(&count); err != nil {
		return -1, fmt.Errorf("sqlite: count %s: %w", def.Name, err)
	}
	return count, nil
}

// Close closes the database.
func (c *Client) Close() error { return c.db.Close() }

// insertStatement renders the parameterized INSERT for the table.
func insertStatement(def ddl.TableDef) string {
	names := def.ColumnNames()
	marks := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		def.Name, strings.Join(names, ", "), marks)
}
