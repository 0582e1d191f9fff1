// Package postgres registers the table in a PostgreSQL warehouse over a pgx
// pool. The load reads the cleaned CSV locally and bulk-inserts it with the
// COPY protocol; the distributed-filesystem path is not used.
package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

func init() {
	warehouse.Register("postgres", func(cfg config.Warehouse) (warehouse.Client, error) {
		return New(cfg.DB.DSN)
	})
}

// typeMap converts the canonical Hive column types to PostgreSQL's.
var typeMap = map[string]string{
	"INT":    "INTEGER",
	"DOUBLE": "DOUBLE PRECISION",
	"STRING": "TEXT",
}

// Client is a warehouse backend over a pgx connection pool.
type Client struct {
	pool *pgxpool.Pool
}

// New connects a pool to the given DSN.
func New(dsn string) (*Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: DSN is required")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return &Client{pool: pool}, nil
}

// EnsureTable creates the table when absent via CREATE TABLE IF NOT EXISTS.
func (c *Client) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	stmt, err := ddl.BuildCreateTable(def, func(t string) string { return typeMap[t] })
	if err != nil {
		return fmt.Errorf("postgres: ensure table %s: %w", def.Name, err)
	}
	if _, err := c.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("postgres: ensure table %s: %w", def.Name, err)
	}
	log.Printf("postgres: table %s ensured", def.Name)
	return nil
}

// LoadFile COPYs the cleaned CSV's rows into the table and returns the row
// count afterwards. Like the Hive load, repeating it appends again.
func (c *Client) LoadFile(ctx context.Context, src warehouse.Source, def ddl.TableDef) (int64, error) {
	if src.LocalPath == "" {
		return -1, fmt.Errorf("postgres: load into %s: local path is required", def.Name)
	}
	rows, err := warehouse.ReadDelimited(src.LocalPath, def)
	if err != nil {
		return -1, fmt.Errorf("postgres: load into %s: %w", def.Name, err)
	}

	copied, err := c.pool.CopyFrom(ctx,
		pgx.Identifier{def.Name}, def.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return -1, fmt.Errorf("postgres: load into %s: %w", def.Name, err)
	}
	log.Printf("postgres: copied %d rows into %s", copied, def.Name)

	var count int64
	if err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+def.Name).Scan(&count); err != nil {
		return -1, fmt.Errorf("postgres: count %s: %w", def.Name, err)
	}
	return count, nil
}

// Close releases the pool.
func (c *Client) Close() error {
	c.pool.Close()
	return nil
}
