// Package beeline registers the table through the beeline CLI inside a
// HiveServer2 container. SQL scripts are written locally, copied into the
// container with docker cp, and executed with docker exec; this matches
// deployments where the warehouse is only reachable through its container.
package beeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse/ddl"
)

func init() {
	warehouse.Register("beeline", func(cfg config.Warehouse) (warehouse.Client, error) {
		return New(Config{
			Container:   cfg.Beeline.Container,
			JDBCURL:     cfg.Beeline.JDBCURL,
			BeelinePath: cfg.Beeline.BeelinePath,
		})
	})
}

// Config configures the container execution context.
type Config struct {
	// Container is the docker container name running HiveServer2.
	Container string

	// JDBCURL is the HiveServer2 endpoint beeline connects to.
	JDBCURL string

	// BeelinePath is the beeline binary path inside the container. Empty
	// selects the stock Hive location.
	BeelinePath string
}

// CommandError wraps a failed docker invocation, keeping the combined output
// so the Hive error text is not lost.
type CommandError struct {
	Cmd    string
	Output []byte
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(string(e.Output))
	if out == "" {
		return fmt.Sprintf("beeline: %s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("beeline: %s: %v: %s", e.Cmd, e.Err, out)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Client runs SQL scripts through beeline inside the configured container.
type Client struct {
	container   string
	jdbcURL     string
	beelinePath string

	// runCommand is injectable for tests; the default shells out.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New builds a Client from Config.
func New(cfg Config) (*Client, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("beeline: Container is required")
	}
	if cfg.JDBCURL == "" {
		return nil, fmt.Errorf("beeline: JDBCURL is required")
	}
	if cfg.BeelinePath == "" {
		cfg.BeelinePath = "/opt/hive/bin/beeline"
	}
	return &Client{
		container:   cfg.Container,
		jdbcURL:     cfg.JDBCURL,
		beelinePath: cfg.BeelinePath,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}, nil
}

// EnsureTable runs the CREATE TABLE IF NOT EXISTS script. A table that
// already exists is a no-op on the Hive side.
func (c *Client) EnsureTable(ctx context.Context, def ddl.TableDef) error {
	stmt, err := ddl.BuildHiveCreateTable(def)
	if err != nil {
		return fmt.Errorf("beeline: ensure table %s: %w", def.Name, err)
	}
	if _, err := c.runScript(ctx, "create_"+def.Name+".sql", stmt+"\n"); err != nil {
		return fmt.Errorf("beeline: ensure table %s: %w", def.Name, err)
	}
	log.Printf("beeline: table %s ensured", def.Name)
	return nil
}

// LoadFile loads the uploaded file into the table by its distributed path and
// returns the table's row count afterwards.
//
// LOAD DATA INPATH moves the file into the table and appends to existing
// data, so running the same load twice duplicates rows.
func (c *Client) LoadFile(ctx context.Context, src warehouse.Source, def ddl.TableDef) (int64, error) {
	if src.RemotePath == "" {
		return -1, fmt.Errorf("beeline: load into %s: remote path is required", def.Name)
	}
	script := fmt.Sprintf("LOAD DATA INPATH '%s' INTO TABLE %s;\nSELECT COUNT(*) FROM %s;\n",
		src.RemotePath, def.Name, def.Name)

	out, err := c.runScript(ctx, "load_"+def.Name+".sql", script)
	if err != nil {
		return -1, fmt.Errorf("beeline: load into %s: %w", def.Name, err)
	}
	n, ok := parseCount(out)
	if !ok {
		return -1, nil
	}
	return n, nil
}

// Close is a no-op; nothing is held between invocations.
func (c *Client) Close() error { return nil }

// runScript writes sql to a temp file, copies it into the container, and
// executes it with beeline. The combined output is returned for parsing.
func (c *Client) runScript(ctx context.Context, name, sql string) ([]byte, error) {
	local := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(local, []byte(sql), 0o644); err != nil {
		return nil, fmt.Errorf("write script %s: %w", local, err)
	}
	defer os.Remove(local)

	remote := "/tmp/" + name
	if out, err := c.runCommand(ctx, "docker", "cp", local, c.container+":"+remote); err != nil {
		return nil, &CommandError{Cmd: "docker cp " + name, Output: out, Err: err}
	}

	out, err := c.runCommand(ctx, "docker", "exec", c.container,
		c.beelinePath, "-u", c.jdbcURL, "-f", remote, "--silent=true")
	if err != nil {
		return nil, &CommandError{Cmd: "docker exec beeline -f " + remote, Output: out, Err: err}
	}
	return out, nil
}

// parseCount scans beeline's table-formatted output for the last cell that
// parses as an integer, which is the COUNT(*) result when the script ends
// with one.
func parseCount(out []byte) (int64, bool) {
	var (
		n     int64
		found bool
	)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		for _, cell := range strings.Split(strings.Trim(line, "|"), "|") {
			v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			if err == nil {
				n = v
				found = true
			}
		}
	}
	return n, found
}
