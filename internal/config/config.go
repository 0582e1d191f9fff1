// Package config defines the canonical, JSON-serializable configuration model
// for the real-estate ETL pipeline. It is intentionally small, explicit, and
// dependency-free so that pipeline files can be loaded from disk and passed
// through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":    "real_estate_etl",
//	  "input":  { "path": "inputData/Real_Estate_Sales.csv" },
//	  "output": { "path": "outputData/Real_Estate_Sales_Cleaned.csv" },
//	  "hdfs":   { "namenode_url": "http://namenode:9870", "user": "root",
//	              "path": "/user/hive/warehouse/real_estate/real_estate_sales.csv" },
//	  "warehouse": { "kind": "beeline", "table": "real_estate_sales",
//	                 "beeline": { "container": "hiveserver2",
//	                              "jdbc_url": "jdbc:hive2://localhost:10000" } }
//	}
package config

import (
	"encoding/json"
	"io"
)

// Pipeline describes the full ETL run in JSON. It is the top-level object
// decoded from a pipeline file (e.g., configs/pipelines/real_estate.json).
type Pipeline struct {
	// Job names the run for metrics labeling and log lines.
	Job string `json:"job"`

	// Input locates the source CSV on the local filesystem.
	Input Input `json:"input"`

	// Output locates the cleaned CSV written by the transform stage.
	Output Output `json:"output"`

	// Transform carries the optional knobs of the cleaning stage. The fixed
	// steps (column pruning, null-row elimination, SaleID assignment) are not
	// configurable; only supplemental text normalization is.
	Transform Transform `json:"transform"`

	// HDFS configures the WebHDFS gateway target for the load stage.
	HDFS HDFS `json:"hdfs"`

	// Warehouse selects and configures the warehouse registration backend.
	Warehouse Warehouse `json:"warehouse"`
}

// Input holds configuration for the extract stage source.
type Input struct {
	// Path is the local filesystem path to the input CSV file.
	Path string `json:"path"`
}

// Output holds configuration for the transform stage sink.
type Output struct {
	// Path is the local filesystem path of the cleaned CSV. Parent
	// directories are created as needed.
	Path string `json:"path"`
}

// Transform holds the optional cleaning knobs.
type Transform struct {
	// NormalizeColumns lists text columns to pass through Unicode NFC
	// normalization and whitespace collapsing before the null-row pass.
	// Empty (the default) leaves every cell byte-for-byte untouched.
	NormalizeColumns []string `json:"normalize_columns"`
}

// HDFS configures the WebHDFS gateway used by the load stage.
type HDFS struct {
	// NamenodeURL is the base URL of the WebHDFS gateway, e.g.
	// "http://namenode:9870".
	NamenodeURL string `json:"namenode_url"`

	// User is the identity sent as user.name on every request. The gateway
	// performs no authentication beyond this name.
	User string `json:"user"`

	// Path is the full target path of the uploaded file inside HDFS, e.g.
	// "/user/hive/warehouse/real_estate/real_estate_sales.csv". Its parent
	// directory doubles as the external table location.
	Path string `json:"path"`

	// TimeoutSeconds bounds each gateway request. Zero selects the default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the number of retry attempts after the initial request
	// for transient gateway failures. Zero means no retries.
	MaxRetries int `json:"max_retries"`
}

// Warehouse selects the backend used to register and load the table.
type Warehouse struct {
	// Kind selects the backend implementation: "beeline" (the JDBC CLI),
	// "postgres", or "sqlite".
	Kind string `json:"kind"`

	// Table is the warehouse table name, e.g. "real_estate_sales".
	Table string `json:"table"`

	// Beeline carries options for the "beeline" kind.
	Beeline Beeline `json:"beeline"`

	// DB carries options for the native-driver kinds ("postgres", "sqlite").
	DB DB `json:"db"`
}

// Beeline configures the remote CLI execution context for the "beeline" kind.
type Beeline struct {
	// Container is the remote execution context the SQL scripts are copied
	// into and run from (a docker container name).
	Container string `json:"container"`

	// JDBCURL is the HiveServer2 endpoint, e.g. "jdbc:hive2://localhost:10000".
	JDBCURL string `json:"jdbc_url"`

	// BeelinePath is the beeline binary path inside the container. Empty
	// selects the stock Hive location.
	BeelinePath string `json:"beeline_path"`
}

// DB configures native-driver warehouse backends.
type DB struct {
	// DSN is the connection string: a pgx URL for "postgres", a file path or
	// ":memory:" for "sqlite".
	DSN string `json:"dsn"`
}

// Load decodes a Pipeline from r and fills defaults for omitted fields.
func Load(r io.Reader) (Pipeline, error) {
	var p Pipeline
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Pipeline{}, err
	}
	p.ApplyDefaults()
	return p, nil
}

// ApplyDefaults fills zero-valued fields with the stock deployment layout:
// the sample dataset paths, the single-node HDFS gateway, and the local
// HiveServer2 container.
func (p *Pipeline) ApplyDefaults() {
	if p.Job == "" {
		p.Job = "real_estate_etl"
	}
	if p.Input.Path == "" {
		p.Input.Path = "inputData/Real_Estate_Sales.csv"
	}
	if p.Output.Path == "" {
		p.Output.Path = "outputData/Real_Estate_Sales_Cleaned.csv"
	}
	if p.HDFS.NamenodeURL == "" {
		p.HDFS.NamenodeURL = "http://namenode:9870"
	}
	if p.HDFS.User == "" {
		p.HDFS.User = "root"
	}
	if p.HDFS.Path == "" {
		p.HDFS.Path = "/user/hive/warehouse/real_estate/real_estate_sales.csv"
	}
	if p.Warehouse.Kind == "" {
		p.Warehouse.Kind = "beeline"
	}
	if p.Warehouse.Table == "" {
		p.Warehouse.Table = "real_estate_sales"
	}
	if p.Warehouse.Beeline.Container == "" {
		p.Warehouse.Beeline.Container = "hiveserver2"
	}
	if p.Warehouse.Beeline.JDBCURL == "" {
		p.Warehouse.Beeline.JDBCURL = "jdbc:hive2://localhost:10000"
	}
	if p.Warehouse.Beeline.BeelinePath == "" {
		p.Warehouse.Beeline.BeelinePath = "/opt/hive/bin/beeline"
	}
}
