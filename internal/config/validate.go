// Package config provides configuration models and helpers for the pipeline.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "hdfs.path",
// "warehouse.beeline.jdbc_url"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	if strings.TrimSpace(p.Input.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.path",
			Message:  "input.path must not be empty",
		})
	}
	if strings.TrimSpace(p.Output.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output.path must not be empty",
		})
	}

	issues = append(issues, validateHDFS(p.HDFS)...)
	issues = append(issues, validateWarehouse(p.Warehouse)...)

	return issues
}

// validateHDFS validates the WebHDFS gateway target.
func validateHDFS(h HDFS) []Issue {
	var issues []Issue

	if strings.TrimSpace(h.NamenodeURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.namenode_url",
			Message:  "hdfs.namenode_url must not be empty",
		})
	} else if u, err := url.Parse(h.NamenodeURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.namenode_url",
			Message:  fmt.Sprintf("hdfs.namenode_url %q is not an absolute URL", h.NamenodeURL),
		})
	}

	if strings.TrimSpace(h.User) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.user",
			Message:  "hdfs.user must not be empty; WebHDFS requires a user.name on every request",
		})
	}

	switch {
	case strings.TrimSpace(h.Path) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.path",
			Message:  "hdfs.path must not be empty",
		})
	case !strings.HasPrefix(h.Path, "/"):
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.path",
			Message:  "hdfs.path must be absolute (start with /)",
		})
	case path.Dir(h.Path) == "/":
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "hdfs.path",
			Message:  "hdfs.path sits directly under /; the parent directory doubles as the table location",
		})
	}

	if h.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.timeout_seconds",
			Message:  "timeout_seconds must not be negative",
		})
	}
	if h.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "hdfs.max_retries",
			Message:  "max_retries must not be negative",
		})
	}

	return issues
}

// validateWarehouse validates the warehouse registration settings.
func validateWarehouse(w Warehouse) []Issue {
	var issues []Issue

	if strings.TrimSpace(w.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.kind",
			Message:  "warehouse.kind must not be empty",
		})
		return issues
	}

	// Known kinds. Unknown kinds are warnings (for forward compatibility);
	// the factory will reject them at open time if nothing registered.
	known := map[string]struct{}{
		"beeline":  {},
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[w.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "warehouse.kind",
			Message:  fmt.Sprintf("unknown warehouse kind %q; ensure a matching backend is registered", w.Kind),
		})
	}

	if strings.TrimSpace(w.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "warehouse.table",
			Message:  "warehouse.table must not be empty",
		})
	}

	switch w.Kind {
	case "beeline":
		if strings.TrimSpace(w.Beeline.Container) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "warehouse.beeline.container",
				Message:  "beeline backend requires a container (remote execution context)",
			})
		}
		if strings.TrimSpace(w.Beeline.JDBCURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "warehouse.beeline.jdbc_url",
				Message:  "beeline backend requires a jdbc_url",
			})
		} else if !strings.HasPrefix(w.Beeline.JDBCURL, "jdbc:hive2://") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "warehouse.beeline.jdbc_url",
				Message:  fmt.Sprintf("jdbc_url %q does not look like a HiveServer2 endpoint", w.Beeline.JDBCURL),
			})
		}
	case "postgres", "sqlite":
		if strings.TrimSpace(w.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "warehouse.db.dsn",
				Message:  fmt.Sprintf("%s backend requires warehouse.db.dsn", w.Kind),
			})
		}
	}

	return issues
}
