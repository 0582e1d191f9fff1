package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains a finding at path with severity.
func hasIssue(issues []Issue, sev IssueSeverity, path string) bool {
	for _, i := range issues {
		if i.Severity == sev && i.Path == path {
			return true
		}
	}
	return false
}

/*
TestValidatePipeline_Defaults verifies that the default config is clean: no
errors, no warnings.
*/
func TestValidatePipeline_Defaults(t *testing.T) {
	var p Pipeline
	p.ApplyDefaults()

	issues := ValidatePipeline(p)
	if len(issues) != 0 {
		t.Fatalf("default config should validate cleanly; got %v", issues)
	}
}

/*
TestValidatePipeline_Findings drives the validator through representative bad
configs and checks the issue paths and severities.
*/
func TestValidatePipeline_Findings(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Pipeline)
		sev   IssueSeverity
		path  string
	}{
		{"empty job", func(p *Pipeline) { p.Job = " " }, SeverityError, "job"},
		{"empty input", func(p *Pipeline) { p.Input.Path = "" }, SeverityError, "input.path"},
		{"empty output", func(p *Pipeline) { p.Output.Path = "" }, SeverityError, "output.path"},
		{"relative hdfs path", func(p *Pipeline) { p.HDFS.Path = "user/x.csv" }, SeverityError, "hdfs.path"},
		{"hdfs path under root", func(p *Pipeline) { p.HDFS.Path = "/x.csv" }, SeverityWarning, "hdfs.path"},
		{"bad namenode url", func(p *Pipeline) { p.HDFS.NamenodeURL = "namenode:9870" }, SeverityError, "hdfs.namenode_url"},
		{"empty hdfs user", func(p *Pipeline) { p.HDFS.User = "" }, SeverityError, "hdfs.user"},
		{"negative retries", func(p *Pipeline) { p.HDFS.MaxRetries = -1 }, SeverityError, "hdfs.max_retries"},
		{"unknown kind", func(p *Pipeline) { p.Warehouse.Kind = "duckdb" }, SeverityWarning, "warehouse.kind"},
		{"empty table", func(p *Pipeline) { p.Warehouse.Table = "" }, SeverityError, "warehouse.table"},
		{"beeline without container", func(p *Pipeline) { p.Warehouse.Beeline.Container = "" }, SeverityError, "warehouse.beeline.container"},
		{"odd jdbc url", func(p *Pipeline) { p.Warehouse.Beeline.JDBCURL = "http://localhost:10000" }, SeverityWarning, "warehouse.beeline.jdbc_url"},
		{"postgres without dsn", func(p *Pipeline) { p.Warehouse.Kind = "postgres"; p.Warehouse.DB.DSN = "" }, SeverityError, "warehouse.db.dsn"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Pipeline
			p.ApplyDefaults()
			c.edit(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(issues, c.sev, c.path) {
				t.Fatalf("want %s at %s; got %v", c.sev, c.path, issues)
			}
		})
	}
}

/*
TestIssueError verifies the Issue error string format used in CLI output.
*/
func TestIssueError(t *testing.T) {
	i := Issue{Severity: SeverityError, Path: "hdfs.path", Message: "must not be empty"}
	got := i.Error()
	if !strings.Contains(got, "error") || !strings.Contains(got, "hdfs.path") {
		t.Fatalf("unexpected Error(): %q", got)
	}
}
