package config

import (
	"strings"
	"testing"
)

/*
TestLoadAppliesDefaults verifies that an almost-empty pipeline file decodes
into the stock deployment layout: sample dataset paths, single-node WebHDFS
gateway, and the local HiveServer2 container for the beeline backend.
*/
func TestLoadAppliesDefaults(t *testing.T) {
	p, err := Load(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Job != "real_estate_etl" {
		t.Errorf("Job=%q", p.Job)
	}
	if p.Input.Path != "inputData/Real_Estate_Sales.csv" {
		t.Errorf("Input.Path=%q", p.Input.Path)
	}
	if p.Output.Path != "outputData/Real_Estate_Sales_Cleaned.csv" {
		t.Errorf("Output.Path=%q", p.Output.Path)
	}
	if p.HDFS.NamenodeURL != "http://namenode:9870" || p.HDFS.User != "root" {
		t.Errorf("HDFS defaults: %+v", p.HDFS)
	}
	if p.HDFS.Path != "/user/hive/warehouse/real_estate/real_estate_sales.csv" {
		t.Errorf("HDFS.Path=%q", p.HDFS.Path)
	}
	if p.Warehouse.Kind != "beeline" || p.Warehouse.Table != "real_estate_sales" {
		t.Errorf("Warehouse defaults: %+v", p.Warehouse)
	}
	if p.Warehouse.Beeline.Container != "hiveserver2" ||
		p.Warehouse.Beeline.JDBCURL != "jdbc:hive2://localhost:10000" ||
		p.Warehouse.Beeline.BeelinePath != "/opt/hive/bin/beeline" {
		t.Errorf("Beeline defaults: %+v", p.Warehouse.Beeline)
	}
}

/*
TestLoadOverrides verifies that explicit values win over defaults.
*/
func TestLoadOverrides(t *testing.T) {
	in := `{
	  "job": "nightly",
	  "input": { "path": "/data/in.csv" },
	  "warehouse": { "kind": "sqlite", "db": { "dsn": ":memory:" } }
	}`
	p, err := Load(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Job != "nightly" || p.Input.Path != "/data/in.csv" {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Warehouse.Kind != "sqlite" || p.Warehouse.DB.DSN != ":memory:" {
		t.Fatalf("warehouse overrides not applied: %+v", p.Warehouse)
	}
	// Untouched sections still default.
	if p.HDFS.User != "root" {
		t.Fatalf("HDFS default lost: %+v", p.HDFS)
	}
}

/*
TestLoadRejectsBadJSON verifies that malformed JSON is surfaced as an error.
*/
func TestLoadRejectsBadJSON(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"job": `)); err == nil {
		t.Fatal("want decode error, got nil")
	}
}
