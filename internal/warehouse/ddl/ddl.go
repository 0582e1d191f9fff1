// Package ddl defines a small model for the warehouse table declaration and
// helpers to render CREATE TABLE statements from it.
//
// The canonical column types are Hive's (INT, DOUBLE, STRING); backends
// speaking other dialects map them via a type-mapping function. The model
// does not quote identifiers; names are emitted as-is.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef is one column of the warehouse table.
type ColumnDef struct {
	Name string
	// Type is the canonical Hive type: "INT", "DOUBLE", or "STRING".
	Type string
}

// TableDef declares the warehouse table: its name, ordered columns, and the
// external-storage binding used by the Hive dialect.
type TableDef struct {
	Name    string
	Columns []ColumnDef

	// Location is the distributed-filesystem directory the external table
	// reads from (Hive dialect only).
	Location string

	// FieldDelimiter separates fields in the delimited-text row format.
	// Empty means comma.
	FieldDelimiter string

	// SkipHeaderLines is the number of leading lines ignored per stored
	// file, carried as a table property (the uploaded CSV keeps its header).
	SkipHeaderLines int
}

// ColumnNames returns the column names in declaration order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// BuildHiveCreateTable renders the CREATE TABLE IF NOT EXISTS statement for
// HiveQL: delimited-text row format, text-file storage, external location,
// and the skip-header table property.
func BuildHiveCreateTable(t TableDef) (string, error) {
	if err := check(t); err != nil {
		return "", err
	}

	delim := t.FieldDelimiter
	if delim == "" {
		delim = ","
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("    %s %s", c.Name, c.Type)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	sb.WriteString(strings.Join(cols, ",\n"))
	sb.WriteString("\n)\n")
	sb.WriteString("ROW FORMAT DELIMITED\n")
	fmt.Fprintf(&sb, "FIELDS TERMINATED BY '%s'\n", delim)
	sb.WriteString("STORED AS TEXTFILE\n")
	if t.Location != "" {
		fmt.Fprintf(&sb, "LOCATION '%s'\n", t.Location)
	}
	if t.SkipHeaderLines > 0 {
		fmt.Fprintf(&sb, "TBLPROPERTIES ('skip.header.line.count'='%d')", t.SkipHeaderLines)
	}
	out := strings.TrimRight(sb.String(), "\n") + ";"
	return out, nil
}

// BuildCreateTable renders a generic CREATE TABLE IF NOT EXISTS for dialects
// without external-table clauses. typeMap converts the canonical Hive type to
// the dialect's; a nil typeMap emits the canonical types unchanged.
func BuildCreateTable(t TableDef, typeMap func(string) string) (string, error) {
	if err := check(t); err != nil {
		return "", err
	}
	if typeMap == nil {
		typeMap = func(s string) string { return s }
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("  %s %s", c.Name, typeMap(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", t.Name, strings.Join(cols, ",\n")), nil
}

// check validates the parts every renderer needs.
func check(t TableDef) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ddl: at least one column is required")
	}
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("ddl: column with empty name in table %s", t.Name)
		}
		if strings.TrimSpace(c.Type) == "" {
			return fmt.Errorf("ddl: column %s missing type", c.Name)
		}
	}
	return nil
}
