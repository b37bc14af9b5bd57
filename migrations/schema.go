package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SchemaCheck describes a table/column requirement.
type SchemaCheck struct {
	Table   string
	Columns []string
}

// DefaultSchemaChecks captures the columns the audit and read-tracking
// repositories rely on, including the unique (user_id, project_id) pair.
var DefaultSchemaChecks = []SchemaCheck{
	{
		Table: "activity_log",
		Columns: []string{
			"id", "project_id", "user_id", "user_name", "action",
			"entity_type", "entity_id", "description", "timestamp", "additional_data",
		},
	},
	{
		Table: "user_activity",
		Columns: []string{
			"id", "user_id", "project_id",
			"last_rfis_visit", "last_submittals_visit", "last_change_orders_visit",
			"last_tasks_visit", "last_documents_visit", "read_items",
		},
	},
	{Table: "projects", Columns: []string{"id", "name", "client_id", "cost"}},
	{Table: "tasks", Columns: []string{"id", "title", "status", "project_id"}},
	{Table: "rfis", Columns: []string{"id", "title", "status", "project_id"}},
	{Table: "submittals", Columns: []string{"id", "title", "status", "project_id"}},
	{Table: "change_orders", Columns: []string{"id", "title", "status", "project_id", "cost"}},
	{Table: "documents", Columns: []string{"id", "name", "url", "project_id", "size"}},
	{Table: "clients", Columns: []string{"id", "name"}},
	{Table: "users", Columns: []string{"id", "email", "password_hash", "role", "active"}},
}

// SchemaOption customizes schema validation.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	checks []SchemaCheck
}

// WithSchemaChecks replaces the default checks with a custom list.
func WithSchemaChecks(checks []SchemaCheck) SchemaOption {
	return func(cfg *schemaConfig) {
		cfg.checks = checks
	}
}

// SchemaValidationError summarizes missing tables/columns.
type SchemaValidationError struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if len(e.MissingTables) > 0 {
		parts = append(parts, "missing tables: "+strings.Join(e.MissingTables, ", "))
	}
	if len(e.MissingColumns) > 0 {
		tables := make([]string, 0, len(e.MissingColumns))
		for table := range e.MissingColumns {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		cols := make([]string, 0, len(tables))
		for _, table := range tables {
			missing := e.MissingColumns[table]
			sort.Strings(missing)
			cols = append(cols, fmt.Sprintf("%s(%s)", table, strings.Join(missing, ", ")))
		}
		parts = append(parts, "missing columns: "+strings.Join(cols, "; "))
	}
	if len(parts) == 0 {
		return "schema validation failed"
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateSchema ensures the storage layout exposes every column the
// repositories address.
func ValidateSchema(ctx context.Context, db *sql.DB, dialect string, opts ...SchemaOption) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}
	cfg := schemaConfig{checks: DefaultSchemaChecks}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	missingTables := make([]string, 0)
	missingColumns := make(map[string][]string)
	for _, check := range cfg.checks {
		if strings.TrimSpace(check.Table) == "" {
			continue
		}
		cols, err := fetchColumns(ctx, db, normalized, check.Table)
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			missingTables = append(missingTables, check.Table)
			continue
		}
		for _, col := range check.Columns {
			col = strings.ToLower(strings.TrimSpace(col))
			if col != "" && !cols[col] {
				missingColumns[check.Table] = append(missingColumns[check.Table], col)
			}
		}
	}
	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}
	sort.Strings(missingTables)
	return &SchemaValidationError{MissingTables: missingTables, MissingColumns: missingColumns}
}

func fetchColumns(ctx context.Context, db *sql.DB, dialect, table string) (map[string]bool, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch dialect {
	case "postgres":
		rows, err = db.QueryContext(ctx, `
			SELECT column_name
			FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1
		`, table)
	default:
		rows, err = db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}
