package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	sitebook "github.com/goliatone/go-sitebook"
)

// Filesystem returns the embedded migration tree. PostgreSQL files live at
// the root and SQLite overrides under sqlite/.
func Filesystem() (fs.FS, error) {
	return sitebook.GetMigrationsFS()
}

// Apply runs every up migration for dialect directly against db, in file
// order. It serves embedded databases and tests that have no migration
// runner; production processes migrate through go-persistence-bun.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migrations: db required")
	}
	normalized, err := normalizeDialect(dialect)
	if err != nil {
		return err
	}
	fsys, err := Filesystem()
	if err != nil {
		return err
	}
	pattern := "*.up.sql"
	if normalized == "sqlite" {
		pattern = "sqlite/*.up.sql"
	}
	entries, err := fs.Glob(fsys, pattern)
	if err != nil {
		return err
	}
	sort.Strings(entries)
	for _, entry := range entries {
		content, err := fs.ReadFile(fsys, entry)
		if err != nil {
			return err
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrations: %s: %w", entry, err)
			}
		}
	}
	return nil
}

// SplitStatements breaks a migration file into executable statements,
// dropping blank lines and line comments.
func SplitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}

func normalizeDialect(dialect string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
