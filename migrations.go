package sitebook

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized in a dialect-aware structure:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides are in data/sql/migrations/sqlite/*.sql
//
// The go-persistence-bun loader selects the matching set from the dialect
// of the client it is registered with.
//
// Usage:
//
//	migrationsFS, _ := fs.Sub(sitebook.MigrationsFS, "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var MigrationsFS embed.FS
