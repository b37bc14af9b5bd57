package sitebook

import (
	"io/fs"
)

// GetMigrationsFS returns the dialect-aware migration tree rooted at
// data/sql/migrations, ready to hand to go-persistence-bun.
func GetMigrationsFS() (fs.FS, error) {
	return fs.Sub(MigrationsFS, "data/sql/migrations")
}
