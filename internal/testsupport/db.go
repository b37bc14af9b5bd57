// Package testsupport builds migrated in-memory databases for package tests.
package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitebook/migrations"
)

// NewDB returns a bun DB over a private shared-cache sqlite database with the
// full schema applied. A single connection serializes access.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	require.NoError(t, migrations.Apply(context.Background(), sqldb, "sqlite"))

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// Clock is a mutable clock for tests that need time to advance.
type Clock struct {
	T time.Time
}

// Now returns the current fake instant.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Epoch is the instant test clocks start from.
var Epoch = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)
