// Package dbtest opens throwaway in-memory SQLite databases with the
// application schema applied.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/db"
)

// New returns a migrated database that lives until the test ends.
// Each call gets its own named in-memory database, so tests can run in
// parallel without sharing rows.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", uuid.NewString())

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)

	// Shared-cache memory databases report table locks instead of waiting,
	// so serialize access through a single connection.
	// The database disappears with its last connection, so keep that
	// connection alive for the whole test.
	database.SetMaxOpenConns(1)
	database.SetConnMaxLifetime(0)

	t.Cleanup(func() {
		_ = database.Close()
	})

	err = db.RunMigrations(context.Background(), database.DB, "sqlite")
	require.NoError(t, err)

	return database
}
