// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/database"
	"github.com/locallibrary/catalog/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// New returns a fresh in-memory database with every migration applied. The
// database is closed when the test finishes.
func New(t testing.TB) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return db
}
