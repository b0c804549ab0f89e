// Package databasetest provides migrated throwaway databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakif/lms-admin/internal/database"
)

// NewSQLite opens a migrated SQLite database in t.TempDir and closes it when
// the test ends. A file is used instead of :memory: because every pooled
// connection to :memory: would see its own empty database.
func NewSQLite(t testing.TB) *database.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := database.Open(ctx, database.Config{
		Driver:         database.DriverSQLite,
		URL:            "file:" + filepath.Join(t.TempDir(), "lms_test.db"),
		MinConns:       1,
		MaxConns:       4,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("databasetest: open: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Close(ctx)
	})

	if _, err := pool.Migrate(ctx); err != nil {
		t.Fatalf("databasetest: migrate: %v", err)
	}
	return pool
}
