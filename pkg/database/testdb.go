package database

import (
	"context"
	"io/fs"
	"testing"

	"github.com/ghuser/expense-tracker/pkg/logger"
	"github.com/ghuser/expense-tracker/pkg/migrator"
)

// NewTestDB creates a fresh in-memory SQLite database with migrations from
// files applied. The database is closed when the test ends.
func NewTestDB(t *testing.T, files fs.FS) *Database {
	t.Helper()

	ctx := context.Background()
	d, err := NewPool(ctx, "sqlite://:memory:", logger.Discard())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := migrator.Up(ctx, d.DB(), string(DialectSQLite), files); err != nil {
		d.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(d.Close)

	return d
}
