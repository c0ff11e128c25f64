package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// dialects maps pkg/database dialect names onto goose dialects.
var dialects = map[string]goose.Dialect{
	"postgres": goose.DialectPostgres,
	"sqlite":   goose.DialectSQLite3,
}

// Up applies all pending goose migrations found at the root of files.
func Up(ctx context.Context, db *sql.DB, dialect string, files fs.FS) error {
	_, err := UpCount(ctx, db, dialect, files)
	return err
}

// UpCount is Up that also reports how many migrations ran.
func UpCount(ctx context.Context, db *sql.DB, dialect string, files fs.FS) (int, error) {
	d, ok := dialects[dialect]
	if !ok {
		return 0, fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	provider, err := goose.NewProvider(d, db, files)
	if err != nil {
		return 0, fmt.Errorf("failed to create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to up migrations: %w", err)
	}
	return len(results), nil
}
