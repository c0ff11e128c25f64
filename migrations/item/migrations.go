// Package item embeds the goose migrations for the items table, one
// directory per SQL dialect.
package item

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// For returns the migration files for dialect ("postgres" or "sqlite"),
// rooted so goose sees the .sql files at the top level.
func For(dialect string) (fs.FS, error) {
	switch dialect {
	case "postgres", "sqlite":
		return fs.Sub(migrationsFS, dialect)
	default:
		return nil, fmt.Errorf("no item migrations for dialect %q", dialect)
	}
}

// SQLite returns the SQLite migrations. It panics only if the embed is broken.
func SQLite() fs.FS {
	f, err := For("sqlite")
	if err != nil {
		panic(err)
	}
	return f
}
