// Package localdb is the client's own SQLite database. It keeps small
// key/value metadata such as the remembered session token, independent of
// the document store the catalog and carts live in.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophcart/internal/filex"
	"github.com/dmitrijs2005/gophcart/internal/localdb/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var gooseUpContext = goose.UpContext

type DB struct {
	db       *sql.DB
	Metadata *MetadataRepository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("local db migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database file at path and migrates it.
func Open(ctx context.Context, path string) (*DB, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, Metadata: NewMetadataRepository(db)}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
