// Package sqlstore implements docstore.Store on top of a single SQL table of
// JSON documents. PostgreSQL keeps the payload as JSONB and SQLite as JSON
// text; the schema is managed by goose migrations embedded in the binary.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/dbx"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/dmitrijs2005/gophcart/internal/docstore/sqlstore/migrations"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var (
	gooseUpContext = goose.UpContext
	newID          = uuid.NewString
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	q       queries
}

var _ docstore.Store = (*Store)(nil)

// New wraps an already opened database. The schema is expected to be
// migrated (see RunMigrations).
func New(db *sql.DB, dialect Dialect) (*Store, error) {
	q, err := dialect.queries()
	if err != nil {
		return nil, err
	}
	return &Store{db: db, dialect: dialect, q: q}, nil
}

// Open connects to dsn with the driver of dialect and applies pending
// migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	q, err := dialect.queries()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(q.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, dialect)
}

func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	q, err := dialect.queries()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(q.gooseDriver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, q.dir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (s *Store) Find(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	arg, err := s.queryArg(value)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.q.find, collection, field, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanDocuments(rows)
}

func (s *Store) All(ctx context.Context, collection string) ([]docstore.Document, error) {
	rows, err := s.db.QueryContext(ctx, s.q.all, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanDocuments(rows)
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := newID()
	if _, err := s.db.ExecContext(ctx, s.q.insert, id, collection, string(data)); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// Update reads the document, merges fields into it and writes it back in one
// transaction.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var raw []byte
		err := tx.QueryRowContext(ctx, s.q.load, collection, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		current := map[string]any{}
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("decode document %s: %w", id, err)
		}
		for k, v := range fields {
			current[k] = v
		}

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.q.save, collection, id, string(data)); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, collection, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// queryArg converts a Find value to the bind argument of the dialect:
// JSON text for a JSONB comparison, or the scalar itself for json_extract.
func (s *Store) queryArg(value any) (any, error) {
	if s.dialect == Postgres {
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode query value: %w", err)
		}
		return string(b), nil
	}

	switch v := value.(type) {
	case string, int, int32, int64, float32, float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, fmt.Errorf("unsupported query value %T", value)
	}
}

func scanDocuments(rows *sql.Rows) ([]docstore.Document, error) {
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		out = append(out, docstore.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
