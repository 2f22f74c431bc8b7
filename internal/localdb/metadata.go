package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcart/internal/dbx"
)

// MetadataRepository stores opaque values by key. Get of a missing key
// returns (nil, nil).
type MetadataRepository struct {
	db  dbx.DBTX
	raw *sql.DB
}

// NewMetadataRepository binds the repository to db. When db is a *sql.DB,
// SetMany runs in a transaction.
func NewMetadataRepository(db dbx.DBTX) *MetadataRepository {
	r := &MetadataRepository{db: db}
	if sqlDB, ok := db.(*sql.DB); ok {
		r.raw = sqlDB
	}
	return r
}

func (r *MetadataRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// SetMany stores all pairs at once: either every key is written or none.
func (r *MetadataRepository) SetMany(ctx context.Context, values map[string][]byte) error {
	if r.raw == nil {
		for k, v := range values {
			if err := set(ctx, r.db, k, v); err != nil {
				return err
			}
		}
		return nil
	}

	return dbx.WithTx(ctx, r.raw, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MetadataRepository) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
		}
	}
	return nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}
