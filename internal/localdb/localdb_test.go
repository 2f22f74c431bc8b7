package localdb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesSchemaAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	assert.True(t, tableExists(t, db.db, "metadata"))
	assert.True(t, tableExists(t, db.db, "goose_db_version"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpen_CreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "client.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local db migrations: boom")
}

// stored reads the whole metadata table.
func stored(t *testing.T, db *DB) map[string][]byte {
	t.Helper()
	rows, err := db.db.Query(`SELECT key, value FROM metadata`)
	require.NoError(t, err)
	defer rows.Close()

	m := map[string][]byte{}
	for rows.Next() {
		var (
			k string
			v []byte
		)
		require.NoError(t, rows.Scan(&k, &v))
		m[k] = v
	}
	require.NoError(t, rows.Err())
	return m
}

func TestMetadata_SetManyGetOverwrite(t *testing.T) {
	db := openDB(t)
	r := db.Metadata
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": {0xAA}, "b": {0xBB, 0xCC}}))
	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": []byte("new")}))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	v, err = r.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Equal(t, map[string][]byte{"a": []byte("new"), "b": {0xBB, 0xCC}}, stored(t, db))
}

func TestMetadata_InsideCallerTransaction(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	tx, err := db.db.BeginTx(ctx, nil)
	require.NoError(t, err)

	r := NewMetadataRepository(tx)
	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": {1}}))
	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)
	require.NoError(t, tx.Rollback())

	assert.Empty(t, stored(t, db))
}

func TestMetadata_Delete(t *testing.T) {
	db := openDB(t)
	r := db.Metadata
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": {1}, "b": {2}, "c": {3}}))
	require.NoError(t, r.Delete(ctx, "a", "b"))
	require.NoError(t, r.Delete(ctx, "a"))

	assert.Equal(t, map[string][]byte{"c": {3}}, stored(t, db))
}

func TestMetadata_ErrorsAreWrapped(t *testing.T) {
	db := openDB(t)
	r := db.Metadata
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")
	assert.ErrorContains(t, r.SetMany(ctx, map[string][]byte{"k": []byte("v")}), "begin tx")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
}
