package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour and driver of a Store.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// queries holds the statements of one dialect.
type queries struct {
	driver      string
	gooseDriver string
	dir         string

	find   string
	all    string
	insert string
	load   string
	save   string
	delete string
}

var postgresQueries = queries{
	driver:      "pgx",
	gooseDriver: "pgx",
	dir:         "postgres",

	find: `SELECT id, data FROM documents
		 WHERE collection = $1 AND data -> $2::text = $3::jsonb
		 ORDER BY seq`,
	all: `SELECT id, data FROM documents
		 WHERE collection = $1
		 ORDER BY seq`,
	insert: `INSERT INTO documents (id, collection, data)
		 VALUES ($1, $2, $3::jsonb)`,
	load: `SELECT data FROM documents
		 WHERE collection = $1 AND id = $2
		 FOR UPDATE`,
	save: `UPDATE documents SET data = $3::jsonb
		 WHERE collection = $1 AND id = $2`,
	delete: `DELETE FROM documents
		 WHERE collection = $1 AND id = $2`,
}

var sqliteQueries = queries{
	driver:      "sqlite",
	gooseDriver: "sqlite3",
	dir:         "sqlite",

	find: `SELECT id, data FROM documents
		 WHERE collection = ? AND json_extract(data, '$."' || ? || '"') = ?
		 ORDER BY seq`,
	all: `SELECT id, data FROM documents
		 WHERE collection = ?
		 ORDER BY seq`,
	insert: `INSERT INTO documents (id, collection, data)
		 VALUES (?, ?, ?)`,
	load: `SELECT data FROM documents
		 WHERE collection = ? AND id = ?`,
	save: `UPDATE documents SET data = ?3
		 WHERE collection = ?1 AND id = ?2`,
	delete: `DELETE FROM documents
		 WHERE collection = ? AND id = ?`,
}

func (d Dialect) queries() (queries, error) {
	switch Dialect(strings.ToLower(string(d))) {
	case Postgres:
		return postgresQueries, nil
	case SQLite:
		return sqliteQueries, nil
	default:
		return queries{}, fmt.Errorf("unsupported sql dialect %q", d)
	}
}
