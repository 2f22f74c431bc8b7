// Package backend opens the document store selected in the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcart/internal/config"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/dmitrijs2005/gophcart/internal/docstore/firestore"
	"github.com/dmitrijs2005/gophcart/internal/docstore/memory"
	"github.com/dmitrijs2005/gophcart/internal/docstore/sqlstore"
)

// Open returns the store named by cfg.StoreBackend. SQL backends are
// migrated before they are returned.
func Open(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		return sqlstore.Open(ctx, sqlstore.SQLite, cfg.SQLiteDSN)
	case config.BackendPostgres:
		return sqlstore.Open(ctx, sqlstore.Postgres, cfg.PostgresDSN)
	case config.BackendFirestore:
		return firestore.New(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// IsEphemeral reports whether the store forgets everything on exit and has
// to be seeded on every start.
func IsEphemeral(cfg *config.Config) bool {
	return cfg.StoreBackend == config.BackendMemory
}
