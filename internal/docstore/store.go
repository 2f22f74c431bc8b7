// Package docstore defines the remote document store contract used by the
// session, cart and catalog services, and helpers shared by its backends.
//
// A store is a set of named collections of schemaless documents. Each
// document is addressed by an opaque handle (Document.ID) assigned by the
// store on insert. No field is unique at the store level: Find may return
// several documents for the same value, in a store-defined order.
//
// Backends live in sub-packages: memory (in-process), sqlstore (SQLite and
// PostgreSQL) and firestore (Google Cloud Firestore).
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is one stored record.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the remote document store contract.
type Store interface {
	// Find returns the documents of collection whose field equals value.
	Find(ctx context.Context, collection, field string, value any) ([]Document, error)
	// All returns every document of collection.
	All(ctx context.Context, collection string) ([]Document, error)
	// Insert stores a new document and returns its handle.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update replaces the named top-level fields of an existing document.
	// Fields not named are left as they are. Unknown handles yield
	// common.ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting an unknown handle is not an error.
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// Decode copies the fields of doc into v, which must be a pointer to a
// struct with json tags.
func Decode(doc Document, v any) error {
	b, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// SameValue reports whether a stored field value equals a query value.
// Values are compared by their JSON form so that 1, int64(1) and 1.0 match.
func SameValue(stored, want any) bool {
	a, err := json.Marshal(stored)
	if err != nil {
		return false
	}
	b, err := json.Marshal(want)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}
