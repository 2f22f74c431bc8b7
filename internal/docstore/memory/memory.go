// Package memory is an in-process docstore.Store. It stands in for the
// hosted database when the client runs fully local, and backs most tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/google/uuid"
)

type record struct {
	id   string
	data []byte
}

// Store keeps each collection as an insertion-ordered list of JSON-encoded
// documents, so callers never share maps with the store.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]record
	closed      bool
}

var _ docstore.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string][]record)}
}

func (s *Store) Find(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	var out []docstore.Document
	for _, r := range s.collections[collection] {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		if v, ok := doc.Fields[field]; ok && docstore.SameValue(v, value) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Store) All(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	recs := s.collections[collection]
	out := make([]docstore.Document, 0, len(recs))
	for _, r := range recs {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := json.Marshal(nonNil(fields))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errClosed
	}

	id := uuid.NewString()
	s.collections[collection] = append(s.collections[collection], record{id: id, data: data})
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	recs := s.collections[collection]
	for i := range recs {
		if recs[i].id != id {
			continue
		}
		doc, err := recs[i].document()
		if err != nil {
			return err
		}
		for k, v := range fields {
			doc.Fields[k] = v
		}
		data, err := json.Marshal(doc.Fields)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		recs[i].data = data
		return nil
	}
	return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrNotFound)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}

	recs := s.collections[collection]
	for i := range recs {
		if recs[i].id == id {
			s.collections[collection] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return nil
}

// Close makes every later call fail. It lets tests simulate a store that
// went away.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var errClosed = fmt.Errorf("memory store is closed")

func (r record) document() (docstore.Document, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(r.data, &fields); err != nil {
		return docstore.Document{}, fmt.Errorf("decode document %s: %w", r.id, err)
	}
	return docstore.Document{ID: r.id, Fields: fields}, nil
}

func nonNil(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	return fields
}
