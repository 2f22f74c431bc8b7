// Package docstoretest provides helpers for testing code that depends on a
// docstore.Store.
package docstoretest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophcart/internal/docstore"
)

// Faulty wraps a Store, counts calls per operation and returns the
// configured error instead of calling through when one is set.
type Faulty struct {
	docstore.Store

	mu    sync.Mutex
	fail  map[string]error
	calls map[string]int
}

const (
	OpFind   = "find"
	OpAll    = "all"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

func NewFaulty(s docstore.Store) *Faulty {
	return &Faulty{Store: s, fail: map[string]error{}, calls: map[string]int{}}
}

// Fail makes op return err. A nil err clears the failure.
func (f *Faulty) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (f *Faulty) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Faulty) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.fail[op]
}

func (f *Faulty) Find(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	if err := f.enter(OpFind); err != nil {
		return nil, err
	}
	return f.Store.Find(ctx, collection, field, value)
}

func (f *Faulty) All(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := f.enter(OpAll); err != nil {
		return nil, err
	}
	return f.Store.All(ctx, collection)
}

func (f *Faulty) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := f.enter(OpInsert); err != nil {
		return "", err
	}
	return f.Store.Insert(ctx, collection, fields)
}

func (f *Faulty) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := f.enter(OpUpdate); err != nil {
		return err
	}
	return f.Store.Update(ctx, collection, id, fields)
}

func (f *Faulty) Delete(ctx context.Context, collection, id string) error {
	if err := f.enter(OpDelete); err != nil {
		return err
	}
	return f.Store.Delete(ctx, collection, id)
}
