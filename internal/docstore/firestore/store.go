// Package firestore implements docstore.Store over Google Cloud Firestore.
// Set FIRESTORE_EMULATOR_HOST to point the client at a local emulator.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
}

var _ docstore.Store = (*Store)(nil)

// New connects to projectID. An empty credentialsFile means Application
// Default Credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return NewWithClient(client), nil
}

func NewWithClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Find(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	q := s.client.Collection(collection).WherePath(firestore.FieldPath{field}, "==", value)
	return readAll(q.Documents(ctx))
}

func (s *Store) All(ctx context.Context, collection string) ([]docstore.Document, error) {
	return readAll(s.client.Collection(collection).Documents(ctx))
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", mapError(err)
	}
	return ref.ID, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := s.client.Collection(collection).Doc(id).Get(ctx)
		return mapError(err)
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	return mapError(err)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return mapError(err)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func readAll(it *firestore.DocumentIterator) ([]docstore.Document, error) {
	defer it.Stop()

	var out []docstore.Document
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, docstore.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return out, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("firestore: %w", common.ErrNotFound)
	}
	return fmt.Errorf("firestore error: %w", err)
}
