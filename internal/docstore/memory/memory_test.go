package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertThenFind(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, "users", map[string]any{"username": "alice1", "password": "pass12"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs, err := s.Find(ctx, "users", "username", "alice1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "pass12", docs[0].Fields["password"])

	docs, err = s.Find(ctx, "users", "username", "bob01")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFind_NumericFieldMatchesAnyNumericType(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Insert(ctx, "products", map[string]any{"id": 2, "name": "Book"})
	require.NoError(t, err)

	for _, v := range []any{2, int64(2), 2.0} {
		docs, err := s.Find(ctx, "products", "id", v)
		require.NoError(t, err)
		assert.Len(t, docs, 1, "value %v", v)
	}
}

func TestFind_DuplicatesReturnedInInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Insert(ctx, "carts", map[string]any{"username": "alice1"})
	require.NoError(t, err)
	second, err := s.Insert(ctx, "carts", map[string]any{"username": "alice1"})
	require.NoError(t, err)

	docs, err := s.Find(ctx, "carts", "username", "alice1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first, docs[0].ID)
	assert.Equal(t, second, docs[1].ID)
}

func TestUpdate_MergesTopLevelFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Insert(ctx, "carts", map[string]any{"username": "alice1", "items": []any{}})
	require.NoError(t, err)

	items := []map[string]any{{"product": map[string]any{"id": 1}, "amount": 2}}
	require.NoError(t, s.Update(ctx, "carts", id, map[string]any{"items": items}))

	docs, err := s.All(ctx, "carts")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "alice1", docs[0].Fields["username"])
	got := docs[0].Fields["items"].([]any)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].(map[string]any)["amount"])
}

func TestUpdate_UnknownID(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), "carts", "nope", map[string]any{"items": nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_RemovesAndIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Insert(ctx, "products", map[string]any{"id": 0})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "products", map[string]any{"id": 1})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "products", a))
	require.NoError(t, s.Delete(ctx, "products", a))

	docs, err := s.All(ctx, "products")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.EqualValues(t, 1, docs[0].Fields["id"])
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	fields := map[string]any{"username": "alice1"}
	_, err := s.Insert(ctx, "users", fields)
	require.NoError(t, err)
	fields["username"] = "mallory"

	docs, err := s.All(ctx, "users")
	require.NoError(t, err)
	docs[0].Fields["username"] = "eve01"

	docs, err = s.All(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "alice1", docs[0].Fields["username"])
}

func TestClosedStoreFails(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Close())

	_, err := s.All(ctx, "users")
	assert.Error(t, err)
	_, err = s.Insert(ctx, "users", nil)
	assert.Error(t, err)
	assert.Error(t, s.Update(ctx, "users", "x", nil))
	assert.Error(t, s.Delete(ctx, "users", "x"))
}

func TestCanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Find(ctx, "users", "username", "x")
	assert.True(t, errors.Is(err, context.Canceled))
}
