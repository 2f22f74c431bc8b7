package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore/docstoretest"
	"github.com/dmitrijs2005/gophcart/internal/docstore/memory"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const col = "products"

func newCatalog(t *testing.T) (*Catalog, *docstoretest.Faulty) {
	t.Helper()
	store := docstoretest.NewFaulty(memory.New())
	return New(store, col, nil, logging.Discard()), store
}

func pencil() models.Product {
	return models.Product{ID: 0, Name: "Pencil", Price: 1.5, Description: "HB", Image: "pencil.png"}
}

func table() models.Product {
	return models.Product{ID: 1, Name: "Table", Price: 120, Description: "Oak", Image: "table.png"}
}

func TestFetchAll_SortsByID(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, col, map[string]any{"id": 2, "name": "Book", "price": 9.99})
	require.NoError(t, err)
	_, err = store.Insert(ctx, col, map[string]any{"id": 0, "name": "Pencil", "price": 1.5})
	require.NoError(t, err)

	require.NoError(t, c.FetchAll(ctx))

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, 0, list[0].ID)
	assert.Equal(t, 2, list[1].ID)
	assert.Equal(t, 9.99, list[1].Price)
}

func TestFetchAll_FailureLeavesEmptyList(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, pencil()))
	require.Len(t, c.List(), 1)

	store.Fail(docstoretest.OpAll, errors.New("offline"))
	err := c.FetchAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteCall)
	assert.Empty(t, c.List())
	assert.NotNil(t, c.List())
}

func TestFetchAll_BadDocumentLeavesEmptyList(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, col, map[string]any{"id": "not-a-number"})
	require.NoError(t, err)

	err = c.FetchAll(ctx)
	assert.ErrorIs(t, err, common.ErrRemoteCall)
	assert.Empty(t, c.List())
}

func TestAdd_RefetchesAndRejectsDuplicateID(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, table()))
	require.NoError(t, c.Add(ctx, pencil()))
	assert.Equal(t, 2, store.Calls(docstoretest.OpAll))

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, pencil(), list[0])
	assert.Equal(t, table(), list[1])

	err := c.Add(ctx, models.Product{ID: 1, Name: "Chair"})
	assert.ErrorIs(t, err, common.ErrDuplicate)
	assert.Equal(t, 2, store.Calls(docstoretest.OpInsert))
}

func TestAdd_InsertFailure(t *testing.T) {
	c, store := newCatalog(t)
	store.Fail(docstoretest.OpInsert, errors.New("rejected"))

	err := c.Add(context.Background(), pencil())
	assert.ErrorIs(t, err, common.ErrRemoteCall)
	assert.Zero(t, store.Calls(docstoretest.OpAll))
}

func TestGet(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.Add(context.Background(), table()))

	p, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Table", p.Name)

	_, ok = c.Get(7)
	assert.False(t, ok)
}

func TestUpdate_ReplacesAllFieldsButID(t *testing.T) {
	c, _ := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, table()))

	changed := models.Product{ID: 1, Name: "Desk", Price: 99, Description: "", Image: ""}
	require.NoError(t, c.Update(ctx, changed))

	p, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, changed, p)
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	c, store := newCatalog(t)

	err := c.Update(context.Background(), table())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Zero(t, store.Calls(docstoretest.OpUpdate))
	assert.Zero(t, store.Calls(docstoretest.OpAll))
}

func TestRemove(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, table()))
	require.NoError(t, c.Add(ctx, pencil()))

	require.NoError(t, c.Remove(ctx, 1))
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Len(t, c.List(), 1)

	err := c.Remove(ctx, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 1, store.Calls(docstoretest.OpDelete))
}

func TestRemove_DeleteFailure(t *testing.T) {
	c, store := newCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.Add(ctx, table()))

	store.Fail(docstoretest.OpDelete, errors.New("denied"))
	err := c.Remove(ctx, 1)
	assert.ErrorIs(t, err, common.ErrRemoteCall)

	_, ok := c.Get(1)
	assert.True(t, ok)
}

func TestList_ReturnsCopy(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.Add(context.Background(), table()))

	list := c.List()
	list[0].Name = "changed"

	p, _ := c.Get(1)
	assert.Equal(t, "Table", p.Name)
}

type fakePublisher struct {
	url string
	err error
}

func (f fakePublisher) Publish(ctx context.Context, name string, body []byte) (string, error) {
	return f.url, f.err
}

func TestPublishImage(t *testing.T) {
	store := memory.New()

	c := New(store, col, nil, logging.Discard())
	_, err := c.PublishImage(context.Background(), "a.png", []byte("x"))
	assert.ErrorIs(t, err, ErrNoPublisher)

	c = New(store, col, fakePublisher{url: "http://img/a.png"}, logging.Discard())
	url, err := c.PublishImage(context.Background(), "a.png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "http://img/a.png", url)

	c = New(store, col, fakePublisher{err: errors.New("s3 down")}, logging.Discard())
	_, err = c.PublishImage(context.Background(), "a.png", []byte("x"))
	assert.ErrorIs(t, err, common.ErrRemoteCall)
}
