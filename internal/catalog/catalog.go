// Package catalog mirrors the product collection of the document store.
//
// The local list always equals the last full read: every add, update and
// remove is followed by a FetchAll instead of an incremental local edit.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/models"
)

// ImagePublisher uploads a product image and returns the URL it is served at.
type ImagePublisher interface {
	Publish(ctx context.Context, name string, body []byte) (string, error)
}

var ErrNoPublisher = errors.New("image publishing is not configured")

type Catalog struct {
	store      docstore.Store
	collection string
	images     ImagePublisher
	log        logging.Logger

	mu       sync.RWMutex
	products []models.Product
}

// New creates an empty catalog. images may be nil.
func New(store docstore.Store, collection string, images ImagePublisher, log logging.Logger) *Catalog {
	return &Catalog{
		store:      store,
		collection: collection,
		images:     images,
		log:        log.With("module", "catalog"),
		products:   []models.Product{},
	}
}

// FetchAll replaces the local list with the products read from the store,
// sorted by id. On any failure the list is left empty.
func (c *Catalog) FetchAll(ctx context.Context) error {
	products, err := c.read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.products = []models.Product{}
		c.log.Error(ctx, "fetch products failed", "error", err)
		return common.Remote("fetch products", err)
	}

	c.products = products
	return nil
}

func (c *Catalog) read(ctx context.Context) ([]models.Product, error) {
	docs, err := c.store.All(ctx, c.collection)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		var p models.Product
		if err := docstore.Decode(d, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// List returns a copy of the local product list.
func (c *Catalog) List() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id int) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Add inserts p and refetches the list. A product with the same id already
// in the store yields common.ErrDuplicate.
func (c *Catalog) Add(ctx context.Context, p models.Product) error {
	docs, err := c.store.Find(ctx, c.collection, "id", p.ID)
	if err != nil {
		return common.Remote("add product", err)
	}
	if len(docs) > 0 {
		return fmt.Errorf("product %d: %w", p.ID, common.ErrDuplicate)
	}

	if _, err := c.store.Insert(ctx, c.collection, p.Fields()); err != nil {
		c.log.Error(ctx, "add product failed", "id", p.ID, "error", err)
		return common.Remote("add product", err)
	}

	c.log.Info(ctx, "product added", "id", p.ID)
	return c.FetchAll(ctx)
}

// Update replaces every field but the id of the product with p.ID and
// refetches the list.
func (c *Catalog) Update(ctx context.Context, p models.Product) error {
	docs, err := c.store.Find(ctx, c.collection, "id", p.ID)
	if err != nil {
		return common.Remote("update product", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("product %d: %w", p.ID, common.ErrNotFound)
	}

	if err := c.store.Update(ctx, c.collection, docs[0].ID, productFields(p)); err != nil {
		c.log.Error(ctx, "update product failed", "id", p.ID, "error", err)
		return common.Remote("update product", err)
	}

	c.log.Info(ctx, "product updated", "id", p.ID)
	return c.FetchAll(ctx)
}

// Remove deletes every document holding product id and refetches the list.
func (c *Catalog) Remove(ctx context.Context, id int) error {
	docs, err := c.store.Find(ctx, c.collection, "id", id)
	if err != nil {
		return common.Remote("remove product", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("product %d: %w", id, common.ErrNotFound)
	}

	for _, d := range docs {
		if err := c.store.Delete(ctx, c.collection, d.ID); err != nil {
			c.log.Error(ctx, "remove product failed", "id", id, "error", err)
			return common.Remote("remove product", err)
		}
	}

	c.log.Info(ctx, "product removed", "id", id)
	return c.FetchAll(ctx)
}

// PublishImage uploads an image and returns the URL to put in Product.Image.
func (c *Catalog) PublishImage(ctx context.Context, name string, body []byte) (string, error) {
	if c.images == nil {
		return "", ErrNoPublisher
	}

	url, err := c.images.Publish(ctx, name, body)
	if err != nil {
		c.log.Error(ctx, "publish image failed", "name", name, "error", err)
		return "", common.Remote("publish image", err)
	}
	return url, nil
}

// productFields are the fields an update replaces: all of them but the id.
func productFields(p models.Product) map[string]any {
	fields := p.Fields()
	delete(fields, "id")
	return fields
}
