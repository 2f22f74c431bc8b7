// Package cart keeps the cart of the logged-in user and mirrors it to the
// document store.
//
// Every mutation changes the local line items under a lock and then
// overwrites the whole items field of the remote cart document with a
// snapshot. Snapshots are numbered and pushed one at a time; a snapshot
// older than one already stored is dropped, so the remote document ends on
// the latest local state. There is no version check across clients: when
// two clients share a user the last writer wins.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/models"
)

type cartDocument struct {
	Username string            `json:"username"`
	Items    []models.LineItem `json:"items"`
}

type Manager struct {
	store      docstore.Store
	collection string
	log        logging.Logger

	mu     sync.Mutex
	owner  string
	handle string
	items  []models.LineItem
	// epoch changes on every InitializeForUser and ClearLocal.
	epoch uint64
	// gen numbers snapshots taken for a push.
	gen uint64

	syncMu sync.Mutex
	pushed map[string]uint64
}

func New(store docstore.Store, collection string, log logging.Logger) *Manager {
	return &Manager{
		store:      store,
		collection: collection,
		log:        log.With("module", "cart"),
		items:      []models.LineItem{},
		pushed:     map[string]uint64{},
	}
}

// InitializeForUser loads the cart document of username, creating an empty
// one when none exists. When several documents match, the first one wins.
// A ClearLocal or another InitializeForUser that happens while the document
// is being resolved supersedes this call, which then returns
// common.ErrInconsistentState and leaves the local cart alone.
func (m *Manager) InitializeForUser(ctx context.Context, username string) ([]models.LineItem, error) {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	handle, items, err := m.resolve(ctx, username)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		m.log.Warn(ctx, "cart initialization superseded", "username", username)
		return nil, fmt.Errorf("initialize cart %s: superseded: %w", username, common.ErrInconsistentState)
	}

	if err != nil {
		m.owner, m.handle, m.items = "", "", []models.LineItem{}
		m.log.Error(ctx, "cart initialization failed", "username", username, "error", err)
		return nil, common.Remote("initialize cart", err)
	}

	m.owner, m.handle, m.items = username, handle, items
	m.log.Debug(ctx, "cart loaded", "username", username, "handle", handle, "items", len(items))
	return models.CloneItems(items), nil
}

func (m *Manager) resolve(ctx context.Context, username string) (string, []models.LineItem, error) {
	docs, err := m.store.Find(ctx, m.collection, "username", username)
	if err != nil {
		return "", nil, err
	}

	if len(docs) > 0 {
		if len(docs) > 1 {
			m.log.Warn(ctx, "several cart documents for user", "username", username, "count", len(docs))
		}
		var doc cartDocument
		if err := docstore.Decode(docs[0], &doc); err != nil {
			return "", nil, err
		}
		return docs[0].ID, models.CloneItems(doc.Items), nil
	}

	handle, err := m.store.Insert(ctx, m.collection, map[string]any{
		"username": username,
		"items":    []any{},
	})
	if err != nil {
		return "", nil, err
	}
	m.log.Info(ctx, "cart created", "username", username, "handle", handle)
	return handle, []models.LineItem{}, nil
}

// AddItem adds amount of product. An existing line for the same product id
// has its amount increased, without any lower bound.
func (m *Manager) AddItem(ctx context.Context, product models.Product, amount int) error {
	return m.mutate(ctx, func() error {
		if i := m.indexLocked(product.ID); i >= 0 {
			m.items[i].Amount += amount
			return nil
		}
		m.items = append(m.items, models.LineItem{Product: product, Amount: amount})
		return nil
	})
}

// UpdateAmount sets the amount of the line for productID. Amounts below 1
// are stored as 1.
func (m *Manager) UpdateAmount(ctx context.Context, productID, amount int) error {
	if amount <= 0 {
		amount = 1
	}
	return m.mutate(ctx, func() error {
		i := m.indexLocked(productID)
		if i < 0 {
			return lineNotFound(productID)
		}
		m.items[i].Amount = amount
		return nil
	})
}

// UpdateAmountText is UpdateAmount for user input. Text that is not an
// integer counts as 1.
func (m *Manager) UpdateAmountText(ctx context.Context, productID int, raw string) error {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		amount = 1
	}
	return m.UpdateAmount(ctx, productID, amount)
}

func (m *Manager) RemoveItem(ctx context.Context, productID int) error {
	return m.mutate(ctx, func() error {
		i := m.indexLocked(productID)
		if i < 0 {
			return lineNotFound(productID)
		}
		m.items = append(m.items[:i:i], m.items[i+1:]...)
		return nil
	})
}

// ClearLocal forgets the cart without touching the store. The cart document
// handle and owner are dropped as well, so a later sync fails until the cart
// is initialized again.
func (m *Manager) ClearLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.owner, m.handle, m.items = "", "", []models.LineItem{}
}

// Checkout empties the cart, stores the empty cart and returns the lines that
// were in it.
func (m *Manager) Checkout(ctx context.Context) ([]models.LineItem, error) {
	var purchased []models.LineItem
	err := m.mutate(ctx, func() error {
		purchased = m.items
		m.items = []models.LineItem{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info(ctx, "checkout", "lines", len(purchased), "total", models.Total(purchased))
	return purchased, nil
}

// Sync overwrites the items of the remote cart document with the local ones.
// Without a resolved document the local cart is emptied and
// common.ErrInconsistentState is returned. A store failure keeps the local
// cart and returns an error matching common.ErrRemoteCall. A cart document
// deleted from the store yields common.ErrInconsistentState together with
// common.ErrNotFound; initializing the cart again recreates it.
func (m *Manager) Sync(ctx context.Context) error {
	return m.mutate(ctx, func() error { return nil })
}

// Items returns a copy of the local line items.
func (m *Manager) Items() []models.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneItems(m.items)
}

// Handle is the store handle of the cart document, empty until resolved.
func (m *Manager) Handle() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

func (m *Manager) Owner() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner
}

// mutate applies fn under the lock and pushes the resulting snapshot once
// the lock is released. An error from fn aborts before any remote call.
func (m *Manager) mutate(ctx context.Context, fn func() error) error {
	m.mu.Lock()
	if err := fn(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.handle == "" {
		m.items = []models.LineItem{}
		m.mu.Unlock()
		m.log.Warn(ctx, "cart sync without a cart document")
		return fmt.Errorf("cart sync: no cart document: %w", common.ErrInconsistentState)
	}
	m.gen++
	gen, handle, owner := m.gen, m.handle, m.owner
	items := models.CloneItems(m.items)
	m.mu.Unlock()

	return m.push(ctx, gen, owner, handle, items)
}

// push stores items unless a later snapshot for the same document has been
// stored already.
func (m *Manager) push(ctx context.Context, gen uint64, owner, handle string, items []models.LineItem) error {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	if gen < m.pushed[handle] {
		m.log.Debug(ctx, "stale cart snapshot dropped", "username", owner, "gen", gen)
		return nil
	}

	encoded := make([]any, 0, len(items))
	for _, it := range items {
		encoded = append(encoded, it.Fields())
	}

	err := m.store.Update(ctx, m.collection, handle, map[string]any{"items": encoded})
	if errors.Is(err, common.ErrNotFound) {
		m.log.Error(ctx, "cart document is gone", "username", owner, "handle", handle)
		return fmt.Errorf("cart sync: %w", errors.Join(common.ErrInconsistentState, err))
	}
	if err != nil {
		m.log.Error(ctx, "cart sync failed", "username", owner, "handle", handle, "error", err)
		return common.Remote("cart sync", err)
	}
	m.pushed[handle] = gen

	m.log.Debug(ctx, "cart synced", "username", owner, "items", len(items))
	return nil
}

func (m *Manager) indexLocked(productID int) int {
	for i, it := range m.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func lineNotFound(productID int) error {
	return fmt.Errorf("cart line for product %d: %w", productID, common.ErrNotFound)
}
