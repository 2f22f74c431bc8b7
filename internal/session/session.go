// Package session tracks who is logged in to this client.
//
// A Manager is either logged out or logged in as one user. Logging in loads
// the user's cart through the cart manager; logging out clears the local
// cart but leaves the stored cart document alone.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophcart/internal/auth"
	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/docstore"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/models"
)

const minCredentialLength = 5

// Cart is the part of the cart manager the session drives.
type Cart interface {
	InitializeForUser(ctx context.Context, username string) ([]models.LineItem, error)
	ClearLocal()
}

// TokenStore persists the remembered session between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	keySecret = "session.secret"
	keyToken  = "session.token"
)

type Manager struct {
	store      docstore.Store
	collection string
	cart       Cart
	log        logging.Logger

	tokens   TokenStore
	tokenTTL time.Duration

	mu       sync.RWMutex
	loggedIn bool
	username string
}

type Option func(*Manager)

// WithRememberedSession makes a successful login store a signed token in
// tokens, valid for ttl, that Resume accepts on the next start.
func WithRememberedSession(tokens TokenStore, ttl time.Duration) Option {
	return func(m *Manager) {
		m.tokens = tokens
		m.tokenTTL = ttl
	}
}

func New(store docstore.Store, collection string, cart Cart, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		collection: collection,
		cart:       cart,
		log:        log.With("module", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedIn
}

// Username is the logged-in user, or "" when logged out.
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// Register creates a user. Input is checked before the store is consulted:
// both fields need at least 5 characters and the username letters and
// digits only.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	docs, err := m.store.Find(ctx, m.collection, "username", username)
	if err != nil {
		return common.Remote("register", err)
	}
	if len(docs) > 0 {
		return fmt.Errorf("user %s: %w", username, common.ErrDuplicate)
	}

	_, err = m.store.Insert(ctx, m.collection, map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		m.log.Error(ctx, "register failed", "username", username, "error", err)
		return common.Remote("register", err)
	}

	m.log.Info(ctx, "user registered", "username", username)
	return nil
}

// Login checks the credentials and, on success, loads the user's cart. If
// the cart cannot be loaded the user stays logged in and the error is
// returned.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	user, err := m.findUser(ctx, username)
	if err != nil {
		return err
	}
	if user.Password != password {
		m.log.Info(ctx, "login rejected", "username", username)
		return fmt.Errorf("user %s: %w", username, common.ErrUnauthorized)
	}

	m.setLoggedIn(username)
	m.log.Info(ctx, "logged in", "username", username)

	if m.tokens != nil {
		if err := m.remember(ctx, username); err != nil {
			m.log.Warn(ctx, "session token not saved", "error", err)
		}
	}

	return m.initCart(ctx, username)
}

// Logout resets the session and clears the local cart. A remembered session
// token is forgotten.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	username := m.username
	m.loggedIn, m.username = false, ""
	m.mu.Unlock()

	m.cart.ClearLocal()
	m.log.Info(ctx, "logged out", "username", username)

	if m.tokens != nil {
		if err := m.tokens.Delete(ctx, keyToken); err != nil {
			m.log.Error(ctx, "session token not removed", "error", err)
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}

// Resume restores a session remembered by an earlier Login. It reports
// false with a nil error when there is nothing to resume. A token that is
// invalid, expired or names a user that no longer exists is discarded.
func (m *Manager) Resume(ctx context.Context) (bool, error) {
	if m.tokens == nil {
		return false, nil
	}

	token, err := m.tokens.Get(ctx, keyToken)
	if err != nil {
		return false, err
	}
	if token == nil {
		return false, nil
	}

	secret, err := m.tokens.Get(ctx, keySecret)
	if err != nil {
		return false, err
	}

	username, err := auth.UsernameFromToken(string(token), secret)
	if err == nil {
		_, err = m.findUser(ctx, username)
	}
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrNotFound) {
			m.log.Warn(ctx, "remembered session discarded", "error", err)
			if derr := m.tokens.Delete(ctx, keyToken); derr != nil {
				m.log.Error(ctx, "session token not removed", "error", derr)
			}
		}
		return false, err
	}

	m.setLoggedIn(username)
	m.log.Info(ctx, "session resumed", "username", username)
	return true, m.initCart(ctx, username)
}

func (m *Manager) findUser(ctx context.Context, username string) (models.User, error) {
	docs, err := m.store.Find(ctx, m.collection, "username", username)
	if err != nil {
		return models.User{}, common.Remote("login", err)
	}
	if len(docs) == 0 {
		return models.User{}, fmt.Errorf("user %s: %w", username, common.ErrNotFound)
	}

	var user models.User
	if err := docstore.Decode(docs[0], &user); err != nil {
		return models.User{}, common.Remote("login", err)
	}
	return user, nil
}

func (m *Manager) setLoggedIn(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedIn, m.username = true, username
}

func (m *Manager) initCart(ctx context.Context, username string) error {
	if _, err := m.cart.InitializeForUser(ctx, username); err != nil {
		m.log.Error(ctx, "cart not loaded after login", "username", username, "error", err)
		return fmt.Errorf("load cart: %w", err)
	}
	return nil
}

// remember signs a token for username, creating the signing secret on first
// use, and stores both.
func (m *Manager) remember(ctx context.Context, username string) error {
	secret, err := m.tokens.Get(ctx, keySecret)
	if err != nil {
		return err
	}

	values := map[string][]byte{}
	if secret == nil {
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return err
		}
		secret = []byte(s)
		values[keySecret] = secret
	}

	token, err := auth.GenerateToken(username, secret, m.tokenTTL)
	if err != nil {
		return err
	}
	values[keyToken] = []byte(token)

	return m.tokens.SetMany(ctx, values)
}

func validateCredentials(username, password string) error {
	if utf8.RuneCountInString(username) < minCredentialLength || utf8.RuneCountInString(password) < minCredentialLength {
		return common.ErrInvalidLength
	}
	if !isAlphanumeric(username) {
		return common.ErrNotAlphanumeric
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}
