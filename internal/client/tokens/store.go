// Package tokens holds the bearer credential of the current session.
//
// The session itself is never stored: a session is present exactly when the
// store holds a non-empty token. Reads are served from memory and never
// block on I/O; writes go through to the backing storage first.
package tokens

import (
	"context"
	"sync"
	"time"
)

// Store is the credential holder used by the guard, the auth service and
// the session effects.
type Store interface {
	// Get returns the current token and whether one is held. An empty token
	// counts as absent.
	Get() (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token in process memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

// cache is the in-memory half shared by persistent stores.
type cache struct {
	mu    sync.RWMutex
	token string
	setAt time.Time
}

func (c *cache) get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

func (c *cache) put(token string, setAt time.Time) {
	c.mu.Lock()
	c.token, c.setAt = token, setAt
	c.mu.Unlock()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
