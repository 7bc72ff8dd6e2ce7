// ABOUTME: Charm KV archive driver: badger locally plus encrypted sync to a Charm server.
// ABOUTME: Read-only when another process holds the database lock.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const defaultCharmName = "exercises"

// Charm stores pages in a Charm KV database.
type Charm struct {
	kv *kv.KV
	mu sync.RWMutex
}

// CharmName returns the Charm KV database name, defaulting to "exercises".
func CharmName(name string) string {
	if name == "" {
		return defaultCharmName
	}
	return name
}

// NewCharm opens the named Charm KV database. host, when set, selects the Charm server.
func NewCharm(name, host string) (*Charm, error) {
	name = CharmName(name)
	if host != "" {
		// Set server before opening KV
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm archive: %w", err)
	}

	c := &Charm{kv: db}

	// Pull remote pages on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

func (c *Charm) Driver() Driver { return DriverCharm }

// IsReadOnly reports whether the database was opened without the write lock.
func (c *Charm) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

func (c *Charm) Put(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: archive is locked by another process")
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("put page: %w", err)
	}
	_ = c.kv.Sync()
	return nil
}

func (c *Charm) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return data, nil
}

// Sync synchronizes local state with the Charm server.
func (c *Charm) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}
