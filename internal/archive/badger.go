// ABOUTME: Badger archive driver: an embedded key-value store in a local directory.
// ABOUTME: An empty directory opens an in-memory instance, used by tests.
package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// Badger stores pages in a badger database.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a badger database in dir.
func NewBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger archive: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Driver() Driver { return DriverBadger }

func (b *Badger) Put(_ context.Context, key string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("put page: %w", err)
	}
	return nil
}

func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return data, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}
