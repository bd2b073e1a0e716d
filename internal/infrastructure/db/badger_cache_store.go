package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// BadgerCacheStore implements the CacheStore interface using BadgerDB
type BadgerCacheStore struct {
	db *badger.DB
}

// NewBadgerCacheStore creates a new BadgerDB cache store
func NewBadgerCacheStore(db *badger.DB) *BadgerCacheStore {
	return &BadgerCacheStore{db: db}
}

// OpenBadger opens a BadgerDB at dir, or an in-memory instance when dir is empty
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return db, nil
}

// Get retrieves the value stored under key
func (s *BadgerCacheStore) Get(_ context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores value under key
func (s *BadgerCacheStore) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})

	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	return nil
}
