package cache

import (
	"context"
	"sync"
)

// MemoryStore is a thread-safe in-memory CacheStore. Entries live until overwritten
// or cleared.
type MemoryStore struct {
	entries map[string]string
	mutex   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
	}
}

// Get retrieves the value stored under key
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.entries[key]
	return value, exists, nil
}

// Set stores value under key, replacing any previous value
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries[key] = value
	return nil
}

// Clear clears all entries from the store
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = make(map[string]string)
}

// Size returns the number of items in the store
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.entries)
}
