// Package repository internal/domain/repository/cache_store.go
package repository

import "context"

// CacheStore defines the key/value persistence used to keep fetched snapshots.
// It has no notion of expiry; the last write for a key wins.
type CacheStore interface {
	// Get returns the value stored under key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value string) error
}
