package service

import (
	"context"
	"errors"
	"time"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/repository"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/metrics"
)

// ErrRemoteFetch marks failures of the remote rate source, including unusable payloads
var ErrRemoteFetch = errors.New("failed to fetch from remote rate source")

// Option configures a cache service
type Option func(*snapshotCache)

// WithClock replaces time.Now as the source of fetch and expiry times
func WithClock(now func() time.Time) Option {
	return func(c *snapshotCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used by the service
func WithLogger(log logger.Logger) Option {
	return func(c *snapshotCache) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithMetrics sets the collectors the service reports lookups to
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *snapshotCache) {
		c.metrics = m
	}
}

// snapshotCache holds what both cache services need to read and write snapshots
type snapshotCache struct {
	kind    entity.SnapshotKind
	store   repository.CacheStore
	now     func() time.Time
	logger  logger.Logger
	metrics *metrics.Metrics
}

func newSnapshotCache(kind entity.SnapshotKind, store repository.CacheStore, opts []Option) snapshotCache {
	c := snapshotCache{
		kind:   kind,
		store:  store,
		now:    time.Now,
		logger: logger.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.logger = c.logger.WithField("kind", string(kind))
	return c
}

// read returns the raw entry under key. A store failure is logged and reported as a miss.
func (c *snapshotCache) read(ctx context.Context, key string) (string, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache store read failed, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.metrics.CacheLookup(string(c.kind), metrics.OutcomeStoreError)
		return "", false
	}
	if !found {
		c.metrics.CacheLookup(string(c.kind), metrics.OutcomeMiss)
	}
	return raw, found
}

// discard logs an unreadable cached entry; the caller refetches
func (c *snapshotCache) discard(key string, err error) {
	c.logger.Warn("Discarding unreadable cache entry", map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
	c.metrics.CacheLookup(string(c.kind), metrics.OutcomeCorrupt)
}

// write persists an encoded snapshot. Failures are logged and never fail the lookup.
func (c *snapshotCache) write(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn("Failed to persist snapshot", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.metrics.StoreWriteFailure(string(c.kind))
	}
}

func samePair(a, b entity.ExchangePair) bool {
	return a.Base.Code == b.Base.Code && a.Target.Code == b.Target.Code
}
