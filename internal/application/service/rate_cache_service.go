// Package service internal/application/service/rate_cache_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/repository"
	domainservice "github.com/damon-houk/exchange-rates-calculator/internal/domain/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/metrics"
)

// errNoQuote is reported when a source returns neither a quote nor an error
var errNoQuote = errors.New("remote source returned no quote")

// RateCacheService resolves the current exchange rate of a pair from the cache store,
// falling back to the remote source when the cached snapshot is missing or expired.
//
// Concurrent lookups of the same pair are not coalesced: both may fetch, and the
// later write wins.
type RateCacheService struct {
	snapshotCache
	source domainservice.RemoteRateSource
}

// NewRateCacheService creates a new rate cache service
func NewRateCacheService(store repository.CacheStore, source domainservice.RemoteRateSource, opts ...Option) *RateCacheService {
	return &RateCacheService{
		snapshotCache: newSnapshotCache(entity.KindExchange, store, opts),
		source:        source,
	}
}

// GetRate returns the cached snapshot for pair when it is still fresh, otherwise
// fetches, persists and returns a new one. A failed fetch leaves the store untouched.
func (s *RateCacheService) GetRate(ctx context.Context, pair entity.ExchangePair) (*entity.RateSnapshot, error) {
	key := pair.CacheKey(entity.KindExchange)

	if raw, found := s.read(ctx, key); found {
		cached, err := entity.DecodeRateSnapshot(raw)
		switch {
		case err != nil:
			s.discard(key, err)
		case !samePair(cached.Pair, pair):
			s.discard(key, fmt.Errorf("entry holds %s", cached.Pair))
		case cached.IsExpired(s.now()):
			s.metrics.CacheLookup(string(entity.KindExchange), metrics.OutcomeExpired)
			s.logger.Debug("Cached exchange rate expired", map[string]interface{}{
				"key":        key,
				"fetched_at": cached.FetchedAt,
			})
		default:
			s.metrics.CacheLookup(string(entity.KindExchange), metrics.OutcomeHit)
			return cached, nil
		}
	}

	return s.refresh(ctx, pair, key)
}

func (s *RateCacheService) refresh(ctx context.Context, pair entity.ExchangePair, key string) (*entity.RateSnapshot, error) {
	quote, err := s.source.FetchRate(ctx, pair)
	if err == nil && quote == nil {
		err = errNoQuote
	}
	s.metrics.RemoteFetch(string(entity.KindExchange), err)
	if err != nil {
		s.logger.Error("Failed to fetch exchange rate", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: rate for %s: %w", ErrRemoteFetch, pair, err)
	}

	snapshot, err := entity.NewRateSnapshot(pair, quote.Rate, s.now())
	if err != nil {
		s.logger.Error("Remote source returned an unusable rate", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	raw, err := entity.EncodeRateSnapshot(snapshot)
	if err != nil {
		s.logger.Warn("Failed to encode exchange rate snapshot", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return snapshot, nil
	}
	s.write(ctx, key, raw)

	s.logger.Info("Exchange rate refreshed", map[string]interface{}{
		"pair": pair.String(),
		"rate": snapshot.Rate.String(),
	})

	return snapshot, nil
}
