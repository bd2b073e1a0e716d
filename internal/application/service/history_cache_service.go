package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/repository"
	domainservice "github.com/damon-houk/exchange-rates-calculator/internal/domain/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/metrics"
)

// HistoryCacheService resolves the recent daily rate history of a pair with the same
// cache-or-fetch policy as RateCacheService.
type HistoryCacheService struct {
	snapshotCache
	source domainservice.RemoteRateSource
}

// NewHistoryCacheService creates a new history cache service
func NewHistoryCacheService(store repository.CacheStore, source domainservice.RemoteRateSource, opts ...Option) *HistoryCacheService {
	return &HistoryCacheService{
		snapshotCache: newSnapshotCache(entity.KindHistory, store, opts),
		source:        source,
	}
}

// GetHistory returns at most entity.MaxHistoryEntries daily rates, most recent first.
// The slice is a copy the caller may modify.
func (s *HistoryCacheService) GetHistory(ctx context.Context, pair entity.ExchangePair) ([]entity.DailyRate, error) {
	snapshot, err := s.GetHistorySnapshot(ctx, pair)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snapshot.Series), nil
}

// GetHistorySnapshot is GetHistory returning the whole snapshot, including its fetch time
func (s *HistoryCacheService) GetHistorySnapshot(ctx context.Context, pair entity.ExchangePair) (*entity.HistorySnapshot, error) {
	key := pair.CacheKey(entity.KindHistory)

	if raw, found := s.read(ctx, key); found {
		cached, err := entity.DecodeHistorySnapshot(pair, raw)
		switch {
		case err != nil:
			s.discard(key, err)
		case cached.IsExpired(s.now()):
			s.metrics.CacheLookup(string(entity.KindHistory), metrics.OutcomeExpired)
			s.logger.Debug("Cached history expired", map[string]interface{}{
				"key":        key,
				"fetched_at": cached.FetchedAt,
			})
		default:
			s.metrics.CacheLookup(string(entity.KindHistory), metrics.OutcomeHit)
			return cached, nil
		}
	}

	return s.refresh(ctx, pair, key)
}

func (s *HistoryCacheService) refresh(ctx context.Context, pair entity.ExchangePair, key string) (*entity.HistorySnapshot, error) {
	series, err := s.source.FetchDailySeries(ctx, pair)
	s.metrics.RemoteFetch(string(entity.KindHistory), err)
	if err != nil {
		s.logger.Error("Failed to fetch rate history", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: history for %s: %w", ErrRemoteFetch, pair, err)
	}

	snapshot, err := entity.NewHistorySnapshot(pair, series, s.now())
	if err != nil {
		s.logger.Error("Remote source returned an unusable history", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	raw, err := entity.EncodeHistorySnapshot(snapshot)
	if err != nil {
		s.logger.Warn("Failed to encode history snapshot", map[string]interface{}{
			"pair":  pair.String(),
			"error": err.Error(),
		})
		return snapshot, nil
	}
	s.write(ctx, key, raw)

	s.logger.Info("Rate history refreshed", map[string]interface{}{
		"pair":     pair.String(),
		"received": len(series),
		"kept":     len(snapshot.Series),
	})

	return snapshot, nil
}
