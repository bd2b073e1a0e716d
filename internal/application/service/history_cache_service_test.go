package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/cache"
	"github.com/damon-houk/exchange-rates-calculator/internal/mocks"
)

// remoteSeries builds n daily rates ending on 2024-03-10, oldest first like a raw payload
func remoteSeries(n int) []entity.DailyRate {
	last := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	series := make([]entity.DailyRate, 0, n)
	for i := n - 1; i >= 0; i-- {
		series = append(series, entity.DailyRate{
			Day:          last.AddDate(0, 0, -i),
			ClosingPrice: decimal.RequireFromString("0.9").Add(decimal.New(int64(i), -4)),
		})
	}
	return series
}

func assertMostRecentFirst(t *testing.T, series []entity.DailyRate) {
	t.Helper()
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i].Day.Before(series[i-1].Day), "entry %d out of order", i)
	}
}

func TestGetHistoryScenario(t *testing.T) {
	ctx := context.Background()
	pair := mustPair(t, "USD", "EUR")
	clock := newFakeClock(10, 0)
	store := cache.NewMemoryStore()
	source := new(mocks.MockRemoteRateSource)
	service := NewHistoryCacheService(store, source, WithClock(clock.Now))

	source.On("FetchDailySeries", mock.Anything, pair).Return(remoteSeries(45), nil).Once()

	first, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	require.Len(t, first, entity.MaxHistoryEntries)
	assertMostRecentFirst(t, first)
	assert.Equal(t, "2024-03-10", first[0].Day.Format("2006-01-02"))
	assert.Equal(t, "2024-02-10", first[29].Day.Format("2006-01-02"))
	source.AssertNumberOfCalls(t, "FetchDailySeries", 1)

	raw, found, err := store.Get(ctx, "history--USD-EUR")
	require.NoError(t, err)
	require.True(t, found)
	persisted, err := entity.DecodeHistorySnapshot(pair, raw)
	require.NoError(t, err)
	assert.Len(t, persisted.Series, entity.MaxHistoryEntries)

	// Same hour: identical result, no fetch
	clock.Set(10, 45)
	second, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "FetchDailySeries", 1)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Day.Equal(second[i].Day))
		assert.True(t, first[i].ClosingPrice.Equal(second[i].ClosingPrice))
	}

	source.AssertExpectations(t)
}

func TestGetHistoryExpiredRefetches(t *testing.T) {
	ctx := context.Background()
	pair := mustPair(t, "EUR", "GBP")
	clock := newFakeClock(8, 30)
	store := cache.NewMemoryStore()
	source := new(mocks.MockRemoteRateSource)
	service := NewHistoryCacheService(store, source, WithClock(clock.Now))

	source.On("FetchDailySeries", mock.Anything, pair).Return(remoteSeries(5), nil).Once()
	source.On("FetchDailySeries", mock.Anything, pair).Return(remoteSeries(7), nil).Once()

	history, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, history, 5)

	clock.Set(9, 0)
	snapshot, err := service.GetHistorySnapshot(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, snapshot.Series, 7)
	assert.True(t, snapshot.FetchedAt.Equal(clock.Now()))

	raw, _, _ := store.Get(ctx, "history--EUR-GBP")
	persisted, err := entity.DecodeHistorySnapshot(pair, raw)
	require.NoError(t, err)
	assert.Len(t, persisted.Series, 7)

	source.AssertExpectations(t)
}

func TestGetHistoryFetchFailure(t *testing.T) {
	ctx := context.Background()
	pair := mustPair(t, "USD", "GBP")
	clock := newFakeClock(14, 0)
	store := cache.NewMemoryStore()
	source := new(mocks.MockRemoteRateSource)
	service := NewHistoryCacheService(store, source, WithClock(clock.Now))
	upstream := errors.New("API returned error status: 503")

	source.On("FetchDailySeries", mock.Anything, pair).Return(nil, upstream).Once()

	history, err := service.GetHistory(ctx, pair)
	assert.Nil(t, history)
	assert.ErrorIs(t, err, ErrRemoteFetch)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, 0, store.Size())

	bad := []entity.DailyRate{{Day: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), ClosingPrice: decimal.Zero}}
	source.On("FetchDailySeries", mock.Anything, pair).Return(bad, nil).Once()

	history, err = service.GetHistory(ctx, pair)
	assert.Nil(t, history)
	assert.ErrorIs(t, err, entity.ErrInvalidClosingPrice)
	assert.Equal(t, 0, store.Size())

	source.AssertExpectations(t)
}

func TestGetHistoryCorruptEntry(t *testing.T) {
	ctx := context.Background()
	pair := mustPair(t, "USD", "EUR")
	clock := newFakeClock(14, 0)
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "history--USD-EUR", `{"history":"nope"}`))
	source := new(mocks.MockRemoteRateSource)
	source.On("FetchDailySeries", mock.Anything, pair).Return(remoteSeries(3), nil).Once()
	buf, log := bufferLogger()
	service := NewHistoryCacheService(store, source, WithClock(clock.Now), WithLogger(log))

	history, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Contains(t, buf.String(), "Discarding unreadable cache entry")
	source.AssertExpectations(t)
}

func TestGetHistoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	pair := mustPair(t, "USD", "EUR")
	clock := newFakeClock(10, 0)
	source := new(mocks.MockRemoteRateSource)
	source.On("FetchDailySeries", mock.Anything, pair).Return(remoteSeries(3), nil).Once()
	service := NewHistoryCacheService(cache.NewMemoryStore(), source, WithClock(clock.Now))

	history, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	history[0].ClosingPrice = decimal.NewFromInt(42)

	again, err := service.GetHistory(ctx, pair)
	require.NoError(t, err)
	assert.False(t, again[0].ClosingPrice.Equal(decimal.NewFromInt(42)))
}
