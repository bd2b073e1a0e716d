package service

import (
	"context"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
)

// RemoteRateSource defines the interface for a provider of current and daily exchange rates
type RemoteRateSource interface {
	// FetchRate retrieves the current exchange rate for a pair
	FetchRate(ctx context.Context, pair entity.ExchangePair) (*entity.Quote, error)

	// FetchDailySeries retrieves the daily closing prices for a pair
	FetchDailySeries(ctx context.Context, pair entity.ExchangePair) ([]entity.DailyRate, error)
}
