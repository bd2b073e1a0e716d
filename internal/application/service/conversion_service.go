// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/middleware"
)

// RateProvider supplies the current rate of a pair
type RateProvider interface {
	GetRate(ctx context.Context, pair entity.ExchangePair) (*entity.RateSnapshot, error)
}

// Conversion represents an amount converted from the base to the target currency
type Conversion struct {
	Pair            entity.ExchangePair
	Amount          decimal.Decimal
	Rate            decimal.Decimal
	ConvertedAmount decimal.Decimal
	FetchedAt       time.Time
}

// ConversionService handles currency conversion of amounts
type ConversionService struct {
	rates  RateProvider
	now    func() time.Time
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates RateProvider, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		now:    time.Now,
		logger: log,
	}
}

// Convert converts amount from the pair's base currency into its target currency.
// Converting a currency into itself uses a rate of 1 without looking anything up.
func (s *ConversionService) Convert(ctx context.Context, pair entity.ExchangePair, amount decimal.Decimal) (*Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	if err := entity.ValidateAmount(amount); err != nil {
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	fetchedAt := s.now()

	if !pair.SameCurrency() {
		snapshot, err := s.rates.GetRate(ctx, pair)
		if err != nil {
			s.logger.Error("Failed to get exchange rate", map[string]interface{}{
				"request_id": requestID,
				"pair":       pair.String(),
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("failed to get exchange rate: %w", err)
		}
		rate = snapshot.Rate
		fetchedAt = snapshot.FetchedAt
	}

	// Round to two decimal places
	converted := amount.Mul(rate).Round(2)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"pair":             pair.String(),
		"amount":           amount.String(),
		"exchange_rate":    rate.String(),
		"converted_amount": converted.String(),
	})

	return &Conversion{
		Pair:            pair,
		Amount:          amount,
		Rate:            rate,
		ConvertedAmount: converted,
		FetchedAt:       fetchedAt,
	}, nil
}
