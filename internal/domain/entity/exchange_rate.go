package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single rate as reported by a remote rate source
type Quote struct {
	Rate     decimal.Decimal
	QuotedAt time.Time
}

// RateSnapshot is an exchange rate for a pair together with the time it was fetched.
// A stale snapshot is replaced, never modified.
type RateSnapshot struct {
	Pair      ExchangePair
	Rate      decimal.Decimal
	FetchedAt time.Time
}

// NewRateSnapshot validates the rate and builds a snapshot
func NewRateSnapshot(pair ExchangePair, rate decimal.Decimal, fetchedAt time.Time) (*RateSnapshot, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: %s for %s", ErrInvalidRate, rate.String(), pair)
	}
	return &RateSnapshot{
		Pair:      pair,
		Rate:      rate,
		FetchedAt: fetchedAt,
	}, nil
}

// IsExpired applies the hour-of-day expiry policy to this snapshot
func (s *RateSnapshot) IsExpired(now time.Time) bool {
	return IsExpired(s.FetchedAt, now)
}

// rateEntry is the persisted form of a RateSnapshot
type rateEntry struct {
	BaseCurrency   Currency    `json:"baseCurrency"`
	TargetCurrency Currency    `json:"targetCurrency"`
	Rate           json.Number `json:"rate"`
	RequestTime    time.Time   `json:"requestTime"`
}

// EncodeRateSnapshot serializes a snapshot into its persisted JSON form
func EncodeRateSnapshot(s *RateSnapshot) (string, error) {
	data, err := json.Marshal(rateEntry{
		BaseCurrency:   s.Pair.Base,
		TargetCurrency: s.Pair.Target,
		Rate:           json.Number(s.Rate.String()),
		RequestTime:    s.FetchedAt.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal rate snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeRateSnapshot parses a persisted rate entry
func DecodeRateSnapshot(raw string) (*RateSnapshot, error) {
	var entry rateEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate snapshot: %w", err)
	}

	rate, err := decimal.NewFromString(entry.Rate.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate %q: %w", entry.Rate, err)
	}
	if entry.RequestTime.IsZero() {
		return nil, fmt.Errorf("rate snapshot has no request time")
	}

	pair := ExchangePair{Base: entry.BaseCurrency, Target: entry.TargetCurrency}
	return NewRateSnapshot(pair, rate, entry.RequestTime)
}
