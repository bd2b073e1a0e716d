package entity

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MaxHistoryEntries bounds the number of days kept in a history snapshot
const MaxHistoryEntries = 30

const dayLayout = "2006-01-02"

// DailyRate is the closing price of a pair on one day
type DailyRate struct {
	Day          time.Time
	ClosingPrice decimal.Decimal
}

// NewDay truncates t to its calendar date at midnight UTC
func NewDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HistorySnapshot is a bounded, most-recent-first daily series for a pair
type HistorySnapshot struct {
	Pair      ExchangePair
	Series    []DailyRate
	FetchedAt time.Time
}

// NewHistorySnapshot normalizes a raw series and builds a snapshot. The series is sorted
// most-recent-first, repeated days keep their first occurrence, and only the
// MaxHistoryEntries most recent days are retained.
func NewHistorySnapshot(pair ExchangePair, raw []DailyRate, fetchedAt time.Time) (*HistorySnapshot, error) {
	series := make([]DailyRate, 0, len(raw))
	for _, r := range raw {
		if !r.ClosingPrice.IsPositive() {
			return nil, fmt.Errorf("%w: %s on %s", ErrInvalidClosingPrice,
				r.ClosingPrice.String(), r.Day.Format(dayLayout))
		}
		series = append(series, DailyRate{Day: NewDay(r.Day), ClosingPrice: r.ClosingPrice})
	}

	slices.SortStableFunc(series, func(a, b DailyRate) int {
		return b.Day.Compare(a.Day)
	})
	series = slices.CompactFunc(series, func(a, b DailyRate) bool {
		return a.Day.Equal(b.Day)
	})
	if len(series) > MaxHistoryEntries {
		series = series[:MaxHistoryEntries]
	}

	return &HistorySnapshot{
		Pair:      pair,
		Series:    slices.Clip(series),
		FetchedAt: fetchedAt,
	}, nil
}

// IsExpired applies the hour-of-day expiry policy to this snapshot
func (s *HistorySnapshot) IsExpired(now time.Time) bool {
	return IsExpired(s.FetchedAt, now)
}

type dailyRateEntry struct {
	Day          string      `json:"day"`
	ClosingPrice json.Number `json:"closingPrice"`
}

// historyEntry is the persisted form of a HistorySnapshot. The pair is implied by the key.
type historyEntry struct {
	History     []dailyRateEntry `json:"history"`
	RequestTime time.Time        `json:"requestTime"`
}

// EncodeHistorySnapshot serializes a snapshot into its persisted JSON form
func EncodeHistorySnapshot(s *HistorySnapshot) (string, error) {
	entry := historyEntry{
		History:     make([]dailyRateEntry, 0, len(s.Series)),
		RequestTime: s.FetchedAt.UTC(),
	}
	for _, r := range s.Series {
		entry.History = append(entry.History, dailyRateEntry{
			Day:          r.Day.Format(dayLayout),
			ClosingPrice: json.Number(r.ClosingPrice.String()),
		})
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal history snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeHistorySnapshot parses a persisted history entry stored for pair.
// Entries that break the snapshot invariants are rejected.
func DecodeHistorySnapshot(pair ExchangePair, raw string) (*HistorySnapshot, error) {
	var entry historyEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history snapshot: %w", err)
	}
	if entry.RequestTime.IsZero() {
		return nil, fmt.Errorf("history snapshot has no request time")
	}
	if len(entry.History) > MaxHistoryEntries {
		return nil, fmt.Errorf("%w: %d entries exceed %d", ErrInvalidSeries, len(entry.History), MaxHistoryEntries)
	}

	series := make([]DailyRate, 0, len(entry.History))
	for i, e := range entry.History {
		day, err := parseDay(e.Day)
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(e.ClosingPrice.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse closing price %q: %w", e.ClosingPrice, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("%w: %s on %s", ErrInvalidClosingPrice, price.String(), e.Day)
		}
		if i > 0 && !day.Before(series[i-1].Day) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrInvalidSeries,
				day.Format(dayLayout), series[i-1].Day.Format(dayLayout))
		}
		series = append(series, DailyRate{Day: day, ClosingPrice: price})
	}

	return &HistorySnapshot{
		Pair:      pair,
		Series:    series,
		FetchedAt: entry.RequestTime,
	}, nil
}

// parseDay accepts a plain date or a full RFC 3339 timestamp
func parseDay(s string) (time.Time, error) {
	if day, err := time.Parse(dayLayout, s); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse day %q: %w", s, err)
	}
	return NewDay(ts), nil
}
