package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
)

// fakeClock is a settable clock for driving the expiry policy
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(hour, minute int) *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, hour, minute, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(c.now.Year(), c.now.Month(), c.now.Day(), hour, minute, 0, 0, time.UTC)
}

func mustPair(t *testing.T, base, target string) entity.ExchangePair {
	t.Helper()
	pair, err := entity.NewExchangePair(base, target)
	require.NoError(t, err)
	return pair
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bufferLogger() (*bytes.Buffer, logger.Logger) {
	var buf bytes.Buffer
	return &buf, logger.NewJSONLogger(&buf, logger.DebugLevel)
}
