package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangePairCacheKey(t *testing.T) {
	usdEur, err := NewExchangePair("USD", "EUR")
	require.NoError(t, err)
	eurUsd, err := NewExchangePair("EUR", "USD")
	require.NoError(t, err)

	assert.Equal(t, "exchange--USD-EUR", usdEur.CacheKey(KindExchange))
	assert.Equal(t, "history--USD-EUR", usdEur.CacheKey(KindHistory))
	assert.Equal(t, "exchange--EUR-USD", eurUsd.CacheKey(KindExchange))
	assert.NotEqual(t, usdEur.CacheKey(KindExchange), eurUsd.CacheKey(KindExchange))
	assert.Equal(t, "USD/EUR", usdEur.String())
}

func TestNewExchangePair(t *testing.T) {
	pair, err := NewExchangePair("gbp", " usd ")
	require.NoError(t, err)
	assert.Equal(t, "GBP", pair.Base.Code)
	assert.Equal(t, "£", pair.Base.Symbol)
	assert.Equal(t, "USD", pair.Target.Code)
	assert.False(t, pair.SameCurrency())

	same, err := NewExchangePair("EUR", "EUR")
	require.NoError(t, err)
	assert.True(t, same.SameCurrency())

	_, err = NewExchangePair("USD", "XYZ")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.Contains(t, err.Error(), "XYZ")
}

func TestCombinations(t *testing.T) {
	pairs := Combinations()
	assert.Len(t, pairs, 6)

	seen := make(map[string]bool)
	for _, p := range pairs {
		assert.False(t, p.SameCurrency())
		seen[p.CacheKey(KindExchange)] = true
	}
	assert.Len(t, seen, 6)
	assert.True(t, seen["exchange--USD-EUR"])
	assert.True(t, seen["exchange--EUR-USD"])
}

func TestCurrenciesReturnsCopy(t *testing.T) {
	list := Currencies()
	require.Len(t, list, 3)
	list[0].Code = "XXX"

	_, err := LookupCurrency("USD")
	assert.NoError(t, err)
	assert.Equal(t, "USD", Currencies()[0].Code)
}
