// internal/infrastructure/api/alphavantage_client_test.go
package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAlphaVantageClient(server.URL, "test-key", server.Client(), logger.NewJSONLogger(io.Discard, logger.DebugLevel))
}

func usdEur(t *testing.T) entity.ExchangePair {
	t.Helper()
	pair, err := entity.NewExchangePair("USD", "EUR")
	require.NoError(t, err)
	return pair
}

func TestFetchRate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Check that the request has the expected path and parameters
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
		assert.Equal(t, "USD", r.URL.Query().Get("from_currency"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to_currency"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Realtime Currency Exchange Rate": {
				"1. From_Currency Code": "USD",
				"2. From_Currency Name": "United States Dollar",
				"3. To_Currency Code": "EUR",
				"4. To_Currency Name": "Euro",
				"5. Exchange Rate": "0.92140000",
				"6. Last Refreshed": "2024-03-10 10:15:01",
				"7. Time Zone": "UTC",
				"8. Bid Price": "0.92130000",
				"9. Ask Price": "0.92150000"
			}
		}`))
	})

	quote, err := client.FetchRate(context.Background(), usdEur(t))
	require.NoError(t, err)

	assert.Equal(t, "0.9214", quote.Rate.String())
	assert.True(t, quote.QuotedAt.Equal(time.Date(2024, 3, 10, 10, 15, 1, 0, time.UTC)))
}

func TestFetchRateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"Server error", http.StatusInternalServerError, `oops`, "API returned error status: 500"},
		{"Error message", http.StatusOK, `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"Rate limited", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage!"}`, "API returned note"},
		{"Information", http.StatusOK, `{"Information": "premium endpoint"}`, "premium endpoint"},
		{"Missing section", http.StatusOK, `{}`, "no exchange rate in response"},
		{"Malformed JSON", http.StatusOK, `{"Realtime`, "failed to decode response"},
		{"Bad number", http.StatusOK, `{"Realtime Currency Exchange Rate": {"5. Exchange Rate": "abc"}}`, "failed to parse exchange rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			quote, err := client.FetchRate(context.Background(), usdEur(t))
			assert.Nil(t, quote)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFetchRateDoesNotRetry(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchRate(context.Background(), usdEur(t))
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRateCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRate(ctx, usdEur(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestFetchDailySeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "USD", r.URL.Query().Get("from_symbol"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to_symbol"))

		w.Write([]byte(`{
			"Meta Data": {"1. Information": "Forex Daily Prices (open, high, low, close)"},
			"Time Series FX (Daily)": {
				"2024-03-07": {"1. open": "0.9190", "4. close": "0.9180"},
				"2024-03-08": {"1. open": "0.9180", "4. close": "0.9195"},
				"2024-03-06": {"1. open": "0.9200", "4. close": "0.9210"}
			}
		}`))
	})

	series, err := client.FetchDailySeries(context.Background(), usdEur(t))
	require.NoError(t, err)
	require.Len(t, series, 3)

	// Most recent first
	assert.Equal(t, "2024-03-08", series[0].Day.Format("2006-01-02"))
	assert.Equal(t, "0.9195", series[0].ClosingPrice.String())
	assert.Equal(t, "2024-03-07", series[1].Day.Format("2006-01-02"))
	assert.Equal(t, "2024-03-06", series[2].Day.Format("2006-01-02"))
}

func TestFetchDailySeriesErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"Missing section", `{"Meta Data": {}}`, "no daily series in response"},
		{"Bad day", `{"Time Series FX (Daily)": {"03/08/2024": {"4. close": "0.9"}}}`, "failed to parse series day"},
		{"Bad close", `{"Time Series FX (Daily)": {"2024-03-08": {"4. close": ""}}}`, "failed to parse closing price"},
		{"Error message", `{"Error Message": "Invalid API call."}`, "Invalid API call."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			series, err := client.FetchDailySeries(context.Background(), usdEur(t))
			assert.Nil(t, series)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseLastRefreshed(t *testing.T) {
	ts := parseLastRefreshed("2024-03-10 10:15:01", "")
	assert.True(t, ts.Equal(time.Date(2024, 3, 10, 10, 15, 1, 0, time.UTC)))

	assert.True(t, parseLastRefreshed("yesterday", "UTC").IsZero())
}
