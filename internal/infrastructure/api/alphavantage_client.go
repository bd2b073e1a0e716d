package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/damon-houk/exchange-rates-calculator/internal/domain/entity"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
)

const (
	// DefaultBaseURL is the Alpha Vantage API root
	DefaultBaseURL = "https://www.alphavantage.co"
	queryPath      = "/query"

	lastRefreshedLayout = "2006-01-02 15:04:05"
	dayLayout           = "2006-01-02"

	// maxBodyBytes bounds how much of an upstream response is read
	maxBodyBytes = 4 << 20
)

// AlphaVantageClient implements the RemoteRateSource interface against Alpha Vantage
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewAlphaVantageClient creates a new Alpha Vantage client
func NewAlphaVantageClient(baseURL, apiKey string, httpClient *http.Client, log logger.Logger) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AlphaVantageClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     log.WithField("component", "alphavantage"),
	}
}

// apiStatus carries the fields Alpha Vantage uses to report failures with a 200 status
type apiStatus struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (s apiStatus) err() error {
	switch {
	case s.ErrorMessage != "":
		return fmt.Errorf("API returned error: %s", s.ErrorMessage)
	case s.Note != "":
		return fmt.Errorf("API returned note: %s", s.Note)
	case s.Information != "":
		return fmt.Errorf("API returned information: %s", s.Information)
	}
	return nil
}

// exchangeRateResponse represents the CURRENCY_EXCHANGE_RATE response
type exchangeRateResponse struct {
	apiStatus
	Realtime *struct {
		FromCode      string `json:"1. From_Currency Code"`
		ToCode        string `json:"3. To_Currency Code"`
		ExchangeRate  string `json:"5. Exchange Rate"`
		LastRefreshed string `json:"6. Last Refreshed"`
		TimeZone      string `json:"7. Time Zone"`
	} `json:"Realtime Currency Exchange Rate"`
}

// dailySeriesResponse represents the FX_DAILY response
type dailySeriesResponse struct {
	apiStatus
	TimeSeries map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series FX (Daily)"`
}

// FetchRate retrieves the current exchange rate for a pair
func (c *AlphaVantageClient) FetchRate(ctx context.Context, pair entity.ExchangePair) (*entity.Quote, error) {
	params := url.Values{}
	params.Set("function", "CURRENCY_EXCHANGE_RATE")
	params.Set("from_currency", pair.Base.Code)
	params.Set("to_currency", pair.Target.Code)

	var resp exchangeRateResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, err
	}

	if err := resp.err(); err != nil {
		return nil, err
	}

	if resp.Realtime == nil {
		return nil, fmt.Errorf("no exchange rate in response for %s", pair)
	}

	rate, err := decimal.NewFromString(resp.Realtime.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate '%s': %w", resp.Realtime.ExchangeRate, err)
	}

	quote := &entity.Quote{
		Rate:     rate,
		QuotedAt: parseLastRefreshed(resp.Realtime.LastRefreshed, resp.Realtime.TimeZone),
	}

	c.logger.Debug("Exchange rate fetched", map[string]interface{}{
		"pair":      pair.String(),
		"rate":      rate.String(),
		"quoted_at": quote.QuotedAt,
	})

	return quote, nil
}

// FetchDailySeries retrieves the daily closing prices for a pair, most recent first
func (c *AlphaVantageClient) FetchDailySeries(ctx context.Context, pair entity.ExchangePair) ([]entity.DailyRate, error) {
	params := url.Values{}
	params.Set("function", "FX_DAILY")
	params.Set("from_symbol", pair.Base.Code)
	params.Set("to_symbol", pair.Target.Code)

	var resp dailySeriesResponse
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, err
	}

	if err := resp.err(); err != nil {
		return nil, err
	}

	if resp.TimeSeries == nil {
		return nil, fmt.Errorf("no daily series in response for %s", pair)
	}

	series := make([]entity.DailyRate, 0, len(resp.TimeSeries))
	for day, values := range resp.TimeSeries {
		date, err := time.Parse(dayLayout, day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series day '%s': %w", day, err)
		}

		closing, err := decimal.NewFromString(values.Close)
		if err != nil {
			return nil, fmt.Errorf("failed to parse closing price '%s' for %s: %w", values.Close, day, err)
		}

		series = append(series, entity.DailyRate{Day: date, ClosingPrice: closing})
	}

	slices.SortFunc(series, func(a, b entity.DailyRate) int {
		return b.Day.Compare(a.Day)
	})

	c.logger.Debug("Daily series fetched", map[string]interface{}{
		"pair":    pair.String(),
		"entries": len(series),
	})

	return series, nil
}

// query performs a GET against the query endpoint and decodes the JSON body into out
func (c *AlphaVantageClient) query(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + queryPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseLastRefreshed reads the provider's refresh time; an unreadable value yields the zero time
func parseLastRefreshed(value, zone string) time.Time {
	loc := time.UTC
	if zone != "" {
		if l, err := time.LoadLocation(zone); err == nil {
			loc = l
		}
	}

	t, err := time.ParseInLocation(lastRefreshedLayout, value, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
