package handler

import "encoding/json"

// CurrencyResponse represents one entry of the currency catalog
type CurrencyResponse struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// PairResponse represents an ordered currency pair
type PairResponse struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

// RateResponse represents the response for the rate endpoint
type RateResponse struct {
	Base      string      `json:"base"`
	Target    string      `json:"target"`
	Rate      json.Number `json:"rate"`
	FetchedAt string      `json:"fetched_at"`
}

// DailyRateResponse represents one day of a rate history
type DailyRateResponse struct {
	Day          string      `json:"day"`
	ClosingPrice json.Number `json:"closing_price"`
}

// HistoryResponse represents the response for the history endpoint
type HistoryResponse struct {
	Base      string              `json:"base"`
	Target    string              `json:"target"`
	FetchedAt string              `json:"fetched_at"`
	History   []DailyRateResponse `json:"history"`
}

// ConversionResponse represents the response for the conversion endpoint
type ConversionResponse struct {
	Base            string      `json:"base"`
	Target          string      `json:"target"`
	Amount          json.Number `json:"amount"`
	Rate            json.Number `json:"rate"`
	ConvertedAmount json.Number `json:"converted_amount"`
	FetchedAt       string      `json:"fetched_at"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
