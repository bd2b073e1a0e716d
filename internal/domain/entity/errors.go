package entity

import "errors"

var (
	// ErrInvalidRate is returned when an exchange rate is not strictly positive
	ErrInvalidRate = errors.New("exchange rate must be a positive value")

	// ErrInvalidClosingPrice is returned when a daily closing price is not strictly positive
	ErrInvalidClosingPrice = errors.New("closing price must be a positive value")

	// ErrUnknownCurrency is returned when a currency code is not in the catalog
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidAmount is returned when a conversion amount is negative or out of range
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidSeries is returned when a stored history violates its ordering invariants
	ErrInvalidSeries = errors.New("history series is not strictly ordered by day")
)
