package entity

import (
	"fmt"
	"strings"
)

// Currency represents a currency that can be picked for an exchange
type Currency struct {
	Code   string `json:"value"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// catalog holds every currency the calculator offers
var catalog = []Currency{
	{Code: "USD", Label: "USD", Symbol: "$"},
	{Code: "GBP", Label: "GBP", Symbol: "£"},
	{Code: "EUR", Label: "EUR", Symbol: "€"},
}

// Currencies returns a copy of the currency catalog
func Currencies() []Currency {
	out := make([]Currency, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCurrency finds a catalog currency by its code, ignoring case
func LookupCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range catalog {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
}

// Combinations returns every ordered pair of distinct catalog currencies
func Combinations() []ExchangePair {
	pairs := make([]ExchangePair, 0, len(catalog)*(len(catalog)-1))
	for _, base := range catalog {
		for _, target := range catalog {
			if base.Code == target.Code {
				continue
			}
			pairs = append(pairs, ExchangePair{Base: base, Target: target})
		}
	}
	return pairs
}
