package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds on conversion amounts. Decimal arithmetic cost grows with the exponent,
// so amounts are limited before any multiplication or rounding.
const (
	MaxAmountDigits        = 30
	MaxAmountIntegerDigits = 18
	MaxAmountScale         = 18
)

// ValidateAmount checks that amount is non-negative and within the supported range.
// The returned error never includes the amount's digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	if amount.Exponent() < -MaxAmountScale {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	digits := amount.NumDigits()
	if digits > MaxAmountDigits {
		return fmt.Errorf("%w: more than %d significant digits", ErrInvalidAmount, MaxAmountDigits)
	}
	if int64(digits)+int64(amount.Exponent()) > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxAmountIntegerDigits)
	}
	return nil
}
