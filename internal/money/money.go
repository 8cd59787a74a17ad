// Package money holds the fixed-scale decimal arithmetic used by the
// ledger. All amounts carry exactly two fractional digits and are never
// represented as binary floats.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const Scale = 2

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseAmount parses a strictly positive decimal string with at most two
// fractional digits. Anything else is rejected before it can reach the
// transfer path.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -Scale {
		return decimal.Zero, ErrTooManyDecimals
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// FormatAmount renders an amount with exactly two fractional digits.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(Scale)
}
