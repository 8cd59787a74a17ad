package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidCurrency       = errors.New("invalid currency")
	ErrInvalidAccountID      = errors.New("invalid account id")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
)

var (
	currencyRegex       = regexp.MustCompile(`^[A-Z]{3}$`)
	accountIDRegex      = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	idempotencyKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func ValidateAccountID(accountID string) error {
	if !accountIDRegex.MatchString(accountID) {
		return ErrInvalidAccountID
	}
	return nil
}

func ValidateIdempotencyKey(key string) error {
	if !idempotencyKeyRegex.MatchString(key) {
		return ErrInvalidIdempotencyKey
	}
	return nil
}
