package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseAmount reads an operator-entered amount. Accepts a comma as the
// decimal separator and at most two decimal places.
func ParseAmount(input string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if value.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	amount, _ := value.Float64()
	return amount, nil
}

func Format(value float64) string {
	return decimal.NewFromFloat(value).StringFixedBank(2)
}

// Add and Sub route balance arithmetic through decimal so that repeated
// cent-level mutations never accumulate binary float drift.
func Add(balance, amount float64) float64 {
	result, _ := decimal.NewFromFloat(balance).Add(decimal.NewFromFloat(amount)).Float64()
	return result
}

func Sub(balance, amount float64) float64 {
	result, _ := decimal.NewFromFloat(balance).Sub(decimal.NewFromFloat(amount)).Float64()
	return result
}
