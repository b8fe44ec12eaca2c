package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errAmountRequired = errors.New("amount is required")
	errAmountInvalid  = errors.New("amount must be a number")
	errAmountPositive = errors.New("amount must be greater than zero")
	errAmountScale    = errors.New("amount must have at most two decimal places")
	errAmountTooLarge = errors.New("amount is too large")
)

// maxAmount is the first value NUMERIC(18,2) cannot hold.
var maxAmount = decimal.New(1, 16)

// ParseAmount parses a user-typed amount. A lone comma is accepted as the
// decimal separator ("350,00"). Amounts are limited to what the store keeps
// exactly: two decimal places and sixteen integer digits.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, errAmountRequired
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errAmountInvalid
	}
	if !amount.IsPositive() {
		return decimal.Zero, errAmountPositive
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, errAmountScale
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, errAmountTooLarge
	}
	return amount.Truncate(2), nil
}

// FormatBRL renders an amount as Brazilian Real, e.g. "R$ 15.000,00".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
