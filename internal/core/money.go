// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents; decimal text is parsed and rendered
// through shopspring/decimal so no float rounding leaks into stored values.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
	printer = message.NewPrinter(language.English)
)

// ParseDecimal parses a decimal amount. It accepts both dot (12.34) and
// comma (12,34) decimal separators and surrounding whitespace. The sign is
// preserved; callers decide whether non-positive values are acceptable.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// MoneyFromDecimal converts d to cents. Values with sub-cent precision and
// values whose cents do not fit in an int64 are rejected rather than
// rounded or wrapped.
//
// Examples:
//
//	MoneyFromDecimal(12.34)  -> 1234, nil
//	MoneyFromDecimal(12.340) -> 1234, nil
//	MoneyFromDecimal(12.345) -> ErrSubCentAmount
//	MoneyFromDecimal(1e20)   -> ErrAmountOutOfRange
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return Money{}, ErrSubCentAmount
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return Money{}, ErrAmountOutOfRange
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount as a decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Add returns m + o, or ErrAmountOutOfRange when the sum leaves the int64
// range.
func (m Money) Add(o Money) (Money, error) {
	sum := m.Cents + o.Cents
	if (o.Cents > 0 && sum < m.Cents) || (o.Cents < 0 && sum > m.Cents) {
		return Money{}, ErrAmountOutOfRange
	}
	return Money{Cents: sum}, nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// String renders the amount with two fixed decimals, e.g. "12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Dollars renders the amount the way reports print it, e.g. "$1,234.50".
func (m Money) Dollars() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return printer.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
