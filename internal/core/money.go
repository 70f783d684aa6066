// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents. Inputs are parsed as decimals, rounded
// half-up to two places, and checked against the one ceiling shared by every
// monetary field.
package core

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MaxAmountCents is the 1 trillion ceiling, in cents.
const MaxAmountCents int64 = 1_000_000_000_000 * 100

// DefaultCurrency is used when a user has no preference stored.
const DefaultCurrency = "USD"

// parse guard well above the ceiling so cents never overflow int64
var parseLimit = decimal.New(1, 15)

type Money struct {
	Cents int64
}

// Cents builds a Money from a cent count.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// MoneyFromDecimal rounds d half-up to cents.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

// ParseAmount parses a decimal string ("12.34" or "12,34") into Money.
// Sign is preserved; range checks are left to the Require* helpers.
func ParseAmount(field, s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, Invalid(field, "is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Invalid(field, "must be a valid number")
	}
	if d.Abs().GreaterThan(parseLimit) {
		return Money{}, Invalid(field, "cannot be more than 1 trillion")
	}
	return MoneyFromDecimal(d), nil
}

// ParseRate parses an interest rate and checks it is within 0..100.
func ParseRate(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, Invalid(field, "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Invalid(field, "must be a valid number")
	}
	return d, ValidateRate(field, d)
}

// ValidateRate checks 0 <= rate <= 100.
func ValidateRate(field string, d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return Invalid(field, "must be between 0 and 100")
	}
	return nil
}

// RequirePositive enforces 0 < m <= 1 trillion.
func RequirePositive(field string, m Money) error {
	if m.Cents <= 0 {
		return Invalid(field, "must be greater than zero")
	}
	return requireCeiling(field, m)
}

// RequireNonNegative enforces 0 <= m <= 1 trillion.
func RequireNonNegative(field string, m Money) error {
	if m.Cents < 0 {
		return Invalid(field, "cannot be negative")
	}
	return requireCeiling(field, m)
}

// RequireAtLeast enforces min <= m <= 1 trillion.
func RequireAtLeast(field string, m, min Money) error {
	if m.Cents < min.Cents {
		return Invalid(field, "must be at least %s", min)
	}
	return requireCeiling(field, m)
}

func requireCeiling(field string, m Money) error {
	if m.Cents > MaxAmountCents {
		return Invalid(field, "cannot be more than 1 trillion")
	}
	return nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String renders a plain two-decimal amount ("130.00").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders m with the symbol and grouping of currency. Unknown codes
// fall back to the plain decimal followed by the code.
func (m Money) Format(currency string) string {
	if !KnownCurrency(currency) {
		return m.String() + " " + currency
	}
	return gomoney.NewFromFloat(m.Decimal().InexactFloat64(), strings.ToUpper(currency)).Display()
}

// KnownCurrency reports whether code is an ISO 4217 code go-money knows.
func KnownCurrency(code string) bool {
	return code != "" && gomoney.GetCurrency(strings.ToUpper(code)) != nil
}
