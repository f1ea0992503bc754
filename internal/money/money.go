// Package money provides the exact decimal arithmetic used for every
// monetary total in the application. Amounts never go through float64:
// VAT rates are stored as fractions (0.2) and multiplied against
// arbitrary decimal quantities, which binary floats cannot represent.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Money is an arbitrary-precision decimal amount. Equality is exact-value
// equality via Equal/Cmp, never via float comparison.
type Money = decimal.Decimal

var ErrDivisionByZero = errors.New("division_by_zero")

// Zero returns the zero amount.
func Zero() Money { return decimal.Zero }

// New builds an amount from an integer number of currency units.
func New(v int64) Money { return decimal.NewFromInt(v) }

// FromString parses a decimal amount, e.g. "1234.56".
func FromString(s string) (Money, error) { return decimal.NewFromString(s) }

// MustFromString parses a decimal amount and panics on malformed input.
// Reserved for literals in tests and seed data.
func MustFromString(s string) Money { return decimal.RequireFromString(s) }

func Add(a, b Money) Money { return a.Add(b) }

func Sub(a, b Money) Money { return a.Sub(b) }

func Mul(a, b Money) Money { return a.Mul(b) }

// Div divides a by b, rejecting a zero denominator instead of panicking.
// Proration against an empty document hits this path.
func Div(a, b Money) (Money, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return a.Div(b), nil
}

// Sum folds a list of amounts. An empty list sums to zero.
func Sum(vs ...Money) Money {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

func Abs(v Money) Money { return v.Abs() }

func Floor(v Money) Money { return v.Floor() }

func IsZero(v Money) bool { return v.IsZero() }

func IsPositive(v Money) bool { return v.IsPositive() }

func IsNegative(v Money) bool { return v.IsNegative() }

// Compare returns -1, 0 or 1.
func Compare(a, b Money) int { return a.Cmp(b) }

// Equal reports exact-value equality.
func Equal(a, b Money) bool { return a.Equal(b) }
