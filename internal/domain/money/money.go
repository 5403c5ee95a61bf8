// Package money provides an exact integer-cents currency type.
//
// All arithmetic in the matching and splitting engine runs on Money values.
// Amounts are never represented as floating point: parsing goes through
// arbitrary-precision decimals and everything downstream is int64 cents.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents. Negative values are expenses,
// matching the ledger's sign convention.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// FromCents returns a Money worth the given number of cents.
func FromCents(cents int64) Money {
	return Money(cents)
}

// FromMilliunits converts the ledger's native integer unit (1000 units = $1)
// to cents. Milliunit amounts from the register are always multiples of 10.
func FromMilliunits(milliunits int64) Money {
	return Money(milliunits / 10)
}

// Parse parses a decimal string such as "12.34" or "-0.05" into cents.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("invalid money amount %q: sub-cent precision", s)
	}
	return Money(cents.IntPart()), nil
}

// MustParse is Parse but panics on error. For tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// MulInt returns m multiplied by an integer scalar.
func (m Money) MulInt(n int64) Money {
	return m * Money(n)
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return -m
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Cmp returns -1, 0, or 1 comparing m to other.
func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

// Sign returns -1 for negative, 0 for zero, 1 for positive.
func (m Money) Sign() int {
	return m.Cmp(0)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative reports whether the amount is an expense.
func (m Money) IsNegative() bool {
	return m < 0
}

// SameSign reports whether other carries the same sign as m.
// Zero is compatible with either sign.
func (m Money) SameSign(other Money) bool {
	return m == 0 || other == 0 || (m < 0) == (other < 0)
}

// String formats the amount as dollars, e.g. "$12.34" or "-$0.05".
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Sum adds a list of amounts.
func Sum(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
