/*
Package finance provides the shared value types for the repayment engine.

PURPOSE:
  This package contains the currency and calendar primitives every other
  package builds on. Whether allocating a repayment across loan buckets,
  rolling a settlement date off a weekend, or accruing a late fee, the same
  Money and Date types carry the values.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A currency amount with two-decimal-place semantics

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Two-decimal currency: Equality and reconciliation compare at 2dp
  3. Immutability: every operation returns a new Money

USAGE:
  principal := finance.MustParseMoney("1000.00")
  interest := finance.MustParseMoney("25.50")
  total := principal.Add(interest) // 1025.50

SEE ALSO:
  - date.go: Date, DateRange, and BusinessCalendar
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Currency amount (single-currency, two decimal places)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{Value: decimal.Zero}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

// ParseMoney parses a decimal string like "1035.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney parses a decimal string and returns Zero on failure.
// Use only with literals.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		return Zero
	}
	return m
}

func (m Money) Add(b Money) Money            { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money            { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money  { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money  { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                   { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool             { return m.Value.IsNegative() }
func (m Money) IsZero() bool                 { return m.Value.IsZero() }
func (m Money) IsPositive() bool             { return m.Value.IsPositive() }
func (m Money) GreaterThan(b Money) bool     { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool        { return m.Value.LessThan(b.Value) }
func (m Money) Min(b Money) Money            { if m.LessThan(b) { return m }; return b }
func (m Money) Max(b Money) Money            { if m.GreaterThan(b) { return m }; return b }

// Round2 rounds to two decimal places, the representation's currency grain.
func (m Money) Round2() Money {
	return Money{Value: m.Value.Round(2)}
}

// Equal compares at full precision.
func (m Money) Equal(b Money) bool {
	return m.Value.Equal(b.Value)
}

// EqualRounded compares at the two-decimal currency grain. This is the
// tolerance used for reconciliation checks.
func (m Money) EqualRounded(b Money) bool {
	return m.Round2().Value.Equal(b.Round2().Value)
}

// Float64 is for DTO edges only; never use the result in calculations.
func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string {
	return m.Value.StringFixed(2)
}
