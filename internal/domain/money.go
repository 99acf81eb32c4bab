package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in kobo, the minor unit of the naira.
// Amounts are stored as BIGINT kobo to avoid floating point errors.
type Money struct {
	Kobo int64
}

// NewMoney creates a Money instance from kobo.
func NewMoney(kobo int64) Money {
	return Money{Kobo: kobo}
}

// FromNaira converts a decimal naira amount to Money, truncating anything
// below one kobo.
func FromNaira(naira decimal.Decimal) Money {
	return Money{Kobo: naira.Mul(decimal.NewFromInt(100)).IntPart()}
}

// ToNaira converts the int64 kobo amount to a shopspring/decimal naira value.
func (m Money) ToNaira() decimal.Decimal {
	return decimal.NewFromInt(m.Kobo).Div(decimal.NewFromInt(100))
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Kobo > 0
}

// String returns the display representation, e.g. "150.00 NGN".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.ToNaira().StringFixed(2), Currency)
}
