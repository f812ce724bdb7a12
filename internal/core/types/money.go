// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors in valuation sums.
type Money = decimal.Decimal

// NewMoneyFromRupiah creates a Money value from a whole-rupiah amount.
func NewMoneyFromRupiah(r Rupiah) Money {
	return decimal.NewFromInt(int64(r))
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// Rupiah is a monetary amount in whole Indonesian rupiah.
// IDR carries no minor units in practice, so int64 is exact.
type Rupiah int64

func (r Rupiah) IsZero() bool     { return r == 0 }
func (r Rupiah) IsNegative() bool { return r < 0 }

// Mul returns the total value of qty units at this unit price, as Money.
// Valuation goes through decimal so report sums never overflow silently.
func (r Rupiah) Mul(qty int64) Money {
	return decimal.NewFromInt(int64(r)).Mul(decimal.NewFromInt(qty))
}
