package core

import "github.com/shopspring/decimal"

// RoundMoney rounds v to cents, half away from zero. It is applied at
// presentation boundaries only; sums are always taken over unrounded values.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// MoneyString formats v with exactly two decimals.
func MoneyString(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
