package cashflow

import "github.com/shopspring/decimal"

// round2 rounds a monetary value to cents
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// round1 rounds to one decimal place, used for months of runway
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// formatMoney renders v with exactly two decimals
func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
