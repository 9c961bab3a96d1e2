package utils

import "github.com/shopspring/decimal"

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Dec converts a stored float amount into a decimal for arithmetic.
func Dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Float converts a decimal result back into the stored float representation.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// FormatINR renders an amount with two decimals, e.g. "1180.00".
func FormatINR(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
