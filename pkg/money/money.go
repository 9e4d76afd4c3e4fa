// Package money converts integer cent amounts to decimal and display forms.
package money

import "github.com/shopspring/decimal"

// FromCents returns cents as a decimal amount of whole currency units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents converts a currency amount to cents, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// Format renders cents as a dollar amount with two decimals, e.g. 2095 -> "20.95".
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}

// FormatPrice renders cents with a leading dollar sign, or "FREE" for zero.
func FormatPrice(cents int64) string {
	if cents == 0 {
		return "FREE"
	}
	return "$" + Format(cents)
}
