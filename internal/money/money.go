// Package money formats fixed-point amounts for display.
package money

import "github.com/shopspring/decimal"

// Format renders d as "$X.XX", rounding half to even.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixedBank(2)
}

// Float is the JSON friendly numeric form of d.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
