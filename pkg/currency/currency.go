// Package currency formats decimal amounts for display.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders amount in the given ISO 4217 currency, e.g. "$1,234.50" for USD.
// Amounts are rounded to the currency's minor unit; the stored value is untouched.
func Format(amount decimal.Decimal, code string) string {
	// money.New never returns a nil currency, unknown codes get a generic one.
	cur := money.New(0, code).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
