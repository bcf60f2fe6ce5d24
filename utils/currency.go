package utils

import (
	"github.com/shopspring/decimal"
)

// FormatEuro formats an amount the way receipts and the POS show it.
// Example: 22.5 -> "€22.50"
func FormatEuro(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-€" + d.Neg().StringFixed(2)
	}
	return "€" + d.StringFixed(2)
}
