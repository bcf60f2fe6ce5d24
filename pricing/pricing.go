// Package pricing holds the order arithmetic shared by the server, which persists
// totals, and the client, which only displays them.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/steakz-restaurant/models"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Line is one priced row of a cart, selection or order.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Discount is a single absolute or percentage reduction.
type Discount struct {
	Value float64
	Type  models.DiscountType
}

// Subtotal returns the sum of unit price times quantity. Non-positive quantities are ignored.
func Subtotal(lines []Line) decimal.Decimal {
	sum := zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// Apply reduces subtotal by the discount. Amounts floor at zero; percentages are
// clamped to [0, 100]. An unknown type leaves the subtotal unchanged.
func (d Discount) Apply(subtotal decimal.Decimal) decimal.Decimal {
	value := floorAtZero(decimal.NewFromFloat(d.Value))

	var total decimal.Decimal
	switch d.Type {
	case models.DiscountAmount:
		total = subtotal.Sub(value)
	case models.DiscountPercentage:
		pct := decimal.Min(value, hundred)
		total = subtotal.Sub(subtotal.Mul(pct).Div(hundred))
	default:
		total = subtotal
	}
	return floorAtZero(total).Round(2)
}

// IsZero reports whether the discount changes nothing.
func (d Discount) IsZero() bool {
	return d.Value <= 0 || !d.Type.Valid()
}

// Total applies d to the subtotal of lines.
func Total(lines []Line, d Discount) decimal.Decimal {
	return d.Apply(Subtotal(lines))
}

// CartLines converts cart items into priced lines using the current menu price.
func CartLines(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{UnitPrice: item.MenuItem.Price, Quantity: item.Quantity})
	}
	return lines
}

// OrderLines converts an order snapshot into priced lines using captured prices.
func OrderLines(items []models.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{UnitPrice: item.Price, Quantity: item.Quantity})
	}
	return lines
}

// Float converts a money value for the wire.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
