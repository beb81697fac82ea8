package cart

import (
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed tax applied to every cart
var TaxRate = decimal.NewFromFloat(0.10)

// Totals is the price breakdown of a cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Taxes    decimal.Decimal `json:"taxes"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals sums price times quantity over lines and adds TaxRate
func ComputeTotals(lines []domain.CartLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	taxes := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Taxes:    taxes,
		Total:    subtotal.Add(taxes),
	}
}
