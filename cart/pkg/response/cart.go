package response

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/types"
)

type CartItem struct {
	CartItemID   types.ID        `json:"cartItemId"`
	ProductID    types.ID        `json:"productId"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
	Size         string          `json:"size,omitempty"`
}

func (i CartItem) MarshalZerologObject(e *zerolog.Event) {
	e.Str("productId", i.ProductID.String()).
		Int("quantity", i.Quantity).
		Str("lineSubtotal", i.LineSubtotal.StringFixed(2))
}

type CartItems []CartItem

func (items CartItems) MarshalZerologArray(a *zerolog.Array) {
	for _, item := range items {
		a.Object(item)
	}
}

// Total sums the line subtotals reported by the server.
func (items CartItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineSubtotal)
	}
	return total
}

// Amount sums unitPrice x quantity, the amount charged at checkout.
func (items CartItems) Amount() decimal.Decimal {
	amount := decimal.Zero
	for _, item := range items {
		amount = amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return amount
}

func (items CartItems) Units() int {
	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	return units
}

// State is a snapshot of the cart mirror.
type State struct {
	Items     CartItems
	Loading   bool
	LastError error
}
