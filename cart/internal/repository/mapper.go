package repository

import (
	"fmt"

	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/types"
	"github.com/Alturino/storefront/cart/pkg/response"
)

type CartItem struct {
	ID           types.ID         `json:"id"`
	ProductID    types.ID         `json:"productId"`
	ProductName  string           `json:"productName"`
	PriceAtAdd   *decimal.Decimal `json:"priceAtAdd"`
	Quantity     int              `json:"quantity"`
	ProductImage string           `json:"productImage"`
	Subtotal     *decimal.Decimal `json:"subtotal"`
}

func (i CartItem) Validate() error {
	switch {
	case i.ID.IsZero():
		return fmt.Errorf("%w: cart item is missing id", inErrors.ErrUnexpectedShape)
	case i.ProductID.IsZero():
		return fmt.Errorf("%w: cart item=%s is missing productId", inErrors.ErrUnexpectedShape, i.ID)
	case i.PriceAtAdd == nil:
		return fmt.Errorf("%w: cart item=%s is missing priceAtAdd", inErrors.ErrUnexpectedShape, i.ID)
	case i.Subtotal == nil:
		return fmt.Errorf("%w: cart item=%s is missing subtotal", inErrors.ErrUnexpectedShape, i.ID)
	case i.Quantity < 1:
		return fmt.Errorf("%w: cart item=%s has quantity=%d", inErrors.ErrUnexpectedShape, i.ID, i.Quantity)
	}
	return nil
}

// Response maps a validated wire item. The subtotal is the server's, never recomputed.
func (i CartItem) Response() response.CartItem {
	return response.CartItem{
		CartItemID:   i.ID,
		ProductID:    i.ProductID,
		Name:         i.ProductName,
		ImageURL:     i.ProductImage,
		UnitPrice:    *i.PriceAtAdd,
		Quantity:     i.Quantity,
		LineSubtotal: *i.Subtotal,
	}
}

// Cart is the server cart body. Only items is read.
type Cart struct {
	Items *[]CartItem `json:"items"`
}

func (c Cart) Validate() error {
	if c.Items == nil {
		return fmt.Errorf("%w: cart is missing items", inErrors.ErrUnexpectedShape)
	}
	for _, item := range *c.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Cart) Response() response.CartItems {
	if c.Items == nil {
		return response.CartItems{}
	}
	items := make(response.CartItems, 0, len(*c.Items))
	for _, item := range *c.Items {
		items = append(items, item.Response())
	}
	return items
}
