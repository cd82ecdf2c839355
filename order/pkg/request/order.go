package request

import (
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/types"
)

// Checkout is what the buyer enters on the checkout screen.
type Checkout struct {
	ShippingAddress string `validate:"notblank"`
	BillingAddress  string
	MobileNumber    string
	MobileNetwork   string
	PaymentMethod   string
}

func (c Checkout) MarshalZerologObject(e *zerolog.Event) {
	e.Str("mobileNetwork", c.MobileNetwork).Str("paymentMethod", c.PaymentMethod)
}

// CreateOrder is the body of POST /orders.
type CreateOrder struct {
	ShippingAddress string      `validate:"notblank"          json:"shippingAddress"`
	BillingAddress  string      `                             json:"billingAddress"`
	OrderItems      []OrderItem `validate:"required,gt=0,dive" json:"orderItems"`
}

type OrderItem struct {
	ProductID types.ID `validate:"required" json:"productId"`
	Quantity  int      `validate:"gte=1"    json:"quantity"`
	Size      string   `                    json:"size,omitempty"`
}
