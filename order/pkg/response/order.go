package response

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/types"
)

// Checkout carries everything the payment step needs.
type Checkout struct {
	OrderID       types.ID        `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail"`
	MobileNumber  string          `json:"mobileNumber"`
	MobileNetwork string          `json:"mobileNetwork"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (c Checkout) MarshalZerologObject(e *zerolog.Event) {
	e.Str("orderId", c.OrderID.String()).
		Str("amount", c.Amount.StringFixed(2)).
		Str("mobileNetwork", c.MobileNetwork)
}
