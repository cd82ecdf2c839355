package request

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/types"
)

// MobileMoney is the body of POST /payments/mobile-money/initiate. MobileNetwork is the carrier
// such as "MTN", PaymentMethod the wallet such as "MTN_MOBILE_MONEY".
type MobileMoney struct {
	OrderID       types.ID        `validate:"required"       json:"orderId"`
	Amount        decimal.Decimal `validate:"gt=0"           json:"amount"`
	CustomerEmail string          `validate:"required,email" json:"customerEmail"`
	MobileNumber  string          `validate:"notblank"       json:"mobileNumber"`
	MobileNetwork string          `validate:"notblank"       json:"mobileNetwork"`
	PaymentMethod string          `                          json:"paymentMethod"`
}

func (m MobileMoney) MarshalZerologObject(e *zerolog.Event) {
	e.Str("orderId", m.OrderID.String()).
		Str("amount", m.Amount.StringFixed(2)).
		Str("mobileNetwork", m.MobileNetwork).
		Str("paymentMethod", m.PaymentMethod)
}
