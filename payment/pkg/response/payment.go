package response

import (
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/types"
)

type Outcome string

const (
	OutcomePayOffline Outcome = "pay_offline"
	OutcomeSendOtp    Outcome = "send_otp"
	OutcomeSuccess    Outcome = "success"
	OutcomePending    Outcome = "pending"
	OutcomeUnknown    Outcome = "unknown"
	OutcomeFailed     Outcome = "failed"
)

// Completed reports whether the order is paid or will be once the buyer authorizes it on the phone.
func (o Outcome) Completed() bool {
	return o == OutcomeSuccess || o == OutcomePayOffline || o == OutcomePending
}

type Payment struct {
	OrderID   types.ID `json:"orderId"`
	Outcome   Outcome  `json:"outcome"`
	Status    string   `json:"status,omitempty"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Reference string   `json:"reference,omitempty"`
	Retryable bool     `json:"retryable"`
}

func (p Payment) MarshalZerologObject(e *zerolog.Event) {
	e.Str("orderId", p.OrderID.String()).
		Str("outcome", string(p.Outcome)).
		Str("reference", p.Reference).
		Bool("retryable", p.Retryable)
}
