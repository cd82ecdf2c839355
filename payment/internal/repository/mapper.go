package repository

import (
	"fmt"
	"net/http"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/payment/pkg/response"
)

type initiationData struct {
	Status      string `json:"status"`
	DisplayText string `json:"displayText"`
	Reference   string `json:"reference"`
}

// Initiation is {success, message, data:{status, displayText, reference}}.
type Initiation struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *initiationData `json:"data"`
}

// Validate reports success:false as a rejection carrying the server message.
func (i Initiation) Validate() error {
	if !i.Success {
		message := i.Message
		if message == "" {
			message = "Payment initiation failed."
		}
		return inErrors.NewServerRejected(http.StatusBadRequest, message)
	}
	if i.Data == nil {
		return fmt.Errorf("%w: payment initiation is missing data", inErrors.ErrUnexpectedShape)
	}
	return nil
}

// Response classifies the provider status into an outcome with its user-facing text.
func (i Initiation) Response() response.Payment {
	data := initiationData{}
	if i.Data != nil {
		data = *i.Data
	}
	payment := response.Payment{Status: data.Status, Reference: data.Reference}
	switch response.Outcome(data.Status) {
	case response.OutcomePayOffline:
		payment.Outcome = response.OutcomePayOffline
		payment.Title = "Payment Initiated"
		payment.Message = fallback(data.DisplayText, "Please check your phone for a prompt to authorize payment.")
	case response.OutcomeSendOtp:
		payment.Outcome = response.OutcomeSendOtp
		payment.Title = "Action Required"
		payment.Message = fallback(
			data.DisplayText,
			"Please dial USSD to generate a voucher code, then input the voucher.",
		)
	case response.OutcomeSuccess:
		payment.Outcome = response.OutcomeSuccess
		payment.Title = "Payment Success"
		payment.Message = fallback(i.Message, "Your payment was successful!")
	case response.OutcomePending:
		payment.Outcome = response.OutcomePending
		payment.Title = "Payment Pending"
		payment.Message = fallback(data.DisplayText, "Please complete authorization on your phone.")
	default:
		payment.Outcome = response.OutcomeUnknown
		payment.Title = "Payment Status Unclear"
		payment.Message = "Payment initiated, but the response was unexpected. Please check your order history later."
		payment.Retryable = true
	}
	return payment
}

func fallback(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
