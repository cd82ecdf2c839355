package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNetworkFailure     = errors.New("network failure")
	ErrServerRejected     = errors.New("server rejected request")
	ErrUnexpectedShape    = errors.New("unexpected response shape")
	ErrOperationInFlight  = errors.New("operation already in flight")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrMissingPaymentInfo = errors.New("missing mobile number or mobile network")
	ErrMissingEmail       = errors.New("user email not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidRequest     = errors.New("invalid request")
)

const genericMessage = "Something went wrong. Please try again."

// ServerRejectedError is a non-2xx response carrying the server's message.
type ServerRejectedError struct {
	StatusCode int
	Message    string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("server rejected request with statusCode=%d message=%s", e.StatusCode, e.Message)
}

func (e *ServerRejectedError) Is(target error) bool {
	return target == ErrServerRejected
}

func NewServerRejected(statusCode int, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &ServerRejectedError{StatusCode: statusCode, Message: message}
}

func StatusCode(err error) int {
	var rejected *ServerRejectedError
	if errors.As(err, &rejected) {
		return rejected.StatusCode
	}
	return 0
}

// Message converts err into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var rejected *ServerRejectedError
	switch {
	case errors.Is(err, ErrSessionExpired):
		return "Session expired. Please log in again."
	case errors.As(err, &rejected):
		return rejected.Message
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in to continue."
	case errors.Is(err, ErrNetworkFailure):
		return "Network error or unable to connect. Please try again later."
	case errors.Is(err, ErrUnexpectedShape):
		return "Unexpected data format from server."
	case errors.Is(err, ErrOperationInFlight):
		return "Please wait for the previous request to finish."
	case errors.Is(err, ErrCartEmpty):
		return "Your cart is empty. Please add items before proceeding to checkout."
	case errors.Is(err, ErrMissingPaymentInfo):
		return "Please provide your mobile number and network for Mobile Money payment."
	case errors.Is(err, ErrMissingEmail):
		return "User email not found. Please log in again."
	case errors.Is(err, ErrInvalidRequest):
		return "Please check your input and try again."
	}
	return genericMessage
}
