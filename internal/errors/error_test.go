package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "given nil error should return empty message",
			err:      nil,
			expected: "",
		},
		{
			name:     "given wrapped server rejection should return server message",
			err:      fmt.Errorf("failed adding item with error=%w", NewServerRejected(http.StatusConflict, "Out of stock")),
			expected: "Out of stock",
		},
		{
			name:     "given server rejection without message should return status text",
			err:      NewServerRejected(http.StatusBadGateway, ""),
			expected: http.StatusText(http.StatusBadGateway),
		},
		{
			name:     "given unauthenticated should ask to log in",
			err:      fmt.Errorf("failed with error=%w", ErrUnauthenticated),
			expected: "Please log in to continue.",
		},
		{
			name:     "given expired session wrapping a rejection should ask to log in again",
			err:      fmt.Errorf("%w: %w", ErrSessionExpired, NewServerRejected(http.StatusUnauthorized, "Token is invalid")),
			expected: "Session expired. Please log in again.",
		},
		{
			name:     "given unknown error should return generic message",
			err:      errors.New("boom"),
			expected: genericMessage,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Message(test.err))
		})
	}
}

func TestServerRejectedError(t *testing.T) {
	err := fmt.Errorf("failed with error=%w", NewServerRejected(http.StatusNotFound, "missing"))

	assert.ErrorIs(t, err, ErrServerRejected)
	assert.NotErrorIs(t, err, ErrNetworkFailure)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, 0, StatusCode(ErrNetworkFailure))
}
