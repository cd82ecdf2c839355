package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alturino/storefront/internal/config"
)

func TestShutdownOtel(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	tests := []struct {
		name      string
		shutdowns []ShutdownFunc
		expected  []error
	}{
		{
			name:      "given no shutdown funcs should return nil",
			shutdowns: nil,
		},
		{
			name: "given failing shutdown funcs should join every error",
			shutdowns: []ShutdownFunc{
				func(context.Context) error { return errFirst },
				func(context.Context) error { return nil },
				func(context.Context) error { return errSecond },
			},
			expected: []error{errFirst, errSecond},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ShutdownOtel(context.Background(), test.shutdowns)
			if len(test.expected) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, expected := range test.expected {
				assert.ErrorIs(t, err, expected)
			}
		})
	}
}

func TestInitOtelSdkDisabled(t *testing.T) {
	shutdowns, err := InitOtelSdk(context.Background(), "test", config.Otel{Enabled: false})

	assert.NoError(t, err)
	assert.Empty(t, shutdowns)
}
