package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/validate"
)

func TestAddItem(t *testing.T) {
	tests := []struct {
		name        string
		request     AddItem
		expected    string
		expectedErr bool
	}{
		{name: "given numeric product id should send number", request: AddItem{ProductID: "12", Quantity: 2, Size: "M"}, expected: `{"productId":12,"quantity":2}`},
		{name: "given zero quantity should fail", request: AddItem{ProductID: "12", Quantity: 0}, expectedErr: true},
		{name: "given missing product should fail", request: AddItem{Quantity: 1}, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validate.Struct(test.request)
			if test.expectedErr {
				assert.ErrorIs(t, err, inErrors.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			body, err := json.Marshal(test.request)
			require.NoError(t, err)
			assert.JSONEq(t, test.expected, string(body))
		})
	}
}
