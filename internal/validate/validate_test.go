package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

type filters struct {
	MinPrice *decimal.Decimal `json:"minPrice" validate:"omitempty,gte=0"`
	Price    decimal.Decimal  `json:"price"    validate:"gt=0"`
	Query    string           `json:"query"    validate:"notblank"`
}

func TestStruct(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	zero := decimal.Zero

	tests := []struct {
		name        string
		input       filters
		expectedErr bool
	}{
		{name: "given valid input should pass", input: filters{Price: decimal.NewFromFloat(9.5), Query: "shoe"}},
		{name: "given zero optional min price should pass", input: filters{MinPrice: &zero, Price: decimal.NewFromInt(1), Query: "shoe"}},
		{name: "given negative min price should fail", input: filters{MinPrice: &negative, Price: decimal.NewFromInt(1), Query: "shoe"}, expectedErr: true},
		{name: "given zero price should fail", input: filters{Price: decimal.Zero, Query: "shoe"}, expectedErr: true},
		{name: "given blank query should fail", input: filters{Price: decimal.NewFromInt(1), Query: "   "}, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Struct(test.input)
			if test.expectedErr {
				assert.ErrorIs(t, err, inErrors.ErrInvalidRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

type signup struct {
	Password string `json:"password" validate:"min=8,letterdigit"`
}

func TestLetterDigit(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectedErr bool
	}{
		{name: "given letters and digits should pass", password: "secret123"},
		{name: "given only letters should fail", password: "secretsecret", expectedErr: true},
		{name: "given only digits should fail", password: "12345678", expectedErr: true},
		{name: "given short password should fail", password: "a1", expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Struct(signup{Password: test.password})
			if test.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
