package validate

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator. decimal.Decimal fields validate as float64 so the
// numeric tags (gte, gt, lte) apply to them, "notblank" rejects whitespace-only strings and
// "letterdigit" requires at least one letter and one digit.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		validate.RegisterValidation("notblank", notBlank)
		validate.RegisterValidation("letterdigit", letterDigit)
		validate.RegisterTagNameFunc(jsonName)
	})
	return validate
}

// Struct validates s, wrapping failures in ErrInvalidRequest.
func Struct(s any) error {
	if err := Validator().Struct(s); err != nil {
		return fmt.Errorf("%w: %w", inErrors.ErrInvalidRequest, err)
	}
	return nil
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return !field.IsZero()
	}
	return strings.TrimSpace(field.String()) != ""
}

func letterDigit(fl validator.FieldLevel) bool {
	hasLetter, hasDigit := false, false
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
