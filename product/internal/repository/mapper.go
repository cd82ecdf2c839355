package repository

import (
	"fmt"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/product/pkg/response"
)

type Product response.Product

func (p Product) Validate() error {
	if p.ID.IsZero() {
		return fmt.Errorf("%w: product is missing id", inErrors.ErrUnexpectedShape)
	}
	return nil
}

func (p Product) Response() response.Product {
	return response.Product(p)
}
