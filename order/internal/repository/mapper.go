package repository

import (
	"fmt"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/types"
)

// Order is the body returned by POST /orders. Only orderId is read.
type Order struct {
	OrderID types.ID `json:"orderId"`
	Status  string   `json:"status"`
}

func (o Order) Validate() error {
	if o.OrderID.IsZero() {
		return fmt.Errorf("%w: order is missing orderId", inErrors.ErrUnexpectedShape)
	}
	return nil
}
