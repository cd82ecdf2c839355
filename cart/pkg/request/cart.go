package request

import (
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/types"
)

// AddItem is the body of POST /carts/items. Size is kept client side only.
type AddItem struct {
	ProductID types.ID `validate:"required" json:"productId"`
	Quantity  int      `validate:"gte=1"    json:"quantity"`
	Size      string   `                    json:"-"`
}

func (a AddItem) MarshalZerologObject(e *zerolog.Event) {
	e.Str("productId", a.ProductID.String()).Int("quantity", a.Quantity).Str("size", a.Size)
}

type RemoveItem struct {
	ProductID types.ID `validate:"required" json:"productId"`
}
