package response

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/types"
)

type Product struct {
	ID          types.ID        `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Rating      float64         `json:"rating"`
	Tag         string          `json:"tag,omitempty"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Size        string          `json:"size,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
}

func (p Product) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", p.ID.String()).
		Str("name", p.Name).
		Str("price", p.Price.StringFixed(2))
}

// InStock reports whether quantity units can be bought. An unknown stock never blocks.
func (p Product) InStock(quantity int) bool {
	if p.Stock == nil {
		return true
	}
	return *p.Stock >= quantity && *p.Stock > 0
}
