package request

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
)

type FindProducts struct {
	Page        int    `validate:"gte=0"         json:"page"`
	Size        int    `validate:"gte=1,lte=100" json:"size"`
	Sort        string `validate:"required"      json:"sort"`
	Category    string `                         json:"category,omitempty"`
	Subcategory string `                         json:"subcategory,omitempty"`
}

func (r FindProducts) MarshalZerologObject(e *zerolog.Event) {
	e.Int("page", r.Page).
		Int("size", r.Size).
		Str("sort", r.Sort).
		Str("category", r.Category).
		Str("subcategory", r.Subcategory)
}

// Query encodes the request. An empty or "All" category and an empty subcategory are omitted.
func (r FindProducts) Query() url.Values {
	query := url.Values{}
	query.Set(inHttp.QUERY_PAGE, strconv.Itoa(r.Page))
	query.Set(inHttp.QUERY_SIZE, strconv.Itoa(r.Size))
	query.Set(inHttp.QUERY_SORT, r.Sort)
	if category := strings.TrimSpace(r.Category); category != "" && category != constants.DEFAULT_CATEGORY_ALL {
		query.Set(inHttp.QUERY_CATEGORY, category)
	}
	if subcategory := strings.TrimSpace(r.Subcategory); subcategory != "" {
		query.Set(inHttp.QUERY_SUBCATEGORY, subcategory)
	}
	return query
}

type FindProductById struct {
	ID string `validate:"notblank" json:"id"`
}
