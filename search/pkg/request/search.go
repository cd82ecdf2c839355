package request

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
)

// Filters narrows a search. Nil fields are not sent.
type Filters struct {
	MinPrice  *decimal.Decimal `validate:"omitempty,gte=0"       json:"minPrice,omitempty"`
	MaxPrice  *decimal.Decimal `validate:"omitempty,gte=0"       json:"maxPrice,omitempty"`
	MinRating *float64         `validate:"omitempty,gte=0,lte=5" json:"minRating,omitempty"`
	InStock   *bool            `                                 json:"inStock,omitempty"`
}

func (f Filters) Validate() error {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MaxPrice.LessThan(*f.MinPrice) {
		return fmt.Errorf(
			"%w: maxPrice=%s is lower than minPrice=%s",
			inErrors.ErrInvalidRequest,
			f.MaxPrice.String(),
			f.MinPrice.String(),
		)
	}
	return nil
}

// Map encodes the filters as query values, leaving unset filters out.
func (f Filters) Map() map[string]string {
	m := map[string]string{}
	if f.MinPrice != nil {
		m[inHttp.QUERY_MIN_PRICE] = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		m[inHttp.QUERY_MAX_PRICE] = f.MaxPrice.String()
	}
	if f.MinRating != nil {
		m[inHttp.QUERY_MIN_RATING] = strconv.FormatFloat(*f.MinRating, 'f', -1, 64)
	}
	if f.InStock != nil {
		m[inHttp.QUERY_IN_STOCK] = strconv.FormatBool(*f.InStock)
	}
	return m
}

type SearchProducts struct {
	Query   string            `                         json:"query"`
	Page    int               `validate:"gte=0"         json:"page"`
	Size    int               `validate:"gte=1,lte=100" json:"size"`
	Sort    string            `validate:"required"      json:"sort"`
	Filters map[string]string `                         json:"filters,omitempty"`
}

func (r SearchProducts) MarshalZerologObject(e *zerolog.Event) {
	keys := make([]string, 0, len(r.Filters))
	for k := range r.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.Str("query", r.Query).
		Int("page", r.Page).
		Int("size", r.Size).
		Str("sort", r.Sort).
		Strs("filters", keys)
}

// Values encodes the request. query is always sent, even when empty, filters with empty
// values are dropped.
func (r SearchProducts) Values() url.Values {
	query := url.Values{}
	query.Set(inHttp.QUERY_SEARCH, r.Query)
	query.Set(inHttp.QUERY_PAGE, strconv.Itoa(r.Page))
	query.Set(inHttp.QUERY_SIZE, strconv.Itoa(r.Size))
	query.Set(inHttp.QUERY_SORT, r.Sort)
	for k, v := range r.Filters {
		if k == inHttp.QUERY_SEARCH || strings.TrimSpace(v) == "" {
			continue
		}
		query.Set(k, v)
	}
	return query
}
