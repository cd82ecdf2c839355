package repository

import (
	"context"
	"fmt"
	"net/http"

	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/product/pkg/response"
	"github.com/Alturino/storefront/search/pkg/request"
)

type recentSearches []string

func (r recentSearches) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: recent searches is not an array", inErrors.ErrUnexpectedShape)
	}
	return nil
}

type SearchRepository struct {
	client *inHttp.Client
}

func NewSearchRepository(client *inHttp.Client) SearchRepository {
	return SearchRepository{client: client}
}

func (r SearchRepository) SearchProducts(
	c context.Context,
	param request.SearchProducts,
	token string,
) (inHttp.PageBody[response.Product], error) {
	page := inHttp.PageBody[response.Product]{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodGet,
		Path:   inHttp.PATH_SEARCH_PRODUCTS,
		Query:  param.Values(),
		Token:  token,
	}, &page)
	return page, err
}

func (r SearchRepository) FindRecentSearches(c context.Context, token string) ([]string, error) {
	recent := recentSearches{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodGet,
		Path:   inHttp.PATH_SEARCH_RECENT,
		Token:  token,
	}, &recent)
	return []string(recent), err
}
