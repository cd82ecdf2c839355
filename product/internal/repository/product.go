package repository

import (
	"context"
	"net/http"
	"net/url"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductRepository struct {
	client *inHttp.Client
}

func NewProductRepository(client *inHttp.Client) ProductRepository {
	return ProductRepository{client: client}
}

func (r ProductRepository) FindProducts(
	c context.Context,
	param request.FindProducts,
) (inHttp.PageBody[response.Product], error) {
	page := inHttp.PageBody[response.Product]{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodGet,
		Path:   inHttp.PATH_PRODUCTS,
		Query:  param.Query(),
	}, &page)
	return page, err
}

func (r ProductRepository) FindProductById(c context.Context, id string) (response.Product, error) {
	product := Product{}
	err := r.client.Do(c, inHttp.Request{
		Method:   http.MethodGet,
		Path:     inHttp.PATH_PRODUCTS + "/" + url.PathEscape(id),
		Endpoint: inHttp.PATH_PRODUCTS + "/{id}",
	}, &product)
	return product.Response(), err
}
