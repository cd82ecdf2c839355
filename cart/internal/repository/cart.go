package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/types"
)

type CartRepository struct {
	client *inHttp.Client
}

func NewCartRepository(client *inHttp.Client) CartRepository {
	return CartRepository{client: client}
}

func (r CartRepository) FindCart(c context.Context, token string) (response.CartItems, error) {
	cart := Cart{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodGet,
		Path:   inHttp.PATH_CARTS,
		Token:  token,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return cart.Response(), nil
}

func (r CartRepository) InsertCartItem(
	c context.Context,
	token string,
	param request.AddItem,
) (response.CartItems, error) {
	cart := Cart{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodPost,
		Path:   inHttp.PATH_CART_ITEMS,
		Body:   param,
		Token:  token,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return cart.Response(), nil
}

func (r CartRepository) RemoveCartItem(c context.Context, token string, productID types.ID) error {
	return r.client.Do(c, inHttp.Request{
		Method:   http.MethodDelete,
		Path:     inHttp.PATH_CART_ITEMS + "/" + url.PathEscape(productID.String()),
		Endpoint: inHttp.PATH_CART_ITEMS + "/{productId}",
		Token:    token,
	}, nil)
}

func (r CartRepository) RemoveCart(c context.Context, token string) error {
	return r.client.Do(c, inHttp.Request{
		Method: http.MethodDelete,
		Path:   inHttp.PATH_CARTS,
		Token:  token,
	}, nil)
}
