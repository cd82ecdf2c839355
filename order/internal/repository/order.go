package repository

import (
	"context"
	"net/http"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/order/pkg/request"
)

type OrderRepository struct {
	client *inHttp.Client
}

func NewOrderRepository(client *inHttp.Client) OrderRepository {
	return OrderRepository{client: client}
}

func (r OrderRepository) InsertOrder(c context.Context, token string, param request.CreateOrder) (Order, error) {
	order := Order{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodPost,
		Path:   inHttp.PATH_ORDERS,
		Body:   param,
		Token:  token,
	}, &order)
	return order, err
}
