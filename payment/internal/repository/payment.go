package repository

import (
	"context"
	"net/http"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/payment/pkg/request"
)

type PaymentRepository struct {
	client *inHttp.Client
}

func NewPaymentRepository(client *inHttp.Client) PaymentRepository {
	return PaymentRepository{client: client}
}

func (r PaymentRepository) InitiateMobileMoney(
	c context.Context,
	token string,
	param request.MobileMoney,
) (Initiation, error) {
	initiation := Initiation{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodPost,
		Path:   inHttp.PATH_PAYMENTS_MOMO,
		Body:   param,
		Token:  token,
	}, &initiation)
	return initiation, err
}
