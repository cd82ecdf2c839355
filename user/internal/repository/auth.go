package repository

import (
	"context"
	"net/http"
	"net/url"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

type AuthRepository struct {
	client *inHttp.Client
}

func NewAuthRepository(client *inHttp.Client) AuthRepository {
	return AuthRepository{client: client}
}

func (r AuthRepository) Login(c context.Context, param request.Login) (LoginBody, error) {
	body := LoginBody{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodPost,
		Path:   inHttp.PATH_AUTH_LOGIN,
		Body:   param,
	}, &body)
	return body, err
}

func (r AuthRepository) Signup(c context.Context, param request.Signup) (SignupBody, error) {
	body := SignupBody{}
	err := r.client.Do(c, inHttp.Request{
		Method: http.MethodPost,
		Path:   inHttp.PATH_AUTH_SIGNUP,
		Body:   param,
	}, &body)
	return body, err
}

func (r AuthRepository) FindUserById(c context.Context, token string, id string) (response.User, error) {
	body := UserBody{}
	err := r.client.Do(c, inHttp.Request{
		Method:   http.MethodGet,
		Path:     inHttp.PATH_USERS + "/" + url.PathEscape(id),
		Endpoint: inHttp.PATH_USERS + "/{id}",
		Token:    token,
	}, &body)
	if err != nil {
		return response.User{}, err
	}
	return *body.Data, nil
}
