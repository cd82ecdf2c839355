package repository

import (
	"fmt"
	"net/http"

	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/user/pkg/response"
)

const STATUS_SUCCESS = "success"

type loginData struct {
	Token string         `json:"token"`
	User  *response.User `json:"user"`
}

// LoginBody is {status, message, data:{token, user}}.
type LoginBody struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    *loginData `json:"data"`
}

// Validate treats any body without status "success" and a token as a rejected login.
func (b LoginBody) Validate() error {
	if b.Status != STATUS_SUCCESS || b.Data == nil || b.Data.Token == "" {
		message := b.Message
		if message == "" {
			message = "Login failed. Please check your credentials."
		}
		return inErrors.NewServerRejected(http.StatusUnauthorized, message)
	}
	return nil
}

func (b LoginBody) Token() string {
	if b.Data == nil {
		return ""
	}
	return b.Data.Token
}

func (b LoginBody) User() response.User {
	if b.Data == nil || b.Data.User == nil {
		return response.User{}
	}
	return *b.Data.User
}

// SignupBody succeeds when success is true or status is "success".
type SignupBody struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (b SignupBody) Validate() error {
	if b.Success || b.Status == STATUS_SUCCESS {
		return nil
	}
	message := b.Message
	if message == "" {
		message = "Signup failed."
	}
	return inErrors.NewServerRejected(http.StatusBadRequest, message)
}

func (b SignupBody) Response() response.Signup {
	message := b.Message
	if message == "" {
		message = "Signup successful! Please log in."
	}
	return response.Signup{Message: message}
}

// UserBody is {data: user, message}.
type UserBody struct {
	Data    *response.User `json:"data"`
	Message string         `json:"message"`
}

func (b UserBody) Validate() error {
	if b.Data == nil {
		return fmt.Errorf("%w: user body is missing data", inErrors.ErrUnexpectedShape)
	}
	return nil
}
