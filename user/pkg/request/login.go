package request

import (
	"github.com/rs/zerolog"
)

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

type Signup struct {
	Username        string `validate:"notblank"                  json:"username"`
	Email           string `validate:"required,email"            json:"email"`
	Password        string `validate:"min=8,letterdigit"         json:"password"`
	ConfirmPassword string `validate:"required,eqfield=Password" json:"-"`
	PhoneNumber     string `validate:"omitempty,e164"            json:"phoneNumber,omitempty"`
}

func (s Signup) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", s.Email).Str("username", s.Username).Str("password", "***")
}
