package response

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/types"
)

type User struct {
	ID              types.ID `json:"id"`
	Username        string   `json:"username,omitempty"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName,omitempty"`
	LastName        string   `json:"lastName,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Dob             string   `json:"dob,omitempty"`
	Sex             string   `json:"sex,omitempty"`
	ProfileImageURL string   `json:"profileImageUrl,omitempty"`
	EmailVerified   bool     `json:"emailVerified"`
}

func (u User) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", u.ID.String()).Str("email", u.Email).Str("username", u.Username)
}

// Session is the locally stored login. Subject and ExpiresAt come from the token claims and are
// only informative, the token is never verified client side.
type Session struct {
	Token           string    `json:"-"`
	User            *User     `json:"user,omitempty"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Subject         string    `json:"subject,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type Signup struct {
	Message string `json:"message"`
}
