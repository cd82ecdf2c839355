package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/types"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

const tokenTTL = 30 * time.Minute

type user struct {
	userResponse.User
	hashedPassword []byte
}

type credentials struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// SeedUser registers a user and returns it with its id filled in.
func (s *Server) SeedUser(u userResponse.User, password string) userResponse.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Errorf("failed hashing password with error=%w", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = s.newIDLocked()
	}
	s.users[u.ID.String()] = &user{User: u, hashedPassword: hashed}
	return u
}

// Token signs a valid token for subject.
func (s *Server) Token(subject types.ID) string {
	return s.sign(subject, time.Now(), tokenTTL)
}

// ExpiredToken signs a token for subject that expired a minute ago.
func (s *Server) ExpiredToken(subject types.ID) string {
	return s.sign(subject, time.Now().Add(-tokenTTL-time.Minute), tokenTTL)
}

func (s *Server) sign(subject types.ID, issuedAt time.Time, ttl time.Duration) string {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
			Issuer:    constants.APP_FAKE_API,
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Errorf("failed signing token with error=%w", err))
	}
	return signed
}

func (s *Server) verify(_ context.Context, token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(constants.AUDIENCE_USER),
		jwt.WithIssuer(constants.APP_FAKE_API),
	)
	if err != nil {
		return "", fmt.Errorf("failed parsing token with error=%w", err)
	}
	return claims.Subject, nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str(constants.KEY_TAG, "fakeapi login").Logger()
	c := logger.WithContext(r.Context())

	param := credentials{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeFailure(c, w, http.StatusBadRequest, "request body is invalid")
		return
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if strings.EqualFold(u.Email, param.Email) {
			found = u
			break
		}
	}
	s.mu.Unlock()
	if found == nil || bcrypt.CompareHashAndPassword(found.hashedPassword, []byte(param.Password)) != nil {
		logger.Info().Str(constants.KEY_EMAIL, param.Email).Msg("invalid credentials")
		inHttp.WriteJsonResponse(c, w, http.StatusOK, nil, map[string]any{
			"status":  "failed",
			"message": "Invalid email or password",
		})
		return
	}

	inHttp.WriteJsonResponse(c, w, http.StatusOK, nil, map[string]any{
		"status":  "success",
		"message": "Login successful",
		"data": map[string]any{
			"token": s.Token(found.ID),
			"user":  found.User,
		},
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	c := r.Context()

	param := credentials{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeFailure(c, w, http.StatusBadRequest, "request body is invalid")
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, param.Email) {
			s.mu.Unlock()
			writeFailure(c, w, http.StatusConflict, "Email is already registered")
			return
		}
	}
	s.mu.Unlock()

	s.SeedUser(userResponse.User{
		Username:    param.Username,
		Email:       param.Email,
		PhoneNumber: param.PhoneNumber,
	}, param.Password)

	inHttp.WriteJsonResponse(c, w, http.StatusCreated, nil, map[string]any{
		"success": true,
		"message": "User registered successfully",
	})
}

func (s *Server) findUser(w http.ResponseWriter, r *http.Request) {
	c := r.Context()
	id := mux.Vars(r)["id"]
	if middleware.SubjectFromContext(c) != id {
		writeFailure(c, w, http.StatusForbidden, "Access denied")
		return
	}

	s.mu.Lock()
	found, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		writeFailure(c, w, http.StatusNotFound, "User not found")
		return
	}
	inHttp.WriteJsonResponse(c, w, http.StatusOK, nil, map[string]any{
		"message": "User found",
		"data":    found.User,
	})
}

func writeFailure(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	inHttp.WriteJsonResponse(c, w, statusCode, nil, map[string]any{
		"status":  "failed",
		"message": message,
	})
}
