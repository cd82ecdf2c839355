package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
)

type subjectKey struct{}

// VerifyFunc validates a bearer token and returns its subject.
type VerifyFunc func(c context.Context, token string) (string, error)

func SubjectFromContext(c context.Context) string {
	subject, _ := c.Value(subjectKey{}).(string)
	return subject
}

func AttachSubjectToContext(c context.Context, subject string) context.Context {
	return context.WithValue(c, subjectKey{}, subject)
}

// BearerToken extracts the token from an Authorization header, "" when absent.
func BearerToken(r *http.Request) string {
	authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
	if len(authorization) < len(inHttp.VALUE_BEARER_PREFIX) ||
		!strings.EqualFold(authorization[:len(inHttp.VALUE_BEARER_PREFIX)], inHttp.VALUE_BEARER_PREFIX) {
		return ""
	}
	return strings.TrimSpace(authorization[len(inHttp.VALUE_BEARER_PREFIX):])
}

// Auth rejects requests without a valid bearer token and stores the token subject in the
// request context.
func Auth(verify VerifyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).With().Str(constants.KEY_TAG, "middleware Auth").Logger()
			c := logger.WithContext(r.Context())

			token := BearerToken(r)
			if token == "" {
				logger.Error().Msg("empty authorization")
				inHttp.WriteJsonResponse(c, w, http.StatusUnauthorized, nil, map[string]any{
					"status":  "failed",
					"message": "Authentication required",
				})
				return
			}

			subject, err := verify(c, token)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, http.StatusUnauthorized, nil, map[string]any{
					"status":  "failed",
					"message": "Token is invalid",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(AttachSubjectToContext(c, subject)))
		})
	}
}
