package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/internal/repository"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

// AuthService owns the stored session: the token under "jwtToken" and the user JSON under "user".
type AuthService struct {
	repository repository.AuthRepository
	store      storage.KeyValueStore

	mu          sync.Mutex
	logoutHooks []func(context.Context)
}

func NewAuthService(client *inHttp.Client, store storage.KeyValueStore) *AuthService {
	return &AuthService{
		repository: repository.NewAuthRepository(client),
		store:      store,
	}
}

// OnLogout registers fn to run after every logout, including a forced one on session expiry.
func (svc *AuthService) OnLogout(fn func(context.Context)) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.logoutHooks = append(svc.logoutHooks, fn)
}

func (svc *AuthService) Login(c context.Context, param request.Login) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "AuthService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthService Login").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Object(constants.KEY_REQUEST, param).Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating login request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "logging in").Logger()
	logger.Info().Msg("logging in")
	body, err := svc.repository.Login(logger.WithContext(c), param)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	user := body.User()
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Info().Msg("logged in")

	logger = logger.With().Str(constants.KEY_PROCESS, "storing session").Logger()
	logger.Info().Msg("storing session")
	userJson, err := json.Marshal(user)
	if err != nil {
		err = fmt.Errorf("failed encoding user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if err := svc.store.Set(c, storage.KEY_TOKEN, body.Token()); err != nil {
		err = fmt.Errorf("failed storing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if err := svc.store.Set(c, storage.KEY_USER, string(userJson)); err != nil {
		err = fmt.Errorf("failed storing user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if delErr := svc.store.Delete(c, storage.KEY_TOKEN); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return response.Session{}, err
	}
	logger.Info().Msg("stored session")

	return decorate(c, body.Token(), &user), nil
}

func (svc *AuthService) Signup(c context.Context, param request.Signup) (response.Signup, error) {
	c, span := otel.Tracer.Start(c, "AuthService Signup")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthService Signup").
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating signup request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Signup{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "signing up").Logger()
	logger.Info().Msg("signing up")
	body, err := svc.repository.Signup(logger.WithContext(c), param)
	if err != nil {
		err = fmt.Errorf("failed signing up with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Signup{}, err
	}
	logger.Info().Msg("signed up")

	return body.Response(), nil
}

// Logout removes the stored session and runs the logout hooks even when storage fails.
func (svc *AuthService) Logout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "AuthService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthService Logout").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing session").Logger()
	logger.Info().Msg("removing session")
	err := svc.store.Delete(c, storage.KEY_TOKEN, storage.KEY_USER)
	if err != nil {
		err = fmt.Errorf("failed removing session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("removed session")
	}

	svc.mu.Lock()
	hooks := append([]func(context.Context){}, svc.logoutHooks...)
	svc.mu.Unlock()
	logger = logger.With().Str(constants.KEY_PROCESS, "running logout hooks").Logger()
	logger.Trace().Int("hooks", len(hooks)).Msg("running logout hooks")
	for _, hook := range hooks {
		hook(logger.WithContext(c))
	}
	logger.Trace().Msg("ran logout hooks")

	return err
}

// Status reads the stored session. It is authenticated only when both token and user exist.
func (svc *AuthService) Status(c context.Context) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "AuthService Status")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthService Status").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading session").Logger()
	token, tokenFound, err := svc.store.Get(c, storage.KEY_TOKEN)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	userJson, userFound, err := svc.store.Get(c, storage.KEY_USER)
	if err != nil {
		err = fmt.Errorf("failed reading user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if !tokenFound || !userFound || token == "" {
		logger.Trace().Msg("no session stored")
		return response.Session{}, nil
	}

	user := response.User{}
	if err := json.Unmarshal([]byte(userJson), &user); err != nil {
		logger.Warn().Err(err).Msg("failed decoding stored user treating as logged out")
		return response.Session{}, nil
	}
	logger.Trace().Str(constants.KEY_USER_ID, user.ID.String()).Msg("read session")

	return decorate(c, token, &user), nil
}

// Token returns the stored token, "" when nobody is logged in.
func (svc *AuthService) Token(c context.Context) (string, error) {
	token, _, err := svc.store.Get(c, storage.KEY_TOKEN)
	if err != nil {
		return "", fmt.Errorf("failed reading token with error=%w", err)
	}
	return token, nil
}

// Profile fetches the logged in user. A 401 or 403 logs the session out and reports it expired.
func (svc *AuthService) Profile(c context.Context) (response.User, error) {
	c, span := otel.Tracer.Start(c, "AuthService Profile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AuthService Profile").
		Logger()

	session, err := svc.Status(c)
	if err != nil {
		err = fmt.Errorf("failed reading session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	userID := session.Subject
	if session.User != nil && !session.User.ID.IsZero() {
		userID = session.User.ID.String()
	}
	if !session.IsAuthenticated || userID == "" {
		err = fmt.Errorf("failed finding profile with error=%w", inErrors.ErrUnauthenticated)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "finding profile").
		Str(constants.KEY_USER_ID, userID).
		Logger()
	logger.Info().Msg("finding profile")
	user, err := svc.repository.FindUserById(logger.WithContext(c), session.Token, userID)
	if err != nil {
		status := inErrors.StatusCode(err)
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			err = fmt.Errorf("%w: %w: %w", inErrors.ErrSessionExpired, inErrors.ErrUnauthenticated, err)
			if logoutErr := svc.Logout(c); logoutErr != nil {
				err = errors.Join(err, logoutErr)
			}
		} else {
			err = fmt.Errorf("failed finding profile with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("found profile")

	return user, nil
}

func decorate(c context.Context, token string, user *response.User) response.Session {
	session := response.Session{Token: token, User: user, IsAuthenticated: true}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		zerolog.Ctx(c).Trace().Err(err).Msg("token is not a decodable jwt")
		return session
	}
	session.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session
}
