package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/otel"
)

const (
	KEY_TOKEN      = "jwtToken"
	KEY_USER       = "user"
	KEY_DARK_THEME = "darkTheme"
)

const (
	DRIVER_SQLITE = "sqlite"
	DRIVER_REDIS  = "redis"
	DRIVER_MEMORY = "memory"
)

// KeyValueStore persists small string values across runs. A missing key is reported through
// the boolean, never as an error.
type KeyValueStore interface {
	Get(c context.Context, key string) (string, bool, error)
	Set(c context.Context, key string, value string) error
	Delete(c context.Context, keys ...string) error
}

type Store interface {
	KeyValueStore
	io.Closer
}

// Open builds the store selected by cfg.Storage.Driver.
func Open(c context.Context, cfg *config.Config) (Store, error) {
	c, span := otel.Tracer.Start(c, "storage Open")
	defer span.End()

	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "storage Open").
		Str(constants.KEY_STORAGE_DRIVER, driver).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "opening storage").Logger()
	logger.Info().Msg("opening storage")
	var (
		store Store
		err   error
	)
	switch driver {
	case DRIVER_SQLITE, "":
		store, err = NewSQLiteStore(c, cfg.Storage.SqlitePath)
	case DRIVER_REDIS:
		cache, cacheErr := infra.NewCacheClient(c, cfg.Cache)
		if cacheErr != nil {
			err = cacheErr
			break
		}
		store = NewRedisStore(cache, cfg.Application.Name)
	case DRIVER_MEMORY:
		store = NewMemoryStore()
	default:
		err = fmt.Errorf("unknown storage driver=%s", driver)
	}
	if err != nil {
		err = fmt.Errorf("failed opening storage with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("opened storage")

	return store, nil
}
