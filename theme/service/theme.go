package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/theme/internal/otel"
)

// ThemeService keeps the dark theme preference, persisted under "darkTheme" as a JSON boolean.
type ThemeService struct {
	store storage.KeyValueStore

	mu   sync.Mutex
	dark bool
}

func NewThemeService(store storage.KeyValueStore) *ThemeService {
	return &ThemeService{store: store}
}

// Load reads the stored preference. A missing or unreadable value means light theme.
func (svc *ThemeService) Load(c context.Context) (bool, error) {
	c, span := otel.Tracer.Start(c, "ThemeService Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ThemeService Load").
		Str(constants.KEY_STORAGE_KEY, storage.KEY_DARK_THEME).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading theme").Logger()
	logger.Trace().Msg("reading theme")
	value, found, err := svc.store.Get(c, storage.KEY_DARK_THEME)
	if err != nil {
		err = fmt.Errorf("failed reading theme with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return svc.IsDark(), err
	}

	dark := false
	if found {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			logger.Warn().Err(err).Str("value", value).Msg("stored theme is not a boolean using light theme")
		}
		dark = parsed
	}

	svc.mu.Lock()
	svc.dark = dark
	svc.mu.Unlock()
	logger.Trace().Bool(constants.KEY_DARK_THEME, dark).Msg("read theme")

	return dark, nil
}

// Toggle flips the preference and persists it. A storage failure is logged, the in-memory
// value still flips.
func (svc *ThemeService) Toggle(c context.Context) bool {
	c, span := otel.Tracer.Start(c, "ThemeService Toggle")
	defer span.End()

	svc.mu.Lock()
	svc.dark = !svc.dark
	dark := svc.dark
	svc.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ThemeService Toggle").
		Bool(constants.KEY_DARK_THEME, dark).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "storing theme").Logger()
	logger.Trace().Msg("storing theme")
	if err := svc.store.Set(c, storage.KEY_DARK_THEME, strconv.FormatBool(dark)); err != nil {
		err = fmt.Errorf("failed storing theme with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return dark
	}
	logger.Trace().Msg("stored theme")

	return dark
}

func (svc *ThemeService) IsDark() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.dark
}
