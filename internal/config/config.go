package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/constants"
)

type Application struct {
	Env     string `mapstructure:"env"      json:"env"`
	Name    string `mapstructure:"name"     json:"name"`
	LogPath string `mapstructure:"log_path" json:"log_path"`
}

type Api struct {
	BaseURL        string        `mapstructure:"base_url"         json:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"          json:"timeout"`
	PageSize       int           `mapstructure:"page_size"        json:"page_size"`
	SearchPageSize int           `mapstructure:"search_page_size" json:"search_page_size"`
	Sort           string        `mapstructure:"sort"             json:"sort"`
}

type Storage struct {
	Driver     string `mapstructure:"driver"      json:"driver"`
	SqlitePath string `mapstructure:"sqlite_path" json:"sqlite_path"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
}

type Breaker struct {
	MaxRequests         uint32        `mapstructure:"max_requests"         json:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"             json:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"              json:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures" json:"consecutive_failures"`
}

type Metrics struct {
	Address string `mapstructure:"address" json:"address"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Api         `mapstructure:"api"         json:"api"`
	Storage     `mapstructure:"storage"     json:"storage"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Breaker     `mapstructure:"breaker"     json:"breaker"`
	Metrics     `mapstructure:"metrics"     json:"metrics"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.name", constants.APP_STOREFRONT)
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.page_size", constants.DEFAULT_PAGE_SIZE)
	v.SetDefault("api.search_page_size", constants.DEFAULT_PAGE_SIZE)
	v.SetDefault("api.sort", constants.DEFAULT_SORT)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "storefront.db")
	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", time.Minute)
	v.SetDefault("breaker.timeout", 30*time.Second)
	v.SetDefault("breaker.consecutive_failures", 5)
}

// Load reads <dir>/<filename>.yaml, letting STOREFRONT_* environment variables override it.
// A missing file is not an error, defaults apply.
func Load(c context.Context, dir string, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "config Load").
		Str("filename", filename).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "loading dotenv").Logger()
	logger.Trace().Msg("loading dotenv")
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading config").Logger()
	logger.Info().Msg("reading config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			err = fmt.Errorf("failed reading config with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("config file not found using defaults")
	}
	logger.Info().Msg("read config")

	logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		err = fmt.Errorf("failed unmarshaling config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	cfg.Api.BaseURL = strings.TrimRight(cfg.Api.BaseURL, "/")
	logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("unmarshaled config")

	return &cfg, nil
}

func InitConfig(c context.Context, dir string, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "main InitConfig").
			Logger()

		cfg, err := Load(c, dir, filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
	})
	return config
}
