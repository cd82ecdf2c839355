package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cartCmd "github.com/Alturino/storefront/cart/cmd"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	orderCmd "github.com/Alturino/storefront/order/cmd"
	paymentCmd "github.com/Alturino/storefront/payment/cmd"
	productCmd "github.com/Alturino/storefront/product/cmd"
	searchCmd "github.com/Alturino/storefront/search/cmd"
	"github.com/Alturino/storefront/shop"
	themeCmd "github.com/Alturino/storefront/theme/cmd"
	userCmd "github.com/Alturino/storefront/user/cmd"
)

const DEFAULT_CONFIG_PATH = "env/storefront.yaml"

type app struct {
	configPath  string
	metricsAddr string

	shop          *shop.Shop
	otelShutdowns []otel.ShutdownFunc
	metricsServer *http.Server
}

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "storefront",
		Short:             "Browse, fill a cart and pay from the terminal",
		SilenceUsage:      true,
		PersistentPreRunE: a.start,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.stop(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", DEFAULT_CONFIG_PATH, "config file")
	rootCmd.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	shopFunc := func() *shop.Shop { return a.shop }
	rootCmd.AddCommand(
		productCmd.NewCommand(shopFunc),
		searchCmd.NewCommand(shopFunc),
		cartCmd.NewCommand(shopFunc),
		orderCmd.NewCommand(shopFunc),
		paymentCmd.NewCommand(shopFunc),
		themeCmd.NewCommand(shopFunc),
	)
	rootCmd.AddCommand(userCmd.NewCommands(shopFunc)...)

	err := rootCmd.ExecuteContext(c)
	// PersistentPostRunE is skipped when RunE fails.
	a.stop(c)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func (a *app) start(cmd *cobra.Command, args []string) error {
	c := cmd.Context()

	dir, filename := filepath.Split(a.configPath)
	if dir == "" {
		dir = "."
	}
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	cfg, err := config.Load(c, dir, filename)
	if err != nil {
		return err
	}

	logger := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT).
		Str(constants.KEY_TAG, "main Start").
		Str("command", cmd.CommandPath()).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	a.otelShutdowns, err = otel.InitOtelSdk(c, constants.APP_STOREFRONT, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing shop").Logger()
	logger.Info().Msg("initializing shop")
	a.shop, err = shop.New(c, cfg, shop.WithOutput(cmd.ErrOrStderr()))
	if err != nil {
		err = fmt.Errorf("failed initializing shop with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized shop")

	if a.metricsAddr == "" {
		a.metricsAddr = cfg.Metrics.Address
	}
	if a.metricsAddr != "" {
		a.serveMetrics(c)
	}

	cmd.SetContext(c)
	return nil
}

func (a *app) serveMetrics(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main serveMetrics").
		Str(constants.KEY_PROCESS, "serving metrics").
		Str("address", a.metricsAddr).
		Logger()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.shop.Registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{
		Addr:        a.metricsAddr,
		BaseContext: func(net.Listener) context.Context { return c },
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Msgf("start listening metrics at %s", a.metricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while metrics server is running", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown metrics server")
	}()
}

func (a *app) stop(c context.Context) error {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "main stop").Logger()

	var errs error
	if a.metricsServer != nil {
		logger.Info().Msg("shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed shutting down metrics server with error=%w", err))
		}
		a.metricsServer = nil
	}
	if a.shop != nil {
		logger.Info().Msg("closing shop")
		if err := a.shop.Close(c); err != nil {
			errs = errors.Join(errs, err)
		}
		a.shop = nil
	}
	if len(a.otelShutdowns) > 0 {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), a.otelShutdowns); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed shutting down otel with error=%w", err))
		}
		a.otelShutdowns = nil
	}
	if errs != nil {
		logger.Error().Err(errs).Msg(errs.Error())
	}
	return errs
}
