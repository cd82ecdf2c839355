// Package shop assembles the storefront services around one api client and one store.
package shop

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	cartService "github.com/Alturino/storefront/cart/service"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/storage"
	"github.com/Alturino/storefront/notification"
	orderService "github.com/Alturino/storefront/order/service"
	paymentService "github.com/Alturino/storefront/payment/service"
	productService "github.com/Alturino/storefront/product/service"
	searchService "github.com/Alturino/storefront/search/service"
	themeService "github.com/Alturino/storefront/theme/service"
	userService "github.com/Alturino/storefront/user/service"
)

type Shop struct {
	Config   *config.Config
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Store    storage.Store
	Client   *inHttp.Client
	Notifier notification.Notifier

	Auth     *userService.AuthService
	Cart     *cartService.CartStore
	Products *productService.ProductService
	Search   *searchService.SearchService
	Checkout *orderService.CheckoutService
	Payment  *paymentService.PaymentService
	Theme    *themeService.ThemeService
}

type Option func(*options)

type options struct {
	store    storage.Store
	output   io.Writer
	registry *prometheus.Registry
}

// WithStore uses store instead of the one selected by the storage config.
func WithStore(store storage.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithOutput prints notices to w in addition to the log.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

func New(c context.Context, cfg *config.Config, opts ...Option) (*Shop, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "shop New").
		Logger()
	c = logger.WithContext(c)

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	s := &Shop{Config: cfg, Registry: o.registry, Metrics: metrics.New(o.registry)}

	logger = logger.With().Str(constants.KEY_PROCESS, "opening storage").Logger()
	logger.Info().Msg("opening storage")
	s.Store = o.store
	if s.Store == nil {
		store, err := storage.Open(c, cfg)
		if err != nil {
			err = fmt.Errorf("failed opening storage with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		s.Store = store
	}
	logger.Info().Msg("opened storage")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing api client").Logger()
	logger.Info().Str(constants.KEY_BASE_URL, cfg.Api.BaseURL).Msg("initializing api client")
	s.Client = inHttp.NewClient(
		cfg.Api.BaseURL,
		cfg.Api.Timeout,
		inHttp.WithTransport(middleware.Logging(http.DefaultTransport)),
		inHttp.WithBreaker(cfg.Breaker),
		inHttp.WithMetrics(s.Metrics),
	)
	logger.Info().Msg("initialized api client")

	notifiers := notification.Multi{notification.LogNotifier{}}
	if o.output != nil {
		notifiers = append(notifiers, notification.NewWriterNotifier(o.output))
	}
	s.Notifier = notifiers

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	s.Auth = userService.NewAuthService(s.Client, s.Store)
	s.Cart = cartService.NewCartStore(
		s.Client,
		s.Auth,
		cartService.WithNotifier(s.Notifier),
		cartService.WithMetrics(s.Metrics),
	)
	s.Auth.OnLogout(s.Cart.Reset)
	s.Products = productService.NewProductService(s.Client, s.Metrics, cfg.Api.PageSize, cfg.Api.Sort)
	s.Search = searchService.NewSearchService(s.Client, s.Auth, s.Metrics, cfg.Api.SearchPageSize, cfg.Api.Sort)
	s.Checkout = orderService.NewCheckoutService(s.Client, s.Cart, s.Auth, s.Notifier)
	s.Payment = paymentService.NewPaymentService(s.Client, s.Auth, s.Cart, s.Notifier, s.Metrics)
	s.Theme = themeService.NewThemeService(s.Store)
	logger.Info().Msg("initialized services")

	return s, nil
}

// Close stops the cart and releases the store.
func (s *Shop) Close(c context.Context) error {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "shop Close").Logger()

	s.Cart.Close()
	if err := s.Store.Close(); err != nil {
		err = fmt.Errorf("failed closing storage with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("closed shop")
	return nil
}
