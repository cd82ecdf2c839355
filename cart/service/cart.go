package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/repository"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/types"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/notification"
)

const (
	OPERATION_ADD    = "add"
	OPERATION_REMOVE = "remove"
	OPERATION_CLEAR  = "clear"
)

const (
	titleSuccess        = "Success"
	titleError          = "Error"
	titleAuthentication = "Authentication Required"
)

// TokenProvider returns the stored auth token, "" when nobody is logged in.
type TokenProvider interface {
	Token(c context.Context) (string, error)
}

type Option func(*CartStore)

func WithNotifier(n notification.Notifier) Option {
	return func(s *CartStore) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *CartStore) {
		s.metrics = m
	}
}

// CartStore mirrors the server cart. Local items only ever hold a snapshot the server
// confirmed, or the empty cart after a failed fetch.
type CartStore struct {
	repository repository.CartRepository
	tokens     TokenProvider
	notifier   notification.Notifier
	metrics    *metrics.Metrics

	mu        sync.Mutex
	items     response.CartItems
	sizes     map[types.ID]string
	fetching  int
	adding    bool
	removing  map[types.ID]bool
	clearing  bool
	lastError error
	// version is bumped by every applied snapshot, generation by Reset and Close.
	version    uint64
	generation uint64
	closed     bool

	subscribers    map[int]func(response.State)
	nextSubscriber int
	delivering     bool
	pending        bool
}

func NewCartStore(client *inHttp.Client, tokens TokenProvider, opts ...Option) *CartStore {
	s := &CartStore{
		repository:  repository.NewCartRepository(client),
		tokens:      tokens,
		notifier:    notification.LogNotifier{},
		items:       response.CartItems{},
		sizes:       map[types.ID]string{},
		removing:    map[types.ID]bool{},
		subscribers: map[int]func(response.State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchCart replaces the local items with the server cart. Without a token the cart is
// empty and no request is sent. Any failure also leaves the cart empty.
func (s *CartStore) FetchCart(c context.Context) error {
	return s.fetch(c, false)
}

func (s *CartStore) fetch(c context.Context, reconcile bool) error {
	c, span := otel.Tracer.Start(
		c,
		"CartStore FetchCart",
		trace.WithAttributes(attribute.Bool("reconcile", reconcile)),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartStore FetchCart").
		Bool("reconcile", reconcile).
		Logger()

	s.mu.Lock()
	if s.closed || (s.fetching > 0 && !reconcile) {
		s.mu.Unlock()
		logger.Debug().Msg("fetch already in flight")
		return nil
	}
	s.fetching++
	generation, version := s.generation, s.version
	s.mu.Unlock()
	s.publish()

	logger = logger.With().
		Uint64(constants.KEY_CART_GENERATION, generation).
		Str(constants.KEY_PROCESS, "reading token").
		Logger()
	token, err := s.tokens.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.finishFetch(c, generation, version, response.CartItems{}, err)
		return err
	}
	if token == "" {
		logger.Info().Msg("no token found cart is empty")
		span.AddEvent("no token found cart is empty")
		s.finishFetch(c, generation, version, response.CartItems{}, nil)
		return nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	items, err := s.repository.FindCart(logger.WithContext(c), token)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.finishFetch(c, generation, version, response.CartItems{}, err)
		return err
	}
	logger.Info().Array(constants.KEY_CART_ITEMS, items).Msg("found cart")

	s.finishFetch(c, generation, version, items, nil)
	return nil
}

func (s *CartStore) finishFetch(
	c context.Context,
	generation uint64,
	version uint64,
	items response.CartItems,
	err error,
) {
	s.mu.Lock()
	s.fetching--
	if s.closed {
		s.mu.Unlock()
		return
	}
	if generation != s.generation || version != s.version {
		s.mu.Unlock()
		s.publish()
		zerolog.Ctx(c).Info().Str(constants.KEY_TAG, "CartStore FetchCart").Msg("discarded stale cart")
		return
	}
	s.applyLocked(items)
	s.lastError = err
	s.mu.Unlock()
	s.publish()
}

// AddItem posts productID and quantity. The returned cart replaces the local items. size is
// remembered locally for the product since the api does not store it.
func (s *CartStore) AddItem(c context.Context, productID types.ID, quantity int, size string) error {
	param := request.AddItem{ProductID: productID, Quantity: quantity, Size: size}

	c, span := otel.Tracer.Start(c, "CartStore AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartStore AddItem").
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating add item request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("validated request")

	token, err := s.requireToken(c, "Please log in to add items to cart.")
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.adding {
		s.mu.Unlock()
		err = fmt.Errorf("failed adding item with error=%w", inErrors.ErrOperationInFlight)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	s.adding = true
	generation := s.generation
	s.mu.Unlock()
	s.publish()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart item").Logger()
	logger.Info().Msg("inserting cart item")
	items, err := s.repository.InsertCartItem(logger.WithContext(c), token, param)

	s.mu.Lock()
	s.adding = false
	s.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("failed inserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.mutationFailed(c, OPERATION_ADD, generation, err, "Failed to add item to cart. Please try again.")
	}
	logger.Info().Array(constants.KEY_CART_ITEMS, items).Msg("inserted cart item")

	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		logger.Info().Msg("discarded stale cart")
		return nil
	}
	if size != "" {
		s.sizes[productID] = size
	}
	s.applyLocked(items)
	s.lastError = nil
	s.mu.Unlock()
	s.publish()

	s.notifier.Notify(c, notification.Success(titleSuccess, "Item added to cart!"))
	return nil
}

// RemoveItem deletes every line of productID. Local items change only after the server
// confirms the removal.
func (s *CartStore) RemoveItem(c context.Context, productID types.ID) error {
	param := request.RemoveItem{ProductID: productID}

	c, span := otel.Tracer.Start(
		c,
		"CartStore RemoveItem",
		trace.WithAttributes(attribute.String(constants.KEY_PRODUCT_ID, productID.String())),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartStore RemoveItem").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating remove item request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	token, err := s.requireToken(c, "Please log in to remove items from cart.")
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.removing[productID] {
		s.mu.Unlock()
		err = fmt.Errorf("failed removing item with error=%w", inErrors.ErrOperationInFlight)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	s.removing[productID] = true
	generation := s.generation
	s.mu.Unlock()
	s.publish()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	err = s.repository.RemoveCartItem(logger.WithContext(c), token, productID)

	s.mu.Lock()
	delete(s.removing, productID)
	s.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.mutationFailed(c, OPERATION_REMOVE, generation, err, "Failed to remove item. Please try again.")
	}
	logger.Info().Msg("removed cart item")

	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		logger.Info().Msg("discarded stale removal")
		return nil
	}
	remaining := make(response.CartItems, 0, len(s.items))
	for _, item := range s.items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}
	delete(s.sizes, productID)
	s.applyLocked(remaining)
	s.lastError = nil
	s.mu.Unlock()
	s.publish()

	s.notifier.Notify(c, notification.Success(titleSuccess, "Item removed from cart!"))
	return nil
}

// ClearCart deletes the whole cart. Without a token the local cart is emptied and
// ErrUnauthenticated is returned without any request.
func (s *CartStore) ClearCart(c context.Context) error {
	c, span := otel.Tracer.Start(c, "CartStore ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartStore ClearCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading token").Logger()
	token, err := s.tokens.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if token == "" {
		err = fmt.Errorf("failed clearing cart with error=%w", inErrors.ErrUnauthenticated)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.mu.Lock()
		if !s.closed {
			clear(s.sizes)
			s.applyLocked(response.CartItems{})
		}
		s.mu.Unlock()
		s.publish()
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.clearing {
		s.mu.Unlock()
		err = fmt.Errorf("failed clearing cart with error=%w", inErrors.ErrOperationInFlight)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	s.clearing = true
	generation := s.generation
	s.mu.Unlock()
	s.publish()

	logger = logger.With().Str(constants.KEY_PROCESS, "removing cart").Logger()
	logger.Info().Msg("removing cart")
	err = s.repository.RemoveCart(logger.WithContext(c), token)

	s.mu.Lock()
	s.clearing = false
	s.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("failed removing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return s.mutationFailed(c, OPERATION_CLEAR, generation, err, "Failed to clear cart. Please try again.")
	}
	logger.Info().Msg("removed cart")

	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return nil
	}
	clear(s.sizes)
	s.applyLocked(response.CartItems{})
	s.lastError = nil
	s.mu.Unlock()
	s.publish()

	s.notifier.Notify(c, notification.Success(titleSuccess, "Cart cleared!"))
	return nil
}

func (s *CartStore) requireToken(c context.Context, message string) (string, error) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "reading token").Logger()
	token, err := s.tokens.Token(c)
	if err != nil {
		return "", fmt.Errorf("failed reading token with error=%w", err)
	}
	if token == "" {
		logger.Warn().Msg("no token found")
		s.notifier.Notify(c, notification.Failure(titleAuthentication, message))
		s.mu.Lock()
		s.lastError = inErrors.ErrUnauthenticated
		s.mu.Unlock()
		s.publish()
		return "", inErrors.ErrUnauthenticated
	}
	return token, nil
}

// mutationFailed notifies the user and reconciles with the server. The mutation itself is
// never retried.
func (s *CartStore) mutationFailed(
	c context.Context,
	operation string,
	generation uint64,
	err error,
	fallback string,
) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "reconciling cart").
		Str("operation", operation).
		Logger()

	message := fallback
	if errors.Is(err, inErrors.ErrServerRejected) {
		message = inErrors.Message(err)
	}
	s.notifier.Notify(c, notification.Failure(titleError, message))

	s.metrics.IncReconciliation(operation)
	logger.Info().Msg("reconciling cart")
	if reconcileErr := s.fetch(logger.WithContext(c), true); reconcileErr != nil {
		reconcileErr = fmt.Errorf("failed reconciling cart with error=%w", reconcileErr)
		logger.Error().Err(reconcileErr).Msg(reconcileErr.Error())
		err = errors.Join(err, reconcileErr)
	} else {
		logger.Info().Msg("reconciled cart")
	}

	s.mu.Lock()
	if !s.closed && generation == s.generation {
		s.lastError = err
	}
	s.mu.Unlock()
	s.publish()
	return err
}

func (s *CartStore) applyLocked(items response.CartItems) {
	applied := make(response.CartItems, 0, len(items))
	present := map[types.ID]bool{}
	for _, item := range items {
		item.Size = s.sizes[item.ProductID]
		present[item.ProductID] = true
		applied = append(applied, item)
	}
	for productID := range s.sizes {
		if !present[productID] {
			delete(s.sizes, productID)
		}
	}
	s.items = applied
	s.version++
}

func (s *CartStore) stateLocked() response.State {
	return response.State{
		Items:     append(make(response.CartItems, 0, len(s.items)), s.items...),
		Loading:   s.loadingLocked(),
		LastError: s.lastError,
	}
}

func (s *CartStore) loadingLocked() bool {
	return s.fetching > 0 || s.adding || s.clearing || len(s.removing) > 0
}

func (s *CartStore) State() response.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *CartStore) Items() response.CartItems {
	return s.State().Items
}

// Count is the number of cart lines.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the server computed line subtotals.
func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Total()
}

func (s *CartStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingLocked()
}

func (s *CartStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Subscribe registers fn to receive state changes in order. Changes made while a delivery
// runs reach fn as the latest state. The returned func unregisters it.
func (s *CartStore) Subscribe(fn func(response.State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// publish hands the current state to subscribers. One caller delivers at a time and keeps
// going while others mark the state dirty, so subscribers never see an older state after a
// newer one.
func (s *CartStore) publish() {
	s.mu.Lock()
	s.pending = true
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for s.pending {
		s.pending = false
		state := s.stateLocked()
		subscribers := make([]func(response.State), 0, len(s.subscribers))
		for _, fn := range s.subscribers {
			subscribers = append(subscribers, fn)
		}
		s.mu.Unlock()

		for _, fn := range subscribers {
			fn(state)
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// Reset empties the cart after logout. Responses still in flight are discarded.
func (s *CartStore) Reset(c context.Context) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartStore Reset").Logger()

	s.mu.Lock()
	s.generation++
	clear(s.sizes)
	s.applyLocked(response.CartItems{})
	s.lastError = nil
	generation := s.generation
	s.mu.Unlock()
	s.publish()

	logger.Info().Uint64(constants.KEY_CART_GENERATION, generation).Msg("reset cart")
}

// Close discards in-flight results and turns every later call into a no-op.
func (s *CartStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	clear(s.subscribers)
}
