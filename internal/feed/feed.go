package feed

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoadingFirst
	StatusLoadingNext
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoadingFirst:
		return "loading_first"
	case StatusLoadingNext:
		return "loading_next"
	case StatusError:
		return "error"
	}
	return "idle"
}

// Params is the filter set a feed is configured with. Any difference resets the feed.
type Params struct {
	Category    string
	Subcategory string
	Query       string
	Filters     map[string]string
}

func (p Params) Equal(other Params) bool {
	return p.Category == other.Category &&
		p.Subcategory == other.Subcategory &&
		p.Query == other.Query &&
		maps.Equal(p.Filters, other.Filters)
}

func (p Params) MarshalZerologObject(e *zerolog.Event) {
	e.Str("category", p.Category).
		Str("subcategory", p.Subcategory).
		Str("query", p.Query).
		Any("filters", p.Filters)
}

type PageRequest struct {
	Params
	Page int
	Size int
	Sort string
}

type Page[T any] struct {
	Items []T
	Last  bool
}

type FetchFunc[T any] func(c context.Context, req PageRequest) (Page[T], error)

// State is a snapshot of a feed. Items is a copy and safe to keep.
type State[T any] struct {
	Items              []T
	CurrentPage        int
	HasMore            bool
	IsLoadingFirstPage bool
	IsLoadingNextPage  bool
	LastError          error
	Status             Status
	Params             Params
	Loaded             bool
}

// IsEmpty reports a loaded feed without results and without error.
func (s State[T]) IsEmpty() bool {
	return s.Loaded && s.Status == StatusIdle && len(s.Items) == 0
}

type Option func(*options)

type options struct {
	name     string
	pageSize int
	sort     string
	metrics  *metrics.Metrics
}

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

func WithSort(sort string) Option {
	return func(o *options) {
		if sort != "" {
			o.sort = sort
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Feed accumulates pages of T for one filter configuration. Every reset, reconfiguration and
// Close bumps the generation, responses of an older generation are dropped.
type Feed[T any] struct {
	opts  options
	fetch FetchFunc[T]

	mu           sync.Mutex
	params       Params
	configured   bool
	items        []T
	currentPage  int
	hasMore      bool
	loaded       bool
	loadingFirst bool
	loadingNext  bool
	lastError    error
	generation   uint64
	closed       bool

	subscribers    map[int]func(State[T])
	nextSubscriber int
	delivering     bool
	pending        bool
}

func New[T any](fetch FetchFunc[T], opts ...Option) *Feed[T] {
	o := options{
		name:     constants.APP_FEED,
		pageSize: constants.DEFAULT_PAGE_SIZE,
		sort:     constants.DEFAULT_SORT,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Feed[T]{
		opts:        o,
		fetch:       fetch,
		items:       []T{},
		hasMore:     true,
		subscribers: map[int]func(State[T]){},
	}
}

func (f *Feed[T]) Name() string {
	return f.opts.name
}

// Configure applies params. Unchanged params on a configured feed are a no-op, anything else
// clears the accumulated items and loads page 0.
func (f *Feed[T]) Configure(c context.Context, params Params) error {
	f.mu.Lock()
	if f.closed || (f.configured && f.params.Equal(params)) {
		f.mu.Unlock()
		return nil
	}
	f.params = Params{
		Category:    params.Category,
		Subcategory: params.Subcategory,
		Query:       params.Query,
		Filters:     maps.Clone(params.Filters),
	}
	f.configured = true
	f.resetLocked()
	f.mu.Unlock()

	return f.LoadFirstPage(c)
}

// Clear resets the feed to an empty, unloaded session without fetching.
func (f *Feed[T]) Clear(params Params) {
	f.mu.Lock()
	f.params = Params{
		Category:    params.Category,
		Subcategory: params.Subcategory,
		Query:       params.Query,
		Filters:     maps.Clone(params.Filters),
	}
	f.configured = false
	f.resetLocked()
	f.mu.Unlock()

	f.publish()
}

func (f *Feed[T]) resetLocked() {
	f.generation++
	f.items = []T{}
	f.currentPage = 0
	f.hasMore = true
	f.loaded = false
	f.loadingFirst = false
	f.loadingNext = false
	f.lastError = nil
}

// LoadFirstPage fetches page 0 and replaces the accumulated items on success. On failure the
// previous items are kept, LastError is set and HasMore becomes false.
func (f *Feed[T]) LoadFirstPage(c context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.generation++
	generation := f.generation
	f.loadingFirst = true
	f.loadingNext = false
	f.lastError = nil
	req := f.requestLocked(0)
	f.mu.Unlock()
	f.publish()

	return f.load(c, generation, req, true)
}

// LoadNextPage appends page currentPage+1. It does nothing while a load is in flight, when
// HasMore is false or before the first page was applied.
func (f *Feed[T]) LoadNextPage(c context.Context) error {
	f.mu.Lock()
	if f.closed || f.loadingFirst || f.loadingNext || !f.hasMore || !f.loaded {
		f.mu.Unlock()
		return nil
	}
	f.loadingNext = true
	f.lastError = nil
	generation := f.generation
	req := f.requestLocked(f.currentPage + 1)
	f.mu.Unlock()
	f.publish()

	return f.load(c, generation, req, false)
}

// Retry re-issues the first page with the current params.
func (f *Feed[T]) Retry(c context.Context) error {
	return f.LoadFirstPage(c)
}

func (f *Feed[T]) load(c context.Context, generation uint64, req PageRequest, first bool) error {
	kind := "next"
	if first {
		kind = "first"
	}
	c, span := otel.Tracer.Start(
		c,
		fmt.Sprintf("Feed %s load %s page", f.opts.name, kind),
		trace.WithAttributes(
			attribute.String(constants.KEY_FEED_NAME, f.opts.name),
			attribute.Int(constants.KEY_FEED_PAGE, req.Page),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Feed load").
		Str(constants.KEY_FEED_NAME, f.opts.name).
		Int(constants.KEY_FEED_PAGE, req.Page).
		Uint64(constants.KEY_FEED_GENERATION, generation).
		Object(constants.KEY_FEED_PARAMS, req.Params).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "fetching page").Logger()
	logger.Info().Msgf("fetching %s page", kind)
	page, err := f.fetch(c, req)

	f.mu.Lock()
	if f.closed || generation != f.generation {
		f.mu.Unlock()
		span.AddEvent("discarded stale page")
		logger.Info().Msg("discarded stale page")
		return nil
	}
	if first {
		f.loadingFirst = false
	} else {
		f.loadingNext = false
	}
	if err != nil {
		err = fmt.Errorf("failed fetching page=%d of feed=%s with error=%w", req.Page, f.opts.name, err)
		f.lastError = err
		f.hasMore = false
		f.mu.Unlock()
		f.publish()

		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	if first {
		f.items = append(make([]T, 0, len(items)), items...)
	} else {
		f.items = append(f.items, items...)
	}
	f.currentPage = req.Page
	f.hasMore = !page.Last
	f.loaded = true
	f.lastError = nil
	f.mu.Unlock()
	f.publish()

	f.opts.metrics.IncFeedPage(f.opts.name, kind)
	logger.Info().
		Int(constants.KEY_PRODUCTS_COUNT, len(items)).
		Bool("last", page.Last).
		Msgf("fetched %s page", kind)
	return nil
}

func (f *Feed[T]) requestLocked(page int) PageRequest {
	return PageRequest{
		Params: f.params,
		Page:   page,
		Size:   f.opts.pageSize,
		Sort:   f.opts.sort,
	}
}

func (f *Feed[T]) stateLocked() State[T] {
	status := StatusIdle
	switch {
	case f.loadingFirst:
		status = StatusLoadingFirst
	case f.loadingNext:
		status = StatusLoadingNext
	case f.lastError != nil:
		status = StatusError
	}
	return State[T]{
		Items:              append(make([]T, 0, len(f.items)), f.items...),
		CurrentPage:        f.currentPage,
		HasMore:            f.hasMore,
		IsLoadingFirstPage: f.loadingFirst,
		IsLoadingNextPage:  f.loadingNext,
		LastError:          f.lastError,
		Status:             status,
		Params:             f.params,
		Loaded:             f.loaded,
	}
}

func (f *Feed[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Subscribe registers fn to receive state changes in order. Changes made while a delivery
// runs reach fn as the latest state. The returned func unregisters it.
func (f *Feed[T]) Subscribe(fn func(State[T])) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSubscriber
	f.nextSubscriber++
	f.subscribers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

// publish hands the current state to subscribers. One caller delivers at a time and keeps
// going while others mark the state dirty, so subscribers see states in order and may call
// back into the feed.
func (f *Feed[T]) publish() {
	f.mu.Lock()
	f.pending = true
	if f.delivering {
		f.mu.Unlock()
		return
	}
	f.delivering = true
	for f.pending {
		f.pending = false
		state := f.stateLocked()
		subscribers := make([]func(State[T]), 0, len(f.subscribers))
		for _, fn := range f.subscribers {
			subscribers = append(subscribers, fn)
		}
		f.mu.Unlock()

		for _, fn := range subscribers {
			fn(state)
		}
		f.mu.Lock()
	}
	f.delivering = false
	f.mu.Unlock()
}

// Close drops in-flight results and turns every later call into a no-op.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.generation++
	f.loadingFirst = false
	f.loadingNext = false
	clear(f.subscribers)
}
