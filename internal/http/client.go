package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
)

// Request describes one call against the storefront api. Path is relative to the /api prefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
	// Endpoint labels the call in metrics and spans, defaults to Path.
	Endpoint string
}

func (r Request) endpoint() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return r.Path
}

type response struct {
	statusCode int
	body       []byte
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type validator interface {
	Validate() error
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[response]
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) {
		if h != nil {
			cl.http = h
		}
	}
}

// WithTransport wraps rt with otel instrumentation and uses it for every request.
func WithTransport(rt http.RoundTripper) Option {
	return func(cl *Client) {
		if rt != nil {
			cl.http.Transport = otelhttp.NewTransport(rt)
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

func WithBreaker(cfg config.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = newBreaker(cfg)
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	cl := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: newBreaker(config.Breaker{}),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

func newBreaker(cfg config.Breaker) *gobreaker.CircuitBreaker[response] {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:        constants.APP_HTTP_CLIENT,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return !errors.Is(err, inErrors.ErrNetworkFailure)
		},
	})
}

func (cl *Client) BaseURL() string {
	return cl.baseURL
}

// Do sends req and decodes a 2xx body into out. A nil out discards the body. When out
// implements Validate, it is called after decoding, a body that signals failure inside a 2xx
// response may report it as a server rejection.
func (cl *Client) Do(c context.Context, req Request, out any) error {
	c, requestID := log.EnsureRequestID(c)
	c, span := otel.Tracer.Start(
		c,
		fmt.Sprintf("Client Do %s %s", req.Method, req.endpoint()),
		trace.WithAttributes(
			attribute.String(constants.KEY_REQUEST_ID, requestID),
			attribute.String(constants.KEY_REQUEST_METHOD, req.Method),
			attribute.String(constants.KEY_REQUEST_PATH, req.Path),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Client Do").
		Str(constants.KEY_REQUEST_METHOD, req.Method).
		Str(constants.KEY_REQUEST_PATH, req.Path).
		Bool(constants.KEY_TOKEN_PRESENT, req.Token != "").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "sending request").Logger()
	logger.Debug().Msg("sending request")
	start := time.Now()
	resp, err := cl.breaker.Execute(func() (response, error) {
		return cl.send(c, req, requestID)
	})
	elapsed := time.Since(start)
	if err != nil {
		outcome := OUTCOME_NETWORK
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = OUTCOME_BREAKER_OPENED
			err = fmt.Errorf("%w: failed sending request with error=%w", inErrors.ErrNetworkFailure, err)
		case errors.Is(err, inErrors.ErrServerRejected):
			outcome = OUTCOME_REJECTED
		}
		cl.metrics.ObserveRequest(req.endpoint(), req.Method, outcome, elapsed)
		otel.RecordError(err, span)
		logger.Error().Err(err).Dur(constants.KEY_ELAPSED, elapsed).Msg(err.Error())
		return err
	}
	span.SetAttributes(attribute.Int(constants.KEY_RESPONSE_STATUS, resp.statusCode))
	logger.Debug().
		Int(constants.KEY_RESPONSE_STATUS, resp.statusCode).
		Dur(constants.KEY_ELAPSED, elapsed).
		Msg("sent request")

	if out == nil {
		cl.metrics.ObserveRequest(req.endpoint(), req.Method, OUTCOME_SUCCESS, elapsed)
		return nil
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding response").Logger()
	logger.Trace().Msg("decoding response")
	if err := decode(resp.body, out); err != nil {
		outcome := OUTCOME_UNEXPECTED
		if errors.Is(err, inErrors.ErrServerRejected) {
			outcome = OUTCOME_REJECTED
		}
		cl.metrics.ObserveRequest(req.endpoint(), req.Method, outcome, elapsed)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	cl.metrics.ObserveRequest(req.endpoint(), req.Method, OUTCOME_SUCCESS, elapsed)
	logger.Trace().Msg("decoded response")

	return nil
}

func (cl *Client) send(c context.Context, req Request, requestID string) (response, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return response{}, fmt.Errorf("failed encoding request body with error=%w", err)
		}
		body = bytes.NewReader(payload)
	}

	target := cl.baseURL + PATH_API_PREFIX + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(c, req.Method, target, body)
	if err != nil {
		return response{}, fmt.Errorf("failed creating request with error=%w", err)
	}
	httpReq.Header.Set(KEY_HEADER_ACCEPT, VALUE_HEADER_APPLICATION_JSON)
	httpReq.Header.Set(KEY_HEADER_REQUEST_ID, requestID)
	if body != nil {
		httpReq.Header.Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	}
	if req.Token != "" {
		httpReq.Header.Set(KEY_HEADER_AUTHORIZATION, VALUE_BEARER_PREFIX+req.Token)
	}

	httpResp, err := cl.http.Do(httpReq)
	if err != nil {
		return response{}, fmt.Errorf("%w: failed sending request with error=%w", inErrors.ErrNetworkFailure, err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return response{}, fmt.Errorf("%w: failed reading response body with error=%w", inErrors.ErrNetworkFailure, err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return response{}, inErrors.NewServerRejected(httpResp.StatusCode, rejectionMessage(payload))
	}
	return response{statusCode: httpResp.StatusCode, body: payload}, nil
}

func rejectionMessage(payload []byte) string {
	body := errorBody{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func decode(payload []byte, out any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return fmt.Errorf("%w: empty response body", inErrors.ErrUnexpectedShape)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: failed decoding response with error=%w", inErrors.ErrUnexpectedShape, err)
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			if !errors.Is(err, inErrors.ErrUnexpectedShape) && !errors.Is(err, inErrors.ErrServerRejected) {
				err = fmt.Errorf("%w: %w", inErrors.ErrUnexpectedShape, err)
			}
			return err
		}
	}
	return nil
}
