// Package fakeapi is an in-process storefront backend used by the service tests.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/types"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

const (
	ROUTE_FIND_PRODUCTS     = "GET /api/products"
	ROUTE_FIND_PRODUCT      = "GET /api/products/{id}"
	ROUTE_SEARCH_PRODUCTS   = "GET /api/search/products"
	ROUTE_RECENT_SEARCHES   = "GET /api/search/recent"
	ROUTE_FIND_CART         = "GET /api/carts"
	ROUTE_INSERT_CART_ITEM  = "POST /api/carts/items"
	ROUTE_REMOVE_CART_ITEM  = "DELETE /api/carts/items/{productId}"
	ROUTE_REMOVE_CART       = "DELETE /api/carts"
	ROUTE_LOGIN             = "POST /api/auth/login"
	ROUTE_SIGNUP            = "POST /api/auth/signup"
	ROUTE_FIND_USER         = "GET /api/users/{id}"
	ROUTE_INSERT_ORDER      = "POST /api/orders"
	ROUTE_INITIATE_MOMO     = "POST /api/payments/mobile-money/initiate"
	DEFAULT_SECRET          = "storefront-fake-secret"
	DEFAULT_PAYMENT_STATUS  = "pay_offline"
	DEFAULT_PAYMENT_DISPLAY = "Please complete authorization on your phone."
	defaultClientTimeout    = 5 * time.Second
)

type override struct {
	statusCode int
	body       string
	disconnect bool
}

// Server is a storefront backend on a loopback listener. Routes are addressed in hooks by
// "METHOD /api/path-template", see the ROUTE_ constants.
type Server struct {
	*httptest.Server
	secret []byte

	mu            sync.Mutex
	calls         map[string]int
	overrides     map[string]override
	gates         map[string]*Gate
	products      []productResponse.Product
	users         map[string]*user
	carts         map[string]*cart
	orders        []order
	payments      []Payment
	recent        map[string][]string
	paymentStatus string
	paymentText   string
	nextID        int
}

func New() *Server {
	s := &Server{
		secret:        []byte(DEFAULT_SECRET),
		calls:         map[string]int{},
		overrides:     map[string]override{},
		gates:         map[string]*Gate{},
		products:      []productResponse.Product{},
		users:         map[string]*user{},
		carts:         map[string]*cart{},
		recent:        map[string][]string{},
		paymentStatus: DEFAULT_PAYMENT_STATUS,
		paymentText:   DEFAULT_PAYMENT_DISPLAY,
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.APP_FAKE_API))
	router.Use(middleware.RecoverPanic)
	router.Use(s.intercept)

	api := router.PathPrefix(inHttp.PATH_API_PREFIX).Subrouter()
	api.HandleFunc(inHttp.PATH_PRODUCTS, s.findProducts).Methods(http.MethodGet)
	api.HandleFunc(inHttp.PATH_PRODUCTS+"/{id}", s.findProduct).Methods(http.MethodGet)
	api.HandleFunc(inHttp.PATH_SEARCH_PRODUCTS, s.searchProducts).Methods(http.MethodGet)
	api.HandleFunc(inHttp.PATH_AUTH_LOGIN, s.login).Methods(http.MethodPost)
	api.HandleFunc(inHttp.PATH_AUTH_SIGNUP, s.signup).Methods(http.MethodPost)

	auth := middleware.Auth(s.verify)
	api.Handle(inHttp.PATH_SEARCH_RECENT, auth(http.HandlerFunc(s.recentSearches))).Methods(http.MethodGet)
	api.Handle(inHttp.PATH_CARTS, auth(http.HandlerFunc(s.findCart))).Methods(http.MethodGet)
	api.Handle(inHttp.PATH_CARTS, auth(http.HandlerFunc(s.removeCart))).Methods(http.MethodDelete)
	api.Handle(inHttp.PATH_CART_ITEMS, auth(http.HandlerFunc(s.insertCartItem))).Methods(http.MethodPost)
	api.Handle(inHttp.PATH_CART_ITEMS+"/{productId}", auth(http.HandlerFunc(s.removeCartItem))).
		Methods(http.MethodDelete)
	api.Handle(inHttp.PATH_USERS+"/{id}", auth(http.HandlerFunc(s.findUser))).Methods(http.MethodGet)
	api.Handle(inHttp.PATH_ORDERS, auth(http.HandlerFunc(s.insertOrder))).Methods(http.MethodPost)
	api.Handle(inHttp.PATH_PAYMENTS_MOMO, auth(http.HandlerFunc(s.initiateMobileMoney))).
		Methods(http.MethodPost)

	return router
}

// intercept counts the call, then applies any gate or override registered for the route.
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				key = r.Method + " " + template
			}
		}

		s.mu.Lock()
		s.calls[key]++
		gate := s.gates[key]
		o, overridden := s.overrides[key]
		s.mu.Unlock()

		if gate != nil {
			if !gate.wait(r) {
				return
			}
		}
		if overridden {
			if o.disconnect {
				disconnect(w)
				return
			}
			w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
			w.WriteHeader(o.statusCode)
			w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func disconnect(w http.ResponseWriter) {
	hijacker, ok := w.(http.Hijacker)
	if !ok {
		panic("fakeapi: response writer does not support hijacking")
	}
	conn, _, err := hijacker.Hijack()
	if err != nil {
		panic(err)
	}
	conn.Close()
}

// APIClient returns an api client pointed at the server.
func (s *Server) APIClient(opts ...inHttp.Option) *inHttp.Client {
	return inHttp.NewClient(s.URL, defaultClientTimeout, opts...)
}

// Calls reports how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls reports how many requests reached the server.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Respond makes route answer with statusCode and the raw body until Restore is called.
func (s *Server) Respond(route string, statusCode int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = override{statusCode: statusCode, body: body}
}

// Disconnect makes route drop the connection without answering.
func (s *Server) Disconnect(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = override{disconnect: true}
}

func (s *Server) Restore(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, route)
}

// Block holds every request to route until the returned gate is released.
func (s *Server) Block(route string) *Gate {
	gate := newGate()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[route] = gate
	return gate
}

// SetPaymentStatus sets the provider status and display text returned by payment initiation.
func (s *Server) SetPaymentStatus(status string, displayText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentStatus = status
	s.paymentText = displayText
}

func (s *Server) newIDLocked() types.ID {
	s.nextID++
	return types.ID(strconv.Itoa(s.nextID))
}

// Gate parks requests until Release. Arrived is closed when the first request is parked.
type Gate struct {
	arrived     chan struct{}
	release     chan struct{}
	arriveOnce  sync.Once
	releaseOnce sync.Once
}

func newGate() *Gate {
	return &Gate{arrived: make(chan struct{}), release: make(chan struct{})}
}

func (g *Gate) Arrived() <-chan struct{} {
	return g.arrived
}

func (g *Gate) Release() {
	g.releaseOnce.Do(func() { close(g.release) })
}

func (g *Gate) wait(r *http.Request) bool {
	g.arriveOnce.Do(func() { close(g.arrived) })
	select {
	case <-g.release:
		return true
	case <-r.Context().Done():
		return false
	}
}
