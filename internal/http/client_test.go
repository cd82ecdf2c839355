package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

type product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestClientDo(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		request        Request
		expectedErr    error
		expectedStatus int
		expectedMsg    string
		expected       product
	}{
		{
			name: "given 200 should decode body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id":1,"name":"shoe"}`))
			},
			request:  Request{Method: http.MethodGet, Path: "/products/1"},
			expected: product{ID: 1, Name: "shoe"},
		},
		{
			name: "given 400 with message should return server rejected with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"Out of stock"}`))
			},
			request:        Request{Method: http.MethodPost, Path: "/carts/items", Body: map[string]int{"quantity": 1}},
			expectedErr:    inErrors.ErrServerRejected,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Out of stock",
		},
		{
			name: "given 500 without body should fall back to status text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			request:        Request{Method: http.MethodGet, Path: "/carts"},
			expectedErr:    inErrors.ErrServerRejected,
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    http.StatusText(http.StatusInternalServerError),
		},
		{
			name: "given malformed 200 body should return unexpected shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			request:     Request{Method: http.MethodGet, Path: "/products/1"},
			expectedErr: inErrors.ErrUnexpectedShape,
		},
		{
			name: "given empty 200 body should return unexpected shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			request:     Request{Method: http.MethodGet, Path: "/products/1"},
			expectedErr: inErrors.ErrUnexpectedShape,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(test.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			actual := product{}
			err := client.Do(context.Background(), test.request, &actual)
			if test.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, test.expectedErr)
				if test.expectedStatus != 0 {
					assert.Equal(t, test.expectedStatus, inErrors.StatusCode(err))
					assert.Equal(t, test.expectedMsg, inErrors.Message(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestClientDoSendsHeadersAndQuery(t *testing.T) {
	var captured *http.Request
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/carts/items",
		Query:  url.Values{"page": {"2"}},
		Body:   map[string]any{"productId": 7, "quantity": 2},
		Token:  "abc",
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/api/carts/items", captured.URL.Path)
	assert.Equal(t, "2", captured.URL.Query().Get("page"))
	assert.Equal(t, "Bearer abc", captured.Header.Get(KEY_HEADER_AUTHORIZATION))
	assert.Equal(t, VALUE_HEADER_APPLICATION_JSON, captured.Header.Get(KEY_HEADER_CONTENT_TYPE))
	assert.NotEmpty(t, captured.Header.Get(KEY_HEADER_REQUEST_ID))
	assert.Equal(t, float64(7), body["productId"])
}

func TestClientDoWithoutTokenOmitsAuthorization(t *testing.T) {
	var authorization atomic.Value
	authorization.Store("unset")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization.Store(r.Header.Get(KEY_HEADER_AUTHORIZATION))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).Do(context.Background(), Request{Method: http.MethodGet, Path: "/products"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "", authorization.Load())
}

func TestClientDoNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := server.URL
	server.Close()

	err := NewClient(address, time.Second).Do(context.Background(), Request{Method: http.MethodGet, Path: "/carts"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, inErrors.ErrNetworkFailure)
}

func TestClientDoBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := server.URL
	server.Close()

	client := NewClient(address, time.Second, WithBreaker(config.Breaker{
		ConsecutiveFailures: 2,
		Timeout:             time.Minute,
	}))
	for range 2 {
		err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/carts"}, nil)
		require.ErrorIs(t, err, inErrors.ErrNetworkFailure)
	}

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/carts"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, inErrors.ErrNetworkFailure)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func TestClientDoRejectionDoesNotOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, WithBreaker(config.Breaker{ConsecutiveFailures: 1, Timeout: time.Minute}))
	for range 3 {
		err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/carts"}, nil)
		assert.ErrorIs(t, err, inErrors.ErrServerRejected)
	}

	assert.Equal(t, int32(3), calls.Load())
}

func TestPageBodyValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr bool
		expectedLen int
		expectedEnd bool
	}{
		{name: "given content and last should be valid", input: `{"content":[{"id":1}],"last":true}`, expectedLen: 1, expectedEnd: true},
		{name: "given empty content should be valid", input: `{"content":[],"last":false}`},
		{name: "given missing content should fail", input: `{"last":true}`, expectedErr: true},
		{name: "given null content should fail", input: `{"content":null,"last":true}`, expectedErr: true},
		{name: "given missing last should fail", input: `{"content":[]}`, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			page := PageBody[product]{}
			err := decode([]byte(test.input), &page)
			if test.expectedErr {
				assert.ErrorIs(t, err, inErrors.ErrUnexpectedShape)
				return
			}
			require.NoError(t, err)
			assert.Len(t, page.Items(), test.expectedLen)
			assert.Equal(t, test.expectedEnd, page.IsLast())
		})
	}

	t.Run("given content that is not an array should fail", func(t *testing.T) {
		page := PageBody[product]{}
		err := decode([]byte(`{"content":{"id":1},"last":true}`), &page)
		assert.ErrorIs(t, err, inErrors.ErrUnexpectedShape)
	})
}
