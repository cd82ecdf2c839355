package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *Server, path string, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func TestServerAuth(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)

	tests := []struct {
		name               string
		token              string
		expectedStatusCode int
	}{
		{name: "given no token should be unauthorized", expectedStatusCode: http.StatusUnauthorized},
		{name: "given garbage token should be unauthorized", token: "abc", expectedStatusCode: http.StatusUnauthorized},
		{name: "given expired token should be unauthorized", token: srv.ExpiredToken("1"), expectedStatusCode: http.StatusUnauthorized},
		{name: "given valid token should be ok", token: srv.Token("1"), expectedStatusCode: http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			statusCode, _ := get(t, srv, "/api/carts", test.token)

			assert.Equal(t, test.expectedStatusCode, statusCode)
		})
	}
}

func TestServerCountsByRouteTemplate(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)
	products := srv.SeedProducts(GenerateProducts(2, "Men", "Shoes")...)

	get(t, srv, "/api/products/"+products[0].ID.String(), "")
	get(t, srv, "/api/products/"+products[1].ID.String(), "")
	get(t, srv, "/api/products?page=0&size=10", "")

	assert.Equal(t, 2, srv.Calls(ROUTE_FIND_PRODUCT))
	assert.Equal(t, 1, srv.Calls(ROUTE_FIND_PRODUCTS))
	assert.Equal(t, 3, srv.TotalCalls())
}

func TestServerRespondAndRestore(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)
	srv.Respond(ROUTE_FIND_PRODUCTS, http.StatusServiceUnavailable, `{"message":"maintenance"}`)

	statusCode, body := get(t, srv, "/api/products", "")
	assert.Equal(t, http.StatusServiceUnavailable, statusCode)
	assert.Equal(t, "maintenance", body["message"])

	srv.Restore(ROUTE_FIND_PRODUCTS)
	statusCode, body = get(t, srv, "/api/products", "")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, true, body["last"])
}

func TestServerBlock(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)
	gate := srv.Block(ROUTE_FIND_PRODUCTS)

	done := make(chan int, 1)
	go func() {
		resp, err := srv.Client().Get(srv.URL + "/api/products")
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-gate.Arrived()
	select {
	case <-done:
		t.Fatal("request finished before release")
	default:
	}
	gate.Release()

	assert.Equal(t, http.StatusOK, <-done)
}

func TestServerSearchRecordsRecentTerms(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)
	srv.SeedProducts(GenerateProducts(3, "Women", "Bags")...)
	token := srv.Token("5")

	for _, term := range []string{"bag", "women", "bag"} {
		get(t, srv, "/api/search/products?query="+term, token)
	}
	get(t, srv, "/api/search/products?query=anonymous", "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/search/recent", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	recent := []string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&recent))

	assert.Equal(t, []string{"bag", "women"}, recent)
}

func TestServerCart(t *testing.T) {
	srv := New()
	t.Cleanup(srv.Close)
	products := srv.SeedProducts(GenerateProducts(1, "Men", "Shoes")...)

	srv.SeedCartItem("9", products[0].ID, 2)
	srv.SeedCartItem("9", products[0].ID, 3)

	lines := srv.CartOf("9")
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "50", lines[0].Subtotal.String())
	assert.Empty(t, srv.CartOf("10"))

	assert.PanicsWithValue(t, "fakeapi: Insufficient stock", func() {
		srv.SeedCartItem("9", products[0].ID, 6)
	})
	assert.True(t, strings.HasPrefix(lines[0].ProductImage, "https://img.example.com/men/"))
}
