package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/types"
)

// CartItem is a cart line the way the api sends it.
type CartItem struct {
	ID           types.ID        `json:"id"`
	ProductID    types.ID        `json:"productId"`
	ProductName  string          `json:"productName"`
	PriceAtAdd   decimal.Decimal `json:"priceAtAdd"`
	Quantity     int             `json:"quantity"`
	ProductImage string          `json:"productImage"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type cart struct {
	ID     types.ID   `json:"id"`
	UserID types.ID   `json:"userId"`
	Items  []CartItem `json:"items"`
}

type insertCartItem struct {
	ProductID types.ID `json:"productId"`
	Quantity  int      `json:"quantity"`
}

// CartOf returns a copy of the lines stored for subject.
func (s *Server) CartOf(subject types.ID) []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, ok := s.carts[subject.String()]
	if !ok {
		return []CartItem{}
	}
	return append([]CartItem{}, found.Items...)
}

// SeedCartItem adds quantity units of productID to subject's cart.
func (s *Server) SeedCartItem(subject types.ID, productID types.ID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.addLocked(subject.String(), productID, quantity); err != "" {
		panic("fakeapi: " + err)
	}
}

func (s *Server) cartLocked(subject string) *cart {
	found, ok := s.carts[subject]
	if !ok {
		found = &cart{ID: s.newIDLocked(), UserID: types.ID(subject), Items: []CartItem{}}
		s.carts[subject] = found
	}
	return found
}

// addLocked merges quantity into the product's line. The returned string is a rejection message.
func (s *Server) addLocked(subject string, productID types.ID, quantity int) (*cart, string) {
	if quantity < 1 {
		return nil, "Quantity must be at least 1"
	}
	for _, p := range s.products {
		if p.ID != productID {
			continue
		}
		c := s.cartLocked(subject)
		for i, item := range c.Items {
			if item.ProductID == productID {
				if !p.InStock(item.Quantity + quantity) {
					return nil, "Insufficient stock"
				}
				c.Items[i].Quantity += quantity
				c.Items[i].Subtotal = item.PriceAtAdd.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
				return c, ""
			}
		}
		if !p.InStock(quantity) {
			return nil, "Insufficient stock"
		}
		c.Items = append(c.Items, CartItem{
			ID:           s.newIDLocked(),
			ProductID:    p.ID,
			ProductName:  p.Name,
			PriceAtAdd:   p.Price,
			Quantity:     quantity,
			ProductImage: p.ImageURL,
			Subtotal:     p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		})
		return c, ""
	}
	return nil, "Product not found"
}

func (s *Server) findCart(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())

	s.mu.Lock()
	body, _ := json.Marshal(s.cartLocked(subject))
	s.mu.Unlock()

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, json.RawMessage(body))
}

func (s *Server) insertCartItem(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())

	param := insertCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeFailure(r.Context(), w, http.StatusBadRequest, "request body is invalid")
		return
	}

	s.mu.Lock()
	c, rejection := s.addLocked(subject, param.ProductID, param.Quantity)
	if rejection != "" {
		s.mu.Unlock()
		writeFailure(r.Context(), w, http.StatusBadRequest, rejection)
		return
	}
	body, _ := json.Marshal(c)
	s.mu.Unlock()

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, json.RawMessage(body))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())
	productID := types.ID(mux.Vars(r)["productId"])

	s.mu.Lock()
	c := s.cartLocked(subject)
	remaining := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}
	removed := len(remaining) != len(c.Items)
	c.Items = remaining
	s.mu.Unlock()

	if !removed {
		writeFailure(r.Context(), w, http.StatusNotFound, "Item not found in cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeCart(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())

	s.mu.Lock()
	s.cartLocked(subject).Items = []CartItem{}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
