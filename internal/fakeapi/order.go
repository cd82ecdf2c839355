package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/types"
)

type OrderItem struct {
	ProductID types.ID `json:"productId"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size,omitempty"`
}

type order struct {
	ID              types.ID    `json:"orderId"`
	UserID          types.ID    `json:"userId"`
	ShippingAddress string      `json:"shippingAddress"`
	BillingAddress  string      `json:"billingAddress"`
	OrderItems      []OrderItem `json:"orderItems"`
	Status          string      `json:"status"`
}

// Order is an order as the api received it.
type Order struct {
	ID              types.ID
	UserID          types.ID
	ShippingAddress string
	BillingAddress  string
	OrderItems      []OrderItem
}

// Payment is a recorded mobile money initiation.
type Payment struct {
	OrderID       types.ID        `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerEmail string          `json:"customerEmail"`
	MobileNumber  string          `json:"mobileNumber"`
	MobileNetwork string          `json:"mobileNetwork"`
	PaymentMethod string          `json:"paymentMethod"`
}

func (s *Server) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, Order{
			ID:              o.ID,
			UserID:          o.UserID,
			ShippingAddress: o.ShippingAddress,
			BillingAddress:  o.BillingAddress,
			OrderItems:      append([]OrderItem{}, o.OrderItems...),
		})
	}
	return orders
}

// SeedOrder stores a pending order for subject and returns its id.
func (s *Server) SeedOrder(subject types.ID, items ...OrderItem) types.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := order{
		ID:         s.newIDLocked(),
		UserID:     subject,
		OrderItems: append([]OrderItem{}, items...),
		Status:     "PENDING",
	}
	s.orders = append(s.orders, o)
	return o.ID
}

func (s *Server) Payments() []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Payment{}, s.payments...)
}

func (s *Server) insertOrder(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromContext(r.Context())

	param := order{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeFailure(r.Context(), w, http.StatusBadRequest, "request body is invalid")
		return
	}
	if len(param.OrderItems) == 0 {
		writeFailure(r.Context(), w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	s.mu.Lock()
	param.ID = s.newIDLocked()
	param.UserID = types.ID(subject)
	param.Status = "PENDING"
	s.orders = append(s.orders, param)
	s.mu.Unlock()

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusCreated, nil, map[string]any{
		"orderId": param.ID,
		"status":  param.Status,
	})
}

func (s *Server) initiateMobileMoney(w http.ResponseWriter, r *http.Request) {
	param := Payment{}
	if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
		writeFailure(r.Context(), w, http.StatusBadRequest, "request body is invalid")
		return
	}

	s.mu.Lock()
	known := false
	for _, o := range s.orders {
		if o.ID == param.OrderID {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, map[string]any{
			"success": false,
			"message": "Order not found",
		})
		return
	}
	s.payments = append(s.payments, param)
	status, displayText := s.paymentStatus, s.paymentText
	s.mu.Unlock()

	inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, nil, map[string]any{
		"success": true,
		"message": "Charge attempted",
		"data": map[string]any{
			"status":      status,
			"displayText": displayText,
			"reference":   uuid.NewString(),
		},
	})
}
