package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/fakeapi"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/notification"
	"github.com/Alturino/storefront/order/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

type cartStub struct {
	items cartResponse.CartItems
}

func (s cartStub) Items() cartResponse.CartItems {
	return s.items
}

type sessionStub struct {
	token string
	user  *userResponse.User
}

func (s sessionStub) Token(context.Context) (string, error) {
	return s.token, nil
}

func (s sessionStub) Status(context.Context) (userResponse.Session, error) {
	if s.token == "" {
		return userResponse.Session{}, nil
	}
	return userResponse.Session{Token: s.token, User: s.user, IsAuthenticated: true}, nil
}

func twoLines() cartResponse.CartItems {
	return cartResponse.CartItems{
		{
			CartItemID:   "100",
			ProductID:    "1",
			Name:         "Sneaker",
			UnitPrice:    decimal.RequireFromString("19.99"),
			Quantity:     2,
			LineSubtotal: decimal.RequireFromString("39.98"),
			Size:         "42",
		},
		{
			CartItemID:   "101",
			ProductID:    "2",
			Name:         "Bag",
			UnitPrice:    decimal.NewFromInt(50),
			Quantity:     1,
			LineSubtotal: decimal.NewFromInt(50),
		},
	}
}

func validCheckout() request.Checkout {
	return request.Checkout{
		ShippingAddress: "12 Ring Road, Accra",
		MobileNumber:    "0241234567",
		MobileNetwork:   "MTN",
		PaymentMethod:   "mobile_money",
	}
}

func TestCheckoutServiceCheckout(t *testing.T) {
	t.Run("given cart and session should create order from product ids", func(t *testing.T) {
		srv := fakeapi.New()
		t.Cleanup(srv.Close)
		recorder := &notification.Recorder{}
		session := sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7", Email: "ama@mail.com"}}
		svc := NewCheckoutService(srv.APIClient(), cartStub{items: twoLines()}, session, recorder)

		actual, err := svc.Checkout(context.Background(), validCheckout())

		require.NoError(t, err)
		assert.False(t, actual.OrderID.IsZero())
		assert.Equal(t, "89.98", actual.Amount.StringFixed(2))
		assert.Equal(t, "ama@mail.com", actual.CustomerEmail)
		assert.Equal(t, "0241234567", actual.MobileNumber)
		assert.Equal(t, "MTN", actual.MobileNetwork)

		orders := srv.Orders()
		require.Len(t, orders, 1)
		assert.Equal(t, actual.OrderID, orders[0].ID)
		assert.Equal(t, "12 Ring Road, Accra", orders[0].BillingAddress)
		assert.Equal(t, []fakeapi.OrderItem{
			{ProductID: "1", Quantity: 2, Size: "42"},
			{ProductID: "2", Quantity: 1},
		}, orders[0].OrderItems)

		notice, ok := recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notification.LevelSuccess, notice.Level)
		assert.Equal(t, "Order Created", notice.Title)
		assert.Contains(t, notice.Message, actual.OrderID.String())
	})

	t.Run("given billing address should keep it", func(t *testing.T) {
		srv := fakeapi.New()
		t.Cleanup(srv.Close)
		session := sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7", Email: "ama@mail.com"}}
		svc := NewCheckoutService(srv.APIClient(), cartStub{items: twoLines()}, session, &notification.Recorder{})
		param := validCheckout()
		param.BillingAddress = "PO Box 1, Kumasi"

		_, err := svc.Checkout(context.Background(), param)

		require.NoError(t, err)
		assert.Equal(t, "PO Box 1, Kumasi", srv.Orders()[0].BillingAddress)
	})

	tests := []struct {
		name          string
		items         cartResponse.CartItems
		session       func(srv *fakeapi.Server) sessionStub
		mutate        func(p *request.Checkout)
		expectedErr   error
		expectedTitle string
	}{
		{
			name:          "given empty cart should fail cart empty",
			items:         cartResponse.CartItems{},
			expectedErr:   inErrors.ErrCartEmpty,
			expectedTitle: "Cart Empty",
		},
		{
			name:          "given missing network should fail missing payment info",
			items:         twoLines(),
			mutate:        func(p *request.Checkout) { p.MobileNetwork = " " },
			expectedErr:   inErrors.ErrMissingPaymentInfo,
			expectedTitle: "Missing Information",
		},
		{
			name:          "given blank shipping address should be invalid",
			items:         twoLines(),
			mutate:        func(p *request.Checkout) { p.ShippingAddress = "  " },
			expectedErr:   inErrors.ErrInvalidRequest,
			expectedTitle: "Missing Information",
		},
		{
			name:          "given no session should be unauthenticated",
			items:         twoLines(),
			session:       func(*fakeapi.Server) sessionStub { return sessionStub{} },
			expectedErr:   inErrors.ErrUnauthenticated,
			expectedTitle: "Authentication Required",
		},
		{
			name:  "given user without email should fail before ordering",
			items: twoLines(),
			session: func(srv *fakeapi.Server) sessionStub {
				return sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7"}}
			},
			expectedErr:   inErrors.ErrMissingEmail,
			expectedTitle: "Error",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := fakeapi.New()
			t.Cleanup(srv.Close)
			recorder := &notification.Recorder{}
			session := sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7", Email: "ama@mail.com"}}
			if test.session != nil {
				session = test.session(srv)
			}
			svc := NewCheckoutService(srv.APIClient(), cartStub{items: test.items}, session, recorder)
			param := validCheckout()
			if test.mutate != nil {
				test.mutate(&param)
			}

			_, err := svc.Checkout(context.Background(), param)

			assert.ErrorIs(t, err, test.expectedErr)
			assert.Equal(t, 0, srv.Calls(fakeapi.ROUTE_INSERT_ORDER))
			assert.Empty(t, srv.Orders())
			notice, ok := recorder.Last()
			require.True(t, ok)
			assert.Equal(t, notification.LevelError, notice.Level)
			assert.Equal(t, test.expectedTitle, notice.Title)
		})
	}

	t.Run("given rejected order should notify server message", func(t *testing.T) {
		srv := fakeapi.New()
		t.Cleanup(srv.Close)
		srv.Respond(fakeapi.ROUTE_INSERT_ORDER, http.StatusBadRequest, `{"message":"Product out of stock"}`)
		recorder := &notification.Recorder{}
		session := sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7", Email: "ama@mail.com"}}
		svc := NewCheckoutService(srv.APIClient(), cartStub{items: twoLines()}, session, recorder)

		_, err := svc.Checkout(context.Background(), validCheckout())

		assert.ErrorIs(t, err, inErrors.ErrServerRejected)
		notice, ok := recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notification.Failure("Order Creation Failed", "Product out of stock"), notice)
	})

	t.Run("given unreachable api should notify fallback", func(t *testing.T) {
		srv := fakeapi.New()
		t.Cleanup(srv.Close)
		srv.Disconnect(fakeapi.ROUTE_INSERT_ORDER)
		recorder := &notification.Recorder{}
		session := sessionStub{token: srv.Token("7"), user: &userResponse.User{ID: "7", Email: "ama@mail.com"}}
		svc := NewCheckoutService(srv.APIClient(), cartStub{items: twoLines()}, session, recorder)

		_, err := svc.Checkout(context.Background(), validCheckout())

		assert.ErrorIs(t, err, inErrors.ErrNetworkFailure)
		notice, ok := recorder.Last()
		require.True(t, ok)
		assert.Equal(t, notification.Failure("Order Creation Failed", "Failed to create order. Please try again."), notice)
	})
}

func TestInvalidCheckoutMessage(t *testing.T) {
	type contact struct {
		Email string `validate:"required,email"`
	}

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "given blank shipping address should ask for it",
			err:      validate.Struct(request.Checkout{ShippingAddress: "  "}),
			expected: "Please provide a shipping address.",
		},
		{
			name:     "given other invalid field should use generic message",
			err:      validate.Struct(contact{Email: "ama"}),
			expected: "Please check your input and try again.",
		},
		{
			name:     "given error without field details should use its message",
			err:      inErrors.ErrInvalidRequest,
			expected: "Please check your input and try again.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Error(t, test.err)
			assert.Equal(t, test.expected, invalidCheckoutMessage(test.err))
		})
	}
}
