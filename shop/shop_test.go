package shop

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/fakeapi"
	orderRequest "github.com/Alturino/storefront/order/pkg/request"
	paymentRequest "github.com/Alturino/storefront/payment/pkg/request"
	paymentResponse "github.com/Alturino/storefront/payment/pkg/response"
	userRequest "github.com/Alturino/storefront/user/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

func newShop(t *testing.T, srv *fakeapi.Server, out *bytes.Buffer) *Shop {
	t.Helper()
	cfg := &config.Config{
		Api:     config.Api{BaseURL: srv.URL, Timeout: 5 * time.Second},
		Storage: config.Storage{Driver: "memory"},
	}
	s, err := New(context.Background(), cfg, WithOutput(out))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestShopPurchaseFlow(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	user := srv.SeedUser(userResponse.User{Username: "ama", Email: "ama@mail.com"}, "secret123")
	products := srv.SeedProducts(fakeapi.GenerateProducts(2, "Men", "Shoes")...)
	out := &bytes.Buffer{}
	s := newShop(t, srv, out)
	c := context.Background()

	_, err := s.Auth.Login(c, userRequest.Login{Email: "ama@mail.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, s.Cart.AddItem(c, products[0].ID, 2, "42"))
	require.NoError(t, s.Cart.AddItem(c, products[1].ID, 1, ""))
	assert.Equal(t, 2, s.Cart.Count())
	assert.Equal(t, "31", s.Cart.Total().String())

	checkout, err := s.Checkout.Checkout(c, orderRequest.Checkout{
		ShippingAddress: "12 Ring Road, Accra",
		MobileNumber:    "0241234567",
		MobileNetwork:   "MTN",
	})
	require.NoError(t, err)
	assert.Equal(t, "31", checkout.Amount.String())
	assert.Equal(t, user.ID, srv.Orders()[0].UserID)
	assert.Equal(t, "42", srv.Orders()[0].OrderItems[0].Size)

	payment, err := s.Payment.InitiateMobileMoney(c, paymentRequest.MobileMoney{
		OrderID:       checkout.OrderID,
		Amount:        checkout.Amount,
		CustomerEmail: checkout.CustomerEmail,
		MobileNumber:  checkout.MobileNumber,
		MobileNetwork: checkout.MobileNetwork,
		PaymentMethod: "MTN_MOBILE_MONEY",
	})
	require.NoError(t, err)
	assert.Equal(t, paymentResponse.OutcomePayOffline, payment.Outcome)
	assert.Empty(t, s.Cart.Items())
	assert.Empty(t, srv.CartOf(user.ID))

	assert.Contains(t, out.String(), "Item added to cart!")
	assert.Contains(t, out.String(), "Order Created")
	assert.Contains(t, out.String(), "Payment Initiated")
}

func TestShopLogoutResetsCart(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	user := srv.SeedUser(userResponse.User{Username: "ama", Email: "ama@mail.com"}, "secret123")
	products := srv.SeedProducts(fakeapi.GenerateProducts(1, "Women", "Bags")...)
	srv.SeedCartItem(user.ID, products[0].ID, 3)
	s := newShop(t, srv, &bytes.Buffer{})
	c := context.Background()

	_, err := s.Auth.Login(c, userRequest.Login{Email: "ama@mail.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, s.Cart.FetchCart(c))
	require.Len(t, s.Cart.Items(), 1)

	require.NoError(t, s.Auth.Logout(c))

	assert.Empty(t, s.Cart.Items())
	assert.Len(t, srv.CartOf(user.ID), 1)
}

func TestShopThemePersists(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	s := newShop(t, srv, &bytes.Buffer{})
	c := context.Background()

	assert.True(t, s.Theme.Toggle(c))

	dark, err := s.Theme.Load(c)
	require.NoError(t, err)
	assert.True(t, dark)
	assert.Equal(t, 0, srv.TotalCalls())
}
