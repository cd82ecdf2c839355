package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/notification"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/repository"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

var checkoutFieldMessages = map[string]string{
	"ShippingAddress": "Please provide a shipping address.",
}

// invalidCheckoutMessage names the first field that failed validation.
func invalidCheckoutMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			if message, ok := checkoutFieldMessages[fieldErr.StructField()]; ok {
				return message
			}
		}
	}
	return inErrors.Message(err)
}

type CartReader interface {
	Items() cartResponse.CartItems
}

// SessionProvider exposes the stored token and session.
type SessionProvider interface {
	Token(c context.Context) (string, error)
	Status(c context.Context) (userResponse.Session, error)
}

type CheckoutService struct {
	repository repository.OrderRepository
	cart       CartReader
	session    SessionProvider
	notifier   notification.Notifier
}

func NewCheckoutService(
	client *inHttp.Client,
	cart CartReader,
	session SessionProvider,
	notifier notification.Notifier,
) *CheckoutService {
	if notifier == nil {
		notifier = notification.LogNotifier{}
	}
	return &CheckoutService{
		repository: repository.NewOrderRepository(client),
		cart:       cart,
		session:    session,
		notifier:   notifier,
	}
}

// Checkout creates an order from the current cart. The cart is left untouched, it is cleared
// once payment goes through.
func (svc *CheckoutService) Checkout(c context.Context, param request.Checkout) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CheckoutService Checkout").
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "reading cart").Logger()
	items := svc.cart.Items()
	if len(items) == 0 {
		err := fmt.Errorf("failed checking out with error=%w", inErrors.ErrCartEmpty)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Cart Empty", inErrors.Message(err)))
		return response.Checkout{}, err
	}
	logger = logger.With().Int(constants.KEY_CART_ITEMS_COUNT, len(items)).Logger()

	if strings.TrimSpace(param.MobileNumber) == "" || strings.TrimSpace(param.MobileNetwork) == "" {
		err := fmt.Errorf("failed checking out with error=%w", inErrors.ErrMissingPaymentInfo)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Missing Information", inErrors.Message(err)))
		return response.Checkout{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating checkout request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Missing Information", invalidCheckoutMessage(err)))
		return response.Checkout{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "reading session").Logger()
	token, err := svc.session.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if token == "" {
		err = fmt.Errorf("failed checking out with error=%w", inErrors.ErrUnauthenticated)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Authentication Required", "Please log in to place an order."))
		return response.Checkout{}, err
	}
	session, err := svc.session.Status(c)
	if err != nil {
		err = fmt.Errorf("failed reading session with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if session.User == nil || strings.TrimSpace(session.User.Email) == "" {
		err = fmt.Errorf("failed checking out with error=%w", inErrors.ErrMissingEmail)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Error", inErrors.Message(err)))
		return response.Checkout{}, err
	}
	logger = logger.With().Str(constants.KEY_EMAIL, session.User.Email).Logger()

	order := request.CreateOrder{
		ShippingAddress: param.ShippingAddress,
		BillingAddress:  param.BillingAddress,
		OrderItems:      make([]request.OrderItem, 0, len(items)),
	}
	if strings.TrimSpace(order.BillingAddress) == "" {
		order.BillingAddress = order.ShippingAddress
	}
	for _, item := range items {
		order.OrderItems = append(order.OrderItems, request.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	created, err := svc.repository.InsertOrder(logger.WithContext(c), token, order)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		message := "Failed to create order. Please try again."
		if errors.Is(err, inErrors.ErrServerRejected) {
			message = inErrors.Message(err)
		}
		svc.notifier.Notify(c, notification.Failure("Order Creation Failed", message))
		return response.Checkout{}, err
	}

	result := response.Checkout{
		OrderID:       created.OrderID,
		Amount:        items.Amount(),
		CustomerEmail: session.User.Email,
		MobileNumber:  param.MobileNumber,
		MobileNetwork: param.MobileNetwork,
		PaymentMethod: param.PaymentMethod,
	}
	logger.Info().Object("checkout", result).Msg("inserted order")

	svc.notifier.Notify(c, notification.Success(
		"Order Created",
		fmt.Sprintf(
			"Your order has been placed successfully! Order ID: %s. Now proceeding to payment...",
			created.OrderID,
		),
	))
	return result, nil
}
