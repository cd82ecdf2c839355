package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/notification"
	"github.com/Alturino/storefront/payment/internal/otel"
	"github.com/Alturino/storefront/payment/internal/repository"
	"github.com/Alturino/storefront/payment/pkg/request"
	"github.com/Alturino/storefront/payment/pkg/response"
)

// TokenProvider returns the stored auth token, "" when nobody is logged in.
type TokenProvider interface {
	Token(c context.Context) (string, error)
}

// CartClearer empties the cart once an order is paid.
type CartClearer interface {
	ClearCart(c context.Context) error
}

type PaymentService struct {
	repository repository.PaymentRepository
	tokens     TokenProvider
	cart       CartClearer
	notifier   notification.Notifier
	metrics    *metrics.Metrics
}

func NewPaymentService(
	client *inHttp.Client,
	tokens TokenProvider,
	cart CartClearer,
	notifier notification.Notifier,
	metrics *metrics.Metrics,
) *PaymentService {
	if notifier == nil {
		notifier = notification.LogNotifier{}
	}
	return &PaymentService{
		repository: repository.NewPaymentRepository(client),
		tokens:     tokens,
		cart:       cart,
		notifier:   notifier,
		metrics:    metrics,
	}
}

// InitiateMobileMoney asks the api to charge the buyer's wallet. A failed or unclear initiation
// comes back as a retryable Payment. Completed outcomes empty the cart.
func (svc *PaymentService) InitiateMobileMoney(
	c context.Context,
	param request.MobileMoney,
) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "PaymentService InitiateMobileMoney")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "PaymentService InitiateMobileMoney").
		Str(constants.KEY_ORDER_ID, param.OrderID.String()).
		Str(constants.KEY_AMOUNT, param.Amount.StringFixed(2)).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request").Logger()
	logger.Trace().Object(constants.KEY_REQUEST, param).Msg("validating request")
	if err := validate.Struct(param); err != nil {
		err = fmt.Errorf("failed validating payment request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(constants.KEY_PROCESS, "reading token").Logger()
	token, err := svc.tokens.Token(c)
	if err != nil {
		err = fmt.Errorf("failed reading token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if token == "" {
		err = fmt.Errorf("failed initiating payment with error=%w", inErrors.ErrUnauthenticated)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		svc.notifier.Notify(c, notification.Failure("Authentication Required", "Authentication required for payment."))
		return response.Payment{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initiating payment").Logger()
	logger.Info().Msg("initiating payment")
	initiation, err := svc.repository.InitiateMobileMoney(logger.WithContext(c), token, param)
	if err != nil {
		err = fmt.Errorf("failed initiating payment with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		payment := response.Payment{
			OrderID:   param.OrderID,
			Outcome:   response.OutcomeFailed,
			Title:     "Payment Failed",
			Message:   "Please try again.",
			Retryable: true,
		}
		switch {
		case errors.Is(err, inErrors.ErrServerRejected):
			payment.Message = inErrors.Message(err)
		case errors.Is(err, inErrors.ErrNetworkFailure):
			payment.Title = "Payment Error"
			payment.Message = "Failed to connect to payment service."
		}
		svc.metrics.IncPayment(string(payment.Outcome))
		svc.notifier.Notify(c, notification.Failure(payment.Title, payment.Message))
		return payment, err
	}

	payment := initiation.Response()
	payment.OrderID = param.OrderID
	logger = logger.With().
		Str(constants.KEY_PAYMENT_STATUS, payment.Status).
		Str(constants.KEY_PAYMENT_REFERENCE, payment.Reference).
		Logger()
	logger.Info().Object("payment", payment).Msg("initiated payment")
	svc.metrics.IncPayment(string(payment.Outcome))

	if payment.Outcome == response.OutcomeUnknown {
		svc.notifier.Notify(c, notification.Info(payment.Title, payment.Message))
		return payment, nil
	}
	svc.notifier.Notify(c, notification.Success(payment.Title, payment.Message))

	if payment.Outcome.Completed() {
		logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
		logger.Info().Msg("clearing cart")
		if err := svc.cart.ClearCart(logger.WithContext(c)); err != nil {
			err = fmt.Errorf("failed clearing cart after payment with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		} else {
			logger.Info().Msg("cleared cart")
		}
	}

	return payment, nil
}
