// Package payment adapts Stripe Checkout Sessions to the payment.Gateway port.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/livesale/backend/internal/domain/payment"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"
)

// StripeCheckoutAdapter opens a hosted Stripe Checkout Session per order
type StripeCheckoutAdapter struct {
	config   StripeCheckoutConfig
	sessions session.Client
	logger   *zap.Logger
}

// StripeCheckoutOption configures the adapter
type StripeCheckoutOption func(*StripeCheckoutAdapter)

// WithBackend replaces the Stripe API backend, e.g. to point at a stub server
func WithBackend(backend stripe.Backend) StripeCheckoutOption {
	return func(a *StripeCheckoutAdapter) {
		a.sessions.B = backend
	}
}

// NewStripeCheckoutAdapter creates the adapter after validating cfg
func NewStripeCheckoutAdapter(cfg StripeCheckoutConfig, logger *zap.Logger, opts ...StripeCheckoutOption) (*StripeCheckoutAdapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &StripeCheckoutAdapter{
		config: cfg,
		sessions: session.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// CreatePaymentIntent creates a one-line Checkout Session for the order's grand total.
// The session ID is the payment reference stored on the order.
func (a *StripeCheckoutAdapter) CreatePaymentIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	cents := req.Amount.Cents()
	if cents <= 0 {
		return nil, fmt.Errorf("stripe: amount must be positive, got %s", req.Amount.String())
	}

	orderID := req.OrderID.String()
	description := req.Description
	if description == "" {
		description = "Pedido " + orderID
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(orderID),
		SuccessURL:        stripe.String(strings.ReplaceAll(a.config.SuccessURL, "{ORDER_ID}", orderID)),
		CancelURL:         stripe.String(strings.ReplaceAll(a.config.CancelURL, "{ORDER_ID}", orderID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(a.config.Currency),
					UnitAmount: stripe.Int64(cents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID)
	if req.CustomerPhone != "" {
		params.AddMetadata("customer_phone", req.CustomerPhone)
	}
	params.SetIdempotencyKey(fmt.Sprintf("checkout-%s-%d", orderID, cents))

	s, err := a.sessions.New(params)
	if err != nil {
		a.logger.Error("stripe checkout session failed",
			zap.String("order_id", orderID),
			zap.Int64("amount_cents", cents),
			zap.Error(err))
		return nil, payment.ErrGatewayUnavailable.Wrap(err)
	}

	a.logger.Info("stripe checkout session created",
		zap.String("order_id", orderID),
		zap.String("session_id", s.ID),
		zap.Bool("test_mode", a.config.IsTestMode()))

	intent := &payment.Intent{
		Reference:   s.ID,
		RedirectURL: s.URL,
	}
	if s.ExpiresAt > 0 {
		expires := time.Unix(s.ExpiresAt, 0).UTC()
		intent.ExpiresAt = &expires
	}
	return intent, nil
}

// Ensure StripeCheckoutAdapter implements payment.Gateway
var _ payment.Gateway = (*StripeCheckoutAdapter)(nil)
