package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/livesale/backend/internal/domain/payment"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponUsageCommit decides when a coupon's usage count is advanced
type CouponUsageCommit string

const (
	// CommitOnIntentCreated counts a use as soon as the payment intent exists
	CommitOnIntentCreated CouponUsageCommit = "intent_created"
	// CommitOnPaymentConfirmed counts a use only once the order is paid
	CommitOnPaymentConfirmed CouponUsageCommit = "payment_confirmed"
)

// ParseCouponUsageCommit parses a config value, defaulting to CommitOnPaymentConfirmed
func ParseCouponUsageCommit(s string) (CouponUsageCommit, error) {
	switch c := CouponUsageCommit(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CommitOnPaymentConfirmed, nil
	case CommitOnIntentCreated, CommitOnPaymentConfirmed:
		return c, nil
	default:
		return "", fmt.Errorf("unknown coupon usage commit %q", s)
	}
}

// noChargePrefix marks orders whose grand total is zero and never reach the gateway
const noChargePrefix = "no-charge-"

// Metrics receives checkout counters. Implemented by telemetry.BusinessMetrics.
type Metrics interface {
	RecordCheckout(ctx context.Context, grandTotal decimal.Decimal, couponApplied bool)
	RecordPaymentConfirmed(ctx context.Context, alreadyPaid bool)
}

// CheckoutService turns a priced order into a payment intent and records payment
type CheckoutService struct {
	pricing        *PricingService
	orders         sales.OrderRepository
	carts          sales.CartRepository
	coupons        pricing.CouponRepository
	gateway        payment.Gateway
	commit         CouponUsageCommit
	eventPublisher shared.EventPublisher
	metrics        Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	pricingService *PricingService,
	orders sales.OrderRepository,
	carts sales.CartRepository,
	coupons pricing.CouponRepository,
	gateway payment.Gateway,
	commit CouponUsageCommit,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if commit == "" {
		commit = CommitOnPaymentConfirmed
	}
	return &CheckoutService{
		pricing: pricingService,
		orders:  orders,
		carts:   carts,
		coupons: coupons,
		gateway: gateway,
		commit:  commit,
		logger:  logger,
		now:     time.Now,
	}
}

// SetEventPublisher sets the event publisher for checkout events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the checkout metrics sink
func (s *CheckoutService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// SetClock overrides time.Now
func (s *CheckoutService) SetClock(now func() time.Time) {
	s.now = now
}

// Checkout prices an unpaid order, opens a payment intent for the grand total and
// stores the reference and pricing snapshot on the order.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "start")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, req.OrderID.String())

	var (
		resp *CheckoutResponse
		err  error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("checkout", nil), func(c context.Context) {
		resp, err = s.checkout(c, req)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return resp, nil
}

func (s *CheckoutService) checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, sales.ErrOrderAlreadyPaid
	}

	items, err := s.pricing.LineItems(ctx, order)
	if err != nil {
		return nil, err
	}
	result, err := s.pricing.PriceCheckout(ctx, PriceCheckoutRequest{
		Items:      items,
		Selection:  req.Selection,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.createIntent(ctx, order, result)
	if err != nil {
		return nil, err
	}

	snapshot := sales.CheckoutSnapshot{
		DiscountAmount: result.Discount.Amount(),
		ShippingCost:   result.ShippingCost.Amount(),
		GrandTotal:     result.GrandTotal.Amount(),
		StartedAt:      s.now(),
	}
	if result.Coupon != nil {
		snapshot.CouponCode = result.Coupon.Code
	}
	if err := order.StartCheckout(snapshot, intent.Reference); err != nil {
		return nil, err
	}

	paid := false
	if strings.HasPrefix(intent.Reference, noChargePrefix) {
		if _, err := order.MarkPaid(intent.Reference, s.now()); err != nil {
			return nil, err
		}
		paid = true
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save checkout: %w", err)
	}

	if snapshot.CouponCode != "" && (s.commit == CommitOnIntentCreated || paid) {
		s.commitCouponUsage(ctx, snapshot.CouponCode)
	}
	if paid && order.CartID != nil {
		s.closeCart(ctx, order)
	}

	s.publish(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordCheckout(ctx, snapshot.GrandTotal, snapshot.CouponCode != "")
	}

	s.logger.Info("checkout started",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_reference", intent.Reference),
		zap.String("grand_total", result.GrandTotal.String()),
		zap.String("coupon", snapshot.CouponCode),
	)

	return &CheckoutResponse{
		OrderID:          order.ID,
		Pricing:          ToPricingResponse(result),
		PaymentReference: intent.Reference,
		RedirectURL:      intent.RedirectURL,
		ExpiresAt:        intent.ExpiresAt,
		Paid:             paid,
	}, nil
}

// createIntent calls the payment collaborator. A zero grand total is settled without it.
func (s *CheckoutService) createIntent(ctx context.Context, order *sales.Order, result *pricing.Result) (*payment.Intent, error) {
	if result.GrandTotal.IsZero() {
		return &payment.Intent{Reference: noChargePrefix + order.ID.String()}, nil
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.IntentRequest{
		OrderID:       order.ID,
		CustomerPhone: order.CustomerPhone.String(),
		Amount:        result.GrandTotal,
		Description:   fmt.Sprintf("Pedido %s", order.BusinessDay),
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, payment.ErrGatewayUnavailable.Wrap(err)
	}
	return intent, nil
}

// ConfirmPayment marks an order paid. Confirming twice with the same reference is a no-op.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "confirm_payment")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, req.OrderID.String())

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	changed, err := order.MarkPaid(strings.TrimSpace(req.PaymentReference), s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !changed {
		if s.metrics != nil {
			s.metrics.RecordPaymentConfirmed(ctx, true)
		}
		return &ConfirmPaymentResponse{
			OrderID:          order.ID,
			PaymentReference: order.PaymentReference,
			PaidAt:           order.PaidAt,
			AlreadyPaid:      true,
		}, nil
	}

	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save payment: %w", err)
	}

	if order.CartID != nil {
		s.closeCart(ctx, order)
	}
	if code := order.CouponCode(); code != "" && s.commit == CommitOnPaymentConfirmed {
		s.commitCouponUsage(ctx, code)
	}
	s.publish(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordPaymentConfirmed(ctx, false)
	}

	s.logger.Info("payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_reference", order.PaymentReference),
	)
	telemetry.SetOK(span)

	return &ConfirmPaymentResponse{
		OrderID:          order.ID,
		PaymentReference: order.PaymentReference,
		PaidAt:           order.PaidAt,
	}, nil
}

// commitCouponUsage advances the coupon's usage count. Failures are logged only.
func (s *CheckoutService) commitCouponUsage(ctx context.Context, code string) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil || coupon == nil {
		s.logger.Warn("coupon usage not committed", zap.String("coupon", code), zap.Error(err))
		return
	}
	if err := s.coupons.IncrementUsage(ctx, coupon.ID); err != nil {
		s.logger.Warn("coupon usage not committed", zap.String("coupon", code), zap.Error(err))
	}
}

func (s *CheckoutService) closeCart(ctx context.Context, order *sales.Order) {
	if err := s.carts.Close(ctx, *order.CartID); err != nil {
		s.logger.Warn("failed to close cart",
			zap.String("order_id", order.ID.String()),
			zap.String("cart_id", order.CartID.String()),
			zap.Error(err),
		)
	}
}

func (s *CheckoutService) publish(ctx context.Context, order *sales.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish checkout events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
