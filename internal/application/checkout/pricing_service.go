package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyCheckout is returned when there is nothing to price
var ErrEmptyCheckout = shared.NewValidationError("EMPTY_CHECKOUT", "Checkout needs at least one item")

// PricingService resolves coupon, gifts and shipping for a checkout and runs the pricing engine
type PricingService struct {
	coupons     pricing.CouponRepository
	gifts       pricing.GiftRepository
	quoter      shipping.Quoter
	orders      sales.OrderRepository
	carts       sales.CartRepository
	pickupLabel string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPricingService creates a new PricingService
func NewPricingService(
	coupons pricing.CouponRepository,
	gifts pricing.GiftRepository,
	quoter shipping.Quoter,
	orders sales.OrderRepository,
	carts sales.CartRepository,
	pickupLabel string,
	logger *zap.Logger,
) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		coupons:     coupons,
		gifts:       gifts,
		quoter:      quoter,
		orders:      orders,
		carts:       carts,
		pickupLabel: pickupLabel,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides time.Now for coupon expiry checks
func (s *PricingService) SetClock(now func() time.Time) {
	s.now = now
}

// PriceCheckout computes shipping, discount, gift status and grand total for items.
// Coupon, gift and shipping lookups run concurrently; the first failure cancels the rest.
func (s *PricingService) PriceCheckout(ctx context.Context, req PriceCheckoutRequest) (*pricing.Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "price_checkout")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCheckoutItems, len(req.Items),
		telemetry.SpanAttrShippingMethod, string(req.Selection.Method),
		telemetry.SpanAttrCouponCode, pricing.NormalizeCode(req.CouponCode),
	)

	if len(req.Items) == 0 {
		return nil, ErrEmptyCheckout
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, sales.ErrInvalidQuantity
		}
	}

	var (
		coupon *pricing.Coupon
		gifts  []pricing.Gift
		option shipping.Option
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coupon, err = s.resolveCoupon(gctx, req.CouponCode)
		return err
	})
	g.Go(func() error {
		var err error
		gifts, err = s.gifts.ListActive(gctx)
		if err != nil {
			return fmt.Errorf("list gifts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		option, err = s.resolveShipping(gctx, req.Selection, req.Items)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := pricing.Calculate(pricing.Input{
		Items:    req.Items,
		Coupon:   coupon,
		Shipping: option,
		Gifts:    gifts,
	})
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductsTotal, result.ProductsTotal.String(),
		telemetry.SpanAttrDiscount, result.Discount.String(),
		telemetry.SpanAttrGrandTotal, result.GrandTotal.String(),
	)
	telemetry.SetOK(span)
	return &result, nil
}

// PriceOrder prices an order's cart lines
func (s *PricingService) PriceOrder(ctx context.Context, req PriceOrderRequest) (*pricing.Result, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	items, err := s.LineItems(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.PriceCheckout(ctx, PriceCheckoutRequest{
		Items:      items,
		Selection:  req.Selection,
		CouponCode: req.CouponCode,
	})
}

// LineItems returns the order's cart lines at their sale-time prices
func (s *PricingService) LineItems(ctx context.Context, order *sales.Order) ([]pricing.LineItem, error) {
	if order.CartID == nil {
		return nil, ErrEmptyCheckout
	}
	cart, err := s.carts.FindByID(ctx, *order.CartID)
	if err != nil {
		return nil, err
	}
	items := make([]pricing.LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, pricing.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return items, nil
}

// ShippingOptions lists pickup plus the quoted delivery options for postalCode.
// A failing quote collaborator degrades the list to pickup only.
func (s *PricingService) ShippingOptions(ctx context.Context, postalCode string, items []pricing.LineItem) (*ShippingOptionsResult, error) {
	pickup := shipping.Pickup(s.pickupLabel)
	if postalCode == "" {
		return &ShippingOptionsResult{Options: []shipping.Option{pickup}}, nil
	}
	cep, err := valueobject.NewPostalCode(postalCode)
	if err != nil {
		return nil, err
	}

	quoted, err := s.quoter.Quote(ctx, quoteRequest(cep, items))
	if err != nil {
		s.logger.Warn("shipping quote failed, offering pickup only",
			zap.String("postal_code", cep.String()),
			zap.Error(err),
		)
		return &ShippingOptionsResult{Options: []shipping.Option{pickup}, Degraded: true}, nil
	}

	options := make([]shipping.Option, 0, len(quoted)+1)
	options = append(options, pickup)
	options = append(options, quoted...)
	return &ShippingOptionsResult{Options: options}, nil
}

// ShippingOptionsForOrder lists shipping options for an order's cart
func (s *PricingService) ShippingOptionsForOrder(ctx context.Context, orderID uuid.UUID, postalCode string) (*ShippingOptionsResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.LineItems(ctx, order)
	if err != nil {
		return nil, err
	}
	return s.ShippingOptions(ctx, postalCode, items)
}

func (s *PricingService) resolveCoupon(ctx context.Context, code string) (*pricing.Coupon, error) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		return nil, nil
	}
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if coupon == nil {
		return nil, pricing.ErrCouponNotFound
	}
	if err := coupon.CheckUsable(s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *PricingService) resolveShipping(ctx context.Context, sel shipping.Selection, items []pricing.LineItem) (shipping.Option, error) {
	if sel.IsPickup() {
		return shipping.Pickup(s.pickupLabel), nil
	}

	options, err := s.quoter.Quote(ctx, quoteRequest(sel.PostalCode, items))
	if err != nil {
		return shipping.Option{}, shipping.ErrQuoteUnavailable.Wrap(err)
	}
	option, ok := shipping.FindOption(options, sel.OptionID)
	if !ok {
		return shipping.Option{}, shipping.ErrOptionUnavailable
	}
	return option, nil
}

func quoteRequest(cep valueobject.PostalCode, items []pricing.LineItem) shipping.QuoteRequest {
	req := shipping.QuoteRequest{Destination: cep, Items: make([]shipping.Item, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, shipping.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return req
}
