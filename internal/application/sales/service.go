package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics receives sale counters. Implemented by telemetry.BusinessMetrics.
type Metrics interface {
	RecordSale(ctx context.Context, channel string, isNewOrder bool, subtotal decimal.Decimal)
	RecordOrderConflict(ctx context.Context, retried bool)
}

// Option configures a SaleService
type Option func(*SaleService)

// WithEventPublisher sets the publisher that receives events after commit
func WithEventPublisher(publisher shared.EventPublisher) Option {
	return func(s *SaleService) { s.eventPublisher = publisher }
}

// WithMetrics sets the sale metrics sink
func WithMetrics(metrics Metrics) Option {
	return func(s *SaleService) { s.metrics = metrics }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *SaleService) { s.logger = logger }
}

// WithClock overrides time.Now, mostly for business day tests
func WithClock(now func() time.Time) Option {
	return func(s *SaleService) { s.now = now }
}

// WithLocation sets the store time zone used to compute business days
func WithLocation(loc *time.Location) Option {
	return func(s *SaleService) { s.location = loc }
}

// WithLocker sets the per-key sale lock
func WithLocker(locker SaleLocker) Option {
	return func(s *SaleService) { s.locker = locker }
}

// SaleService aggregates sale events into one unpaid order per customer and business day
type SaleService struct {
	products       catalog.ProductRepository
	orders         sales.OrderRepository
	carts          sales.CartRepository
	customers      customer.Repository
	txScope        TransactionScope
	locker         SaleLocker
	eventPublisher shared.EventPublisher
	metrics        Metrics
	logger         *zap.Logger
	now            func() time.Time
	location       *time.Location
}

// NewSaleService creates a new SaleService.
// Reads outside the write transaction use the plain repositories; writes go through txScope.
func NewSaleService(
	products catalog.ProductRepository,
	orders sales.OrderRepository,
	carts sales.CartRepository,
	customers customer.Repository,
	txScope TransactionScope,
	opts ...Option,
) *SaleService {
	s := &SaleService{
		products:  products,
		orders:    orders,
		carts:     carts,
		customers: customers,
		txScope:   txScope,
		locker:    NoOpSaleLocker{},
		logger:    zap.NewNop(),
		now:       time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BusinessDay returns the store-local calendar day for now
func (s *SaleService) BusinessDay() valueobject.BusinessDay {
	return valueobject.BusinessDayOf(s.now(), s.location)
}

// RecordSale adds quantity units of a product to the customer's open order for today,
// opening the order and its cart on the first sale.
func (s *SaleService) RecordSale(ctx context.Context, req RecordSaleRequest) (*RecordSaleResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "record_sale")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleProductID, req.ProductID.String(),
		telemetry.SpanAttrSaleQuantity, req.Quantity,
		telemetry.SpanAttrSaleChannel, req.Channel.String(),
	)

	result, err := s.recordSale(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, result.OrderID.String(),
		telemetry.SpanAttrOrderIsNew, result.IsNewOrder,
	)
	telemetry.SetOK(span)
	return result, nil
}

func (s *SaleService) recordSale(ctx context.Context, req RecordSaleRequest) (*RecordSaleResult, error) {
	if req.Quantity < 1 {
		return nil, sales.ErrInvalidQuantity
	}
	if !req.Channel.IsValid() {
		return nil, catalog.ErrInvalidChannel
	}

	phone, err := s.resolvePhone(ctx, req.Customer)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.CheckSellable(req.Channel, req.Quantity); err != nil {
		return nil, err
	}

	key := sales.AggregationKey{Phone: phone, Day: s.BusinessDay()}
	subtotal := product.Subtotal(req.Quantity).Amount()

	unlock, err := s.locker.Lock(ctx, key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		order *sales.Order
		isNew bool
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		order, isNew, txErr = s.findOrCreate(ctx, repos.Orders(), key, req.Channel, subtotal)
		if txErr != nil {
			return txErr
		}

		cartID, txErr := s.ensureCart(ctx, repos, order)
		if txErr != nil {
			return txErr
		}
		if txErr = repos.Carts().UpsertItem(ctx, cartID, product.ID, req.Quantity, product.UnitPrice); txErr != nil {
			return fmt.Errorf("upsert cart item: %w", txErr)
		}
		return repos.Products().DecrementStock(ctx, product.ID, req.Quantity)
	})
	if err != nil {
		if errors.Is(err, sales.ErrOrderConflict) && s.metrics != nil {
			s.metrics.RecordOrderConflict(ctx, true)
		}
		s.logger.Warn("sale not recorded",
			zap.String("key", key.String()),
			zap.String("product_id", product.ID.String()),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	s.rememberCustomer(ctx, phone, req.Customer)

	events := append(order.GetDomainEvents(),
		sales.NewSaleRecordedEvent(order.ID, product.ID, req.Quantity, product.UnitPrice, isNew))
	order.ClearDomainEvents()
	s.publish(ctx, events...)

	if s.metrics != nil {
		s.metrics.RecordSale(ctx, req.Channel.String(), isNew, subtotal)
	}

	s.logger.Info("sale recorded",
		zap.String("order_id", order.ID.String()),
		zap.String("key", key.String()),
		zap.Bool("new_order", isNew),
		zap.String("subtotal", subtotal.StringFixed(2)),
	)

	return &RecordSaleResult{
		OrderID:     order.ID,
		IsNewOrder:  isNew,
		OrderTotal:  order.TotalAmount,
		BusinessDay: key.Day.String(),
	}, nil
}

// resolvePhone returns the canonical phone for the buyer. A typed phone wins over the handle.
func (s *SaleService) resolvePhone(ctx context.Context, identity customer.Identity) (valueobject.Phone, error) {
	if identity.HasPhone() {
		return valueobject.NewPhone(identity.Phone)
	}

	handle := customer.NormalizeHandle(identity.SocialHandle)
	if handle == "" {
		return valueobject.Phone{}, customer.ErrNotResolvable
	}
	known, err := s.customers.FindByHandle(ctx, handle)
	if err != nil {
		return valueobject.Phone{}, fmt.Errorf("find customer by handle: %w", err)
	}
	if known == nil || known.Phone.IsZero() {
		return valueobject.Phone{}, customer.ErrNotResolvable.WithMessage(
			fmt.Sprintf("No customer with handle @%s, a phone number is required", handle))
	}
	return known.Phone, nil
}

// findOrCreate merges subtotal into the open order for key, or opens one.
// A lost insert race is retried once as a merge; a second miss is ErrOrderConflict.
func (s *SaleService) findOrCreate(
	ctx context.Context,
	orders sales.OrderRepository,
	key sales.AggregationKey,
	channel catalog.SaleChannel,
	subtotal decimal.Decimal,
) (*sales.Order, bool, error) {
	order, err := s.mergeIntoOpenOrder(ctx, orders, key, subtotal)
	if err != nil || order != nil {
		return order, false, err
	}

	order, err = sales.NewOrder(key, channel, subtotal)
	if err != nil {
		return nil, false, err
	}
	err = orders.Create(ctx, order)
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, sales.ErrOpenOrderExists) {
		return nil, false, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("open order created concurrently, merging",
		zap.String("key", key.String()))
	if s.metrics != nil {
		s.metrics.RecordOrderConflict(ctx, false)
	}

	order, err = s.mergeIntoOpenOrder(ctx, orders, key, subtotal)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, sales.ErrOrderConflict
	}
	return order, false, nil
}

// mergeIntoOpenOrder atomically adds subtotal to the open order for key.
// Returns nil when no unpaid order exists, including one paid between the read and the update.
func (s *SaleService) mergeIntoOpenOrder(
	ctx context.Context,
	orders sales.OrderRepository,
	key sales.AggregationKey,
	subtotal decimal.Decimal,
) (*sales.Order, error) {
	order, err := orders.FindOpenByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find open order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	ok, err := orders.AddToTotal(ctx, order.ID, subtotal)
	if err != nil {
		return nil, fmt.Errorf("add to order total: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if err := order.AddSale(subtotal); err != nil {
		return nil, err
	}
	order.IncrementVersion()
	return order, nil
}

func (s *SaleService) ensureCart(ctx context.Context, repos TransactionalRepositories, order *sales.Order) (uuid.UUID, error) {
	if order.CartID != nil {
		return *order.CartID, nil
	}

	cart, err := repos.Carts().GetOrCreateForOrder(ctx, sales.NewCartForOrder(order))
	if err != nil {
		return uuid.Nil, fmt.Errorf("create cart: %w", err)
	}
	if err := repos.Orders().AttachCart(ctx, order.ID, cart.ID); err != nil {
		return uuid.Nil, fmt.Errorf("attach cart: %w", err)
	}
	if err := order.AttachCart(cart.ID); err != nil {
		return uuid.Nil, err
	}
	return cart.ID, nil
}

// rememberCustomer caches the buyer's handle and name. Failures never fail the sale.
func (s *SaleService) rememberCustomer(ctx context.Context, phone valueobject.Phone, identity customer.Identity) {
	if strings.TrimSpace(identity.SocialHandle) == "" && strings.TrimSpace(identity.Name) == "" {
		return
	}

	existing, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		s.logger.Warn("customer lookup failed", zap.String("phone", phone.String()), zap.Error(err))
		return
	}
	if existing == nil {
		existing = customer.NewCustomer(phone)
	}
	if !existing.Merge(identity) {
		return
	}
	if err := s.customers.Upsert(ctx, existing); err != nil {
		s.logger.Warn("customer upsert failed", zap.String("phone", phone.String()), zap.Error(err))
	}
}

func (s *SaleService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish sale events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// GetOrder returns an order with its cart lines
func (s *SaleService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var cart *sales.Cart
	if order.CartID != nil {
		cart, err = s.carts.FindByID(ctx, *order.CartID)
		if err != nil {
			return nil, err
		}
	}
	response := ToOrderResponse(order, cart)
	return &response, nil
}

// ListOrders lists orders with filtering and pagination
func (s *SaleService) ListOrders(ctx context.Context, req ListOrdersRequest) (*shared.Paginated[OrderResponse], error) {
	filter := sales.OrderFilter{Filter: shared.DefaultFilter(), Paid: req.Paid}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = min(req.PageSize, 100)
	}
	if req.BusinessDay != "" {
		day, err := valueobject.ParseBusinessDay(req.BusinessDay)
		if err != nil {
			return nil, err
		}
		filter.BusinessDay = day
	}
	if req.Phone != "" {
		phone, err := valueobject.NewPhone(req.Phone)
		if err != nil {
			return nil, err
		}
		filter.Phone = &phone
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i], nil))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
