package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/payment"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*pricing.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Coupon), args.Error(1)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *pricing.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) ListActive(ctx context.Context) ([]pricing.Gift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Gift), args.Error(1)
}

type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) Quote(ctx context.Context, req shipping.QuoteRequest) ([]shipping.Option, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.Option), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOpenByKey(ctx context.Context, key sales.AggregationKey) (*sales.Order, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) AddToTotal(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, orderID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) AttachCart(ctx context.Context, orderID, cartID uuid.UUID) error {
	return m.Called(ctx, orderID, cartID).Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]sales.Order), args.Get(1).(int64), args.Error(2)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreateForOrder(ctx context.Context, cart *sales.Cart) (*sales.Cart, error) {
	args := m.Called(ctx, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Cart), args.Error(1)
}

func (m *MockCartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	return m.Called(ctx, cartID, productID, quantity, unitPrice).Error(0)
}

func (m *MockCartRepository) Close(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
