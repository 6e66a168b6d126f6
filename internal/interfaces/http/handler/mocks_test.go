package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	checkoutapp "github.com/livesale/backend/internal/application/checkout"
	salesapp "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type mockSaleRecorder struct {
	mock.Mock
}

func (m *mockSaleRecorder) RecordSale(ctx context.Context, req salesapp.RecordSaleRequest) (*salesapp.RecordSaleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.RecordSaleResult), args.Error(1)
}

type mockOrderQuery struct {
	mock.Mock
}

func (m *mockOrderQuery) GetOrder(ctx context.Context, id uuid.UUID) (*salesapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.OrderResponse), args.Error(1)
}

func (m *mockOrderQuery) ListOrders(ctx context.Context, req salesapp.ListOrdersRequest) (*shared.Paginated[salesapp.OrderResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.OrderResponse]), args.Error(1)
}

type mockCheckoutPricer struct {
	mock.Mock
}

func (m *mockCheckoutPricer) PriceCheckout(ctx context.Context, req checkoutapp.PriceCheckoutRequest) (*pricing.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Result), args.Error(1)
}

func (m *mockCheckoutPricer) PriceOrder(ctx context.Context, req checkoutapp.PriceOrderRequest) (*pricing.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Result), args.Error(1)
}

func (m *mockCheckoutPricer) ShippingOptionsForOrder(ctx context.Context, orderID uuid.UUID, postalCode string) (*checkoutapp.ShippingOptionsResult, error) {
	args := m.Called(ctx, orderID, postalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.ShippingOptionsResult), args.Error(1)
}

type mockCheckoutProcessor struct {
	mock.Mock
}

func (m *mockCheckoutProcessor) Checkout(ctx context.Context, req checkoutapp.CheckoutRequest) (*checkoutapp.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.CheckoutResponse), args.Error(1)
}

func (m *mockCheckoutProcessor) ConfirmPayment(ctx context.Context, req checkoutapp.ConfirmPaymentRequest) (*checkoutapp.ConfirmPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkoutapp.ConfirmPaymentResponse), args.Error(1)
}

// stubIdempotencyStore fails every call with err
type stubIdempotencyStore struct {
	err error
}

func (s stubIdempotencyStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, s.err
}

func (s stubIdempotencyStore) Complete(context.Context, string, []byte, time.Duration) error {
	return s.err
}

func (s stubIdempotencyStore) Lookup(context.Context, string) ([]byte, error) { return nil, s.err }
func (s stubIdempotencyStore) Release(context.Context, string) error          { return s.err }
func (s stubIdempotencyStore) Close() error                                    { return nil }
