package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	BusinessDay valueobject.BusinessDay
	Phone       *valueobject.Phone
	Paid        *bool
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, returns ErrOrderNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindOpenByKey returns the unpaid order for key, or nil when none exists.
	// If several rows match, the most recently created one is returned.
	FindOpenByKey(ctx context.Context, key AggregationKey) (*Order, error)

	// Create inserts a new order.
	// Returns ErrOpenOrderExists when another unpaid order for the same key already exists.
	Create(ctx context.Context, order *Order) error

	// AddToTotal atomically adds amount to an unpaid order's total.
	// Returns false when the order is no longer unpaid.
	AddToTotal(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (bool, error)

	// AttachCart sets the order's cart if it has none yet
	AttachCart(ctx context.Context, orderID, cartID uuid.UUID) error

	// Save persists checkout and payment state with optimistic locking on version
	Save(ctx context.Context, order *Order) error

	// List returns orders matching filter and the total count
	List(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
}

// CartRepository is the cart store
type CartRepository interface {
	// FindByID loads a cart with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// GetOrCreateForOrder returns the order's cart, inserting cart when the order has none.
	// A cart is unique per order, so concurrent callers converge on the same row.
	GetOrCreateForOrder(ctx context.Context, cart *Cart) (*Cart, error)

	// UpsertItem merges quantity into the (cart, product) line and refreshes the
	// price snapshot, inserting the line when it does not exist
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) error

	// Close marks the cart closed
	Close(ctx context.Context, id uuid.UUID) error
}
