package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartStatus represents the status of a cart
type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusClosed CartStatus = "CLOSED"
)

// Cart is the line-item container of exactly one order
type Cart struct {
	shared.BaseEntity
	OrderID       uuid.UUID
	CustomerPhone valueobject.Phone
	Channel       catalog.SaleChannel
	BusinessDay   valueobject.BusinessDay
	Status        CartStatus
	Items         []CartItem
}

// CartItem is one product line; a cart holds at most one per product
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal returns quantity * unit price snapshot
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCartForOrder creates the open cart for order
func NewCartForOrder(order *Order) *Cart {
	return &Cart{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       order.ID,
		CustomerPhone: order.CustomerPhone,
		Channel:       order.Channel,
		BusinessDay:   order.BusinessDay,
		Status:        CartStatusOpen,
		Items:         make([]CartItem, 0),
	}
}

// MergeItem adds quantity to the product's line, refreshing its price snapshot,
// or appends a new line when the product is not in the cart yet.
func (c *Cart) MergeItem(productID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if c.Status == CartStatusClosed {
		return nil, shared.NewValidationError("CART_CLOSED", "Cart is closed")
	}

	now := time.Now()
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].UnitPrice = unitPrice
			c.Items[i].UpdatedAt = now
			return &c.Items[i], nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &c.Items[len(c.Items)-1], nil
}

// ItemFor returns the line for productID
func (c *Cart) ItemFor(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Total sums the line subtotals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Close marks the cart closed once its order is paid
func (c *Cart) Close() {
	c.Status = CartStatusClosed
	c.Touch()
}
