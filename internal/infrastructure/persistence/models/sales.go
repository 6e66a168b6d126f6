package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// At most one unpaid row exists per (customer_phone, business_day); the partial
// unique index enforcing it lives in the migrations.
type OrderModel struct {
	AggregateModel
	CustomerPhone     string              `gorm:"type:varchar(11);not null;index:idx_orders_phone_day,priority:1"`
	Channel           catalog.SaleChannel `gorm:"type:varchar(10);not null"`
	BusinessDay       string              `gorm:"type:varchar(10);not null;index:idx_orders_phone_day,priority:2"`
	TotalAmount       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Paid              bool                `gorm:"not null;default:false;index"`
	CartID            *uuid.UUID          `gorm:"type:uuid"`
	PaymentReference  string              `gorm:"type:varchar(255)"`
	CouponCode        string              `gorm:"type:varchar(50)"`
	DiscountAmount    *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	ShippingCost      *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	GrandTotal        *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	CheckoutStartedAt *time.Time
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *sales.Order {
	phone, _ := valueobject.NewPhone(m.CustomerPhone)
	order := &sales.Order{
		BaseAggregateRoot: m.AggregateModel.ToDomainAggregateRoot(),
		CustomerPhone:     phone,
		Channel:           m.Channel,
		BusinessDay:       valueobject.BusinessDay(m.BusinessDay),
		TotalAmount:       m.TotalAmount,
		Paid:              m.Paid,
		CartID:            m.CartID,
		PaymentReference:  m.PaymentReference,
		PaidAt:            m.PaidAt,
	}
	if m.CheckoutStartedAt != nil {
		order.Checkout = &sales.CheckoutSnapshot{
			CouponCode:     m.CouponCode,
			DiscountAmount: decimalOrZero(m.DiscountAmount),
			ShippingCost:   decimalOrZero(m.ShippingCost),
			GrandTotal:     decimalOrZero(m.GrandTotal),
			StartedAt:      *m.CheckoutStartedAt,
		}
	}
	return order
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.CustomerPhone = o.CustomerPhone.String()
	m.Channel = o.Channel
	m.BusinessDay = o.BusinessDay.String()
	m.TotalAmount = o.TotalAmount
	m.Paid = o.Paid
	m.CartID = o.CartID
	m.PaymentReference = o.PaymentReference
	m.PaidAt = o.PaidAt
	if o.Checkout != nil {
		m.CouponCode = o.Checkout.CouponCode
		m.DiscountAmount = &o.Checkout.DiscountAmount
		m.ShippingCost = &o.Checkout.ShippingCost
		m.GrandTotal = &o.Checkout.GrandTotal
		m.CheckoutStartedAt = &o.Checkout.StartedAt
	}
}

// OrderModelFromDomain creates a new persistence model from domain entity.
func OrderModelFromDomain(o *sales.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// CartModel is the persistence model for the Cart entity. One cart per order.
type CartModel struct {
	BaseModel
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerPhone string              `gorm:"type:varchar(11);not null"`
	Channel       catalog.SaleChannel `gorm:"type:varchar(10);not null"`
	BusinessDay   string              `gorm:"type:varchar(10);not null"`
	Status        sales.CartStatus    `gorm:"type:varchar(10);not null;default:'OPEN'"`
	Items         []CartItemModel     `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart entity.
func (m *CartModel) ToDomain() *sales.Cart {
	phone, _ := valueobject.NewPhone(m.CustomerPhone)
	cart := &sales.Cart{
		BaseEntity:    m.BaseModel.ToDomain(),
		OrderID:       m.OrderID,
		CustomerPhone: phone,
		Channel:       m.Channel,
		BusinessDay:   valueobject.BusinessDay(m.BusinessDay),
		Status:        m.Status,
		Items:         make([]sales.CartItem, 0, len(m.Items)),
	}
	for i := range m.Items {
		cart.Items = append(cart.Items, m.Items[i].ToDomain())
	}
	return cart
}

// FromDomain populates the persistence model from a domain Cart. Items are written separately.
func (m *CartModel) FromDomain(c *sales.Cart) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.OrderID = c.OrderID
	m.CustomerPhone = c.CustomerPhone.String()
	m.Channel = c.Channel
	m.BusinessDay = c.BusinessDay.String()
	m.Status = c.Status
}

// CartModelFromDomain creates a new persistence model from domain entity.
func CartModelFromDomain(c *sales.Cart) *CartModel {
	m := &CartModel{}
	m.FromDomain(c)
	return m
}

// CartItemModel is one product line of a cart, unique per (cart_id, product_id).
type CartItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() sales.CartItem {
	return sales.CartItem{
		ID:        m.ID,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// NewCartItemModel creates a fresh line for an upsert
func NewCartItemModel(cartID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal, now time.Time) *CartItemModel {
	return &CartItemModel{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
