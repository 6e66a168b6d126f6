package sales

import (
	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated     = "sales.order.created"
	EventTypeSaleRecorded     = "sales.sale.recorded"
	EventTypeCheckoutStarted  = "checkout.started"
	EventTypePaymentConfirmed = "checkout.payment.confirmed"
)

// OrderCreatedEvent is raised when the first sale of a (customer, day) key opens an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID `json:"order_id"`
	CustomerPhone string    `json:"customer_phone"`
	Channel       string    `json:"channel"`
	BusinessDay   string    `json:"business_day"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerPhone:   order.CustomerPhone.String(),
		Channel:         order.Channel.String(),
		BusinessDay:     order.BusinessDay.String(),
	}
}

// SaleRecordedEvent is raised for every recorded sale, merged or not
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	IsNewOrder bool            `json:"is_new_order"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(orderID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal, isNew bool) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		Subtotal:        unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		IsNewOrder:      isNew,
	}
}

// CheckoutStartedEvent is raised when a payment intent has been created for an order
type CheckoutStartedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID       `json:"order_id"`
	PaymentReference string          `json:"payment_reference"`
	CouponCode       string          `json:"coupon_code,omitempty"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}

// NewCheckoutStartedEvent creates a new CheckoutStartedEvent
func NewCheckoutStartedEvent(order *Order) *CheckoutStartedEvent {
	e := &CheckoutStartedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCheckoutStarted, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		PaymentReference: order.PaymentReference,
	}
	if order.Checkout != nil {
		e.CouponCode = order.Checkout.CouponCode
		e.GrandTotal = order.Checkout.GrandTotal
	}
	return e
}

// PaymentConfirmedEvent is raised when an order is marked paid
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID `json:"order_id"`
	CustomerPhone    string    `json:"customer_phone"`
	PaymentReference string    `json:"payment_reference"`
}

// NewPaymentConfirmedEvent creates a new PaymentConfirmedEvent
func NewPaymentConfirmedEvent(order *Order) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentConfirmed, AggregateTypeOrder, order.ID),
		OrderID:          order.ID,
		CustomerPhone:    order.CustomerPhone.String(),
		PaymentReference: order.PaymentReference,
	}
}
