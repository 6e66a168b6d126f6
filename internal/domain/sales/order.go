package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Sales errors
var (
	ErrInvalidQuantity         = shared.NewValidationError("INVALID_QUANTITY", "Quantity must be at least 1")
	ErrOrderNotFound           = shared.NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
	ErrOrderAlreadyPaid        = shared.NewValidationError("ORDER_ALREADY_PAID", "Order is already paid")
	ErrOpenOrderExists         = shared.NewConflictError("OPEN_ORDER_EXISTS", "An unpaid order already exists for this customer and day")
	ErrOrderConflict           = shared.NewConflictError("ORDER_CONFLICT", "Order was created concurrently by another terminal, please retry")
	ErrPaymentReferenceInvalid = shared.NewValidationError("PAYMENT_REFERENCE_MISMATCH", "Payment reference does not match the order's checkout")
)

// AggregationKey partitions sales into orders: one unpaid order per phone per business day
type AggregationKey struct {
	Phone valueobject.Phone
	Day   valueobject.BusinessDay
}

// String renders the key for locks and logs
func (k AggregationKey) String() string {
	return k.Phone.String() + ":" + k.Day.String()
}

// CheckoutSnapshot is the pricing outcome recorded when a payment intent is created
type CheckoutSnapshot struct {
	CouponCode     string
	DiscountAmount decimal.Decimal
	ShippingCost   decimal.Decimal
	GrandTotal     decimal.Decimal
	StartedAt      time.Time
}

// Order accumulates every sale for a customer on a business day until it is paid.
// Once paid it is immutable to the aggregator.
type Order struct {
	shared.BaseAggregateRoot
	CustomerPhone    valueobject.Phone
	Channel          catalog.SaleChannel
	BusinessDay      valueobject.BusinessDay
	TotalAmount      decimal.Decimal
	Paid             bool
	CartID           *uuid.UUID
	PaymentReference string
	Checkout         *CheckoutSnapshot
	PaidAt           *time.Time
}

// NewOrder opens an order for key with the first sale's subtotal
func NewOrder(key AggregationKey, channel catalog.SaleChannel, firstSubtotal decimal.Decimal) (*Order, error) {
	if key.Phone.IsZero() {
		return nil, valueobject.ErrInvalidPhone
	}
	if !channel.IsValid() {
		return nil, catalog.ErrInvalidChannel
	}
	if firstSubtotal.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Sale amount cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerPhone:     key.Phone,
		Channel:           channel,
		BusinessDay:       key.Day,
		TotalAmount:       firstSubtotal,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// Key returns the aggregation key of the order
func (o *Order) Key() AggregationKey {
	return AggregationKey{Phone: o.CustomerPhone, Day: o.BusinessDay}
}

// Total returns the accumulated product total as Money
func (o *Order) Total() valueobject.Money {
	return valueobject.BRL(o.TotalAmount)
}

// AddSale merges a sale subtotal into the running total. A checkout priced before
// this sale no longer covers the order and is discarded.
func (o *Order) AddSale(subtotal decimal.Decimal) error {
	if o.Paid {
		return ErrOrderAlreadyPaid
	}
	o.TotalAmount = o.TotalAmount.Add(subtotal)
	o.Checkout = nil
	o.PaymentReference = ""
	o.Touch()
	return nil
}

// AttachCart links the order's line-item container
func (o *Order) AttachCart(cartID uuid.UUID) error {
	if o.CartID != nil && *o.CartID != cartID {
		return shared.NewDomainError("CART_ALREADY_ATTACHED", "Order already has a cart")
	}
	o.CartID = &cartID
	return nil
}

// StartCheckout records the priced checkout and the payment collaborator's reference
func (o *Order) StartCheckout(snapshot CheckoutSnapshot, paymentReference string) error {
	if o.Paid {
		return ErrOrderAlreadyPaid
	}
	o.Checkout = &snapshot
	o.PaymentReference = paymentReference
	o.Touch()
	o.AddDomainEvent(NewCheckoutStartedEvent(o))
	return nil
}

// MarkPaid closes the order. Returns false when it was already paid with the same reference.
// A non-empty reference must be the one issued by the order's current checkout.
func (o *Order) MarkPaid(paymentReference string, at time.Time) (bool, error) {
	if o.Paid {
		if paymentReference == "" || paymentReference == o.PaymentReference {
			return false, nil
		}
		return false, ErrOrderAlreadyPaid
	}
	if paymentReference != "" && o.PaymentReference == "" {
		return false, ErrPaymentReferenceInvalid.WithMessage(
			fmt.Sprintf("Payment reference %s does not belong to a checkout in progress; start checkout again", paymentReference))
	}
	if paymentReference != "" && paymentReference != o.PaymentReference {
		return false, ErrPaymentReferenceInvalid.WithMessage(
			fmt.Sprintf("Payment reference %s does not match checkout %s", paymentReference, o.PaymentReference))
	}
	o.Paid = true
	o.PaidAt = &at
	o.UpdatedAt = at
	o.AddDomainEvent(NewPaymentConfirmedEvent(o))
	return true, nil
}

// CouponCode returns the coupon applied at checkout, if any
func (o *Order) CouponCode() string {
	if o.Checkout == nil {
		return ""
	}
	return o.Checkout.CouponCode
}
