package pricing

import (
	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// LineItem is a priced line at its sale-time price snapshot
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns unit price * quantity
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AppliedCoupon summarizes the coupon used in a result
type AppliedCoupon struct {
	Code     string
	Kind     DiscountKind
	Strategy string
}

// Input is everything the engine needs once coupon, shipping option and gifts are resolved
type Input struct {
	Items    []LineItem
	Coupon   *Coupon
	Shipping shipping.Option
	Gifts    []Gift
}

// Result is the computed checkout price
type Result struct {
	ProductsTotal valueobject.Money
	Discount      valueobject.Money
	ShippingCost  valueobject.Money
	GrandTotal    valueobject.Money
	Coupon        *AppliedCoupon
	Shipping      shipping.Option
	Gift          GiftStatus
}

// ProductsTotal sums the snapshot subtotals of items
func ProductsTotal(items []LineItem) valueobject.Money {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return valueobject.BRL(total)
}

// Calculate composes products total, discount, shipping and gifts.
// The grand total is max(0, products - discount) + shipping.
func Calculate(in Input) Result {
	products := ProductsTotal(in.Items)

	discount := valueobject.ZeroBRL()
	var applied *AppliedCoupon
	if in.Coupon != nil {
		strategy := in.Coupon.Strategy()
		discount = strategy.Discount(products)
		applied = &AppliedCoupon{Code: in.Coupon.Code, Kind: in.Coupon.Kind, Strategy: strategy.Name()}
	}

	shippingCost := valueobject.BRL(in.Shipping.Price)

	// Same currency throughout, so the arithmetic below cannot fail.
	net, _ := products.Subtract(discount)
	grand, _ := net.ClampZero().Add(shippingCost)

	return Result{
		ProductsTotal: products,
		Discount:      discount,
		ShippingCost:  shippingCost,
		GrandTotal:    grand,
		Coupon:        applied,
		Shipping:      in.Shipping,
		Gift:          EvaluateGifts(in.Gifts, products),
	}
}
