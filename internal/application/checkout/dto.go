package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/livesale/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// PriceCheckoutRequest prices explicit line items
type PriceCheckoutRequest struct {
	Items      []pricing.LineItem
	Selection  shipping.Selection
	CouponCode string
}

// PriceOrderRequest prices the cart of an existing order
type PriceOrderRequest struct {
	OrderID    uuid.UUID
	Selection  shipping.Selection
	CouponCode string
}

// CheckoutRequest starts payment for an order
type CheckoutRequest struct {
	OrderID    uuid.UUID
	Selection  shipping.Selection
	CouponCode string
}

// ConfirmPaymentRequest marks an order paid
type ConfirmPaymentRequest struct {
	OrderID          uuid.UUID
	PaymentReference string
}

// ShippingOptionsResult lists delivery choices; pickup is always first.
// Degraded is set when the quote collaborator failed and only pickup is offered.
type ShippingOptionsResult struct {
	Options  []shipping.Option `json:"options"`
	Degraded bool              `json:"degraded"`
}

// CouponResponse describes the applied coupon
type CouponResponse struct {
	Code     string `json:"code"`
	Kind     string `json:"kind"`
	Strategy string `json:"strategy"`
}

// GiftResponse is a gift threshold
type GiftResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MinimumPurchase decimal.Decimal `json:"minimum_purchase"`
}

// GiftProgressResponse shows how far the order is from the next gift
type GiftProgressResponse struct {
	Gift               GiftResponse      `json:"gift"`
	PercentageAchieved decimal.Decimal   `json:"percentage_achieved"`
	Remaining          valueobject.Money `json:"remaining"`
}

// PricingResponse is the payable breakdown of a checkout
type PricingResponse struct {
	ProductsTotal valueobject.Money     `json:"products_total"`
	Discount      valueobject.Money     `json:"discount"`
	ShippingCost  valueobject.Money     `json:"shipping_cost"`
	GrandTotal    valueobject.Money     `json:"grand_total"`
	Coupon        *CouponResponse       `json:"coupon,omitempty"`
	Shipping      shipping.Option       `json:"shipping"`
	EligibleGift  *GiftResponse         `json:"eligible_gift,omitempty"`
	GiftProgress  *GiftProgressResponse `json:"gift_progress,omitempty"`
}

// CheckoutResponse carries the pricing and where to send the customer to pay
type CheckoutResponse struct {
	OrderID          uuid.UUID       `json:"order_id"`
	Pricing          PricingResponse `json:"pricing"`
	PaymentReference string          `json:"payment_reference"`
	RedirectURL      string          `json:"redirect_url,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	Paid             bool            `json:"paid"`
}

// ConfirmPaymentResponse reports the paid order
type ConfirmPaymentResponse struct {
	OrderID          uuid.UUID  `json:"order_id"`
	PaymentReference string     `json:"payment_reference"`
	PaidAt           *time.Time `json:"paid_at"`
	AlreadyPaid      bool       `json:"already_paid"`
}

func toGiftResponse(g pricing.Gift) GiftResponse {
	return GiftResponse{ID: g.ID, Name: g.Name, MinimumPurchase: g.MinimumPurchase}
}

// ToPricingResponse converts an engine result to a response
func ToPricingResponse(r *pricing.Result) PricingResponse {
	resp := PricingResponse{
		ProductsTotal: r.ProductsTotal,
		Discount:      r.Discount,
		ShippingCost:  r.ShippingCost,
		GrandTotal:    r.GrandTotal,
		Shipping:      r.Shipping,
	}
	if r.Coupon != nil {
		resp.Coupon = &CouponResponse{Code: r.Coupon.Code, Kind: string(r.Coupon.Kind), Strategy: r.Coupon.Strategy}
	}
	if r.Gift.Eligible != nil {
		g := toGiftResponse(*r.Gift.Eligible)
		resp.EligibleGift = &g
	}
	if p := r.Gift.Progress; p != nil {
		resp.GiftProgress = &GiftProgressResponse{
			Gift:               toGiftResponse(p.Gift),
			PercentageAchieved: p.PercentageAchieved.Round(2),
			Remaining:          p.Remaining,
		}
	}
	return resp
}
