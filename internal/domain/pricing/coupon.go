package pricing

import (
	"strings"
	"time"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DiscountKind is how a coupon computes its discount
type DiscountKind string

const (
	DiscountFlat        DiscountKind = "FLAT"
	DiscountPercentage  DiscountKind = "PERCENTAGE"
	DiscountProgressive DiscountKind = "PROGRESSIVE"
)

// IsValid checks if the kind is a known value
func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountFlat, DiscountPercentage, DiscountProgressive:
		return true
	}
	return false
}

// Coupon errors, all shown inline at checkout
var (
	ErrCouponNotFound  = shared.NewValidationError("COUPON_NOT_FOUND", "Coupon not found")
	ErrCouponExpired   = shared.NewValidationError("COUPON_EXPIRED", "Coupon has expired")
	ErrCouponExhausted = shared.NewValidationError("COUPON_EXHAUSTED", "Coupon usage limit reached")
	ErrInvalidCoupon   = shared.NewValidationError("INVALID_COUPON", "Invalid coupon definition")
)

var hundred = decimal.NewFromInt(100)

// ProgressiveTier applies Percent to totals in [Min, Max). A nil Max is open-ended.
type ProgressiveTier struct {
	Min     decimal.Decimal  `json:"min"`
	Max     *decimal.Decimal `json:"max"`
	Percent decimal.Decimal  `json:"percent"`
}

// Contains reports whether total falls in the tier's range
func (t ProgressiveTier) Contains(total decimal.Decimal) bool {
	if total.LessThan(t.Min) {
		return false
	}
	return t.Max == nil || total.LessThan(*t.Max)
}

// Coupon is a discount code. The pricing engine only reads it;
// usage count is advanced by the checkout orchestrator.
type Coupon struct {
	shared.BaseEntity
	Code       string
	Kind       DiscountKind
	Value      decimal.Decimal
	Tiers      []ProgressiveTier
	ExpiresAt  *time.Time
	UsageLimit *int
	UsageCount int
	Active     bool
}

// NormalizeCode trims and upper-cases a coupon code as typed by a customer
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates an active coupon after validating its definition
func NewCoupon(code string, kind DiscountKind, value decimal.Decimal, tiers []ProgressiveTier) (*Coupon, error) {
	c := &Coupon{
		BaseEntity: shared.NewBaseEntity(),
		Code:       NormalizeCode(code),
		Kind:       kind,
		Value:      value,
		Tiers:      tiers,
		Active:     true,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the coupon definition
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return ErrInvalidCoupon.WithMessage("Coupon code cannot be empty")
	}
	switch c.Kind {
	case DiscountFlat:
		if c.Value.IsNegative() {
			return ErrInvalidCoupon.WithMessage("Flat discount cannot be negative")
		}
	case DiscountPercentage:
		if c.Value.IsNegative() || c.Value.GreaterThan(hundred) {
			return ErrInvalidCoupon.WithMessage("Percentage must be between 0 and 100")
		}
	case DiscountProgressive:
		if len(c.Tiers) == 0 {
			return ErrInvalidCoupon.WithMessage("Progressive coupon needs at least one tier")
		}
		for _, tier := range c.Tiers {
			if tier.Min.IsNegative() || tier.Percent.IsNegative() || tier.Percent.GreaterThan(hundred) {
				return ErrInvalidCoupon.WithMessage("Tier bounds and percent must be within range")
			}
			if tier.Max != nil && !tier.Max.GreaterThan(tier.Min) {
				return ErrInvalidCoupon.WithMessage("Tier max must be greater than min")
			}
		}
	default:
		return ErrInvalidCoupon.WithMessage("Unknown discount kind")
	}
	if c.UsageLimit != nil && *c.UsageLimit < 0 {
		return ErrInvalidCoupon.WithMessage("Usage limit cannot be negative")
	}
	return nil
}

// CheckUsable verifies the coupon can be applied at now
func (c *Coupon) CheckUsable(now time.Time) error {
	if !c.Active {
		return ErrCouponNotFound
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.IsExhausted() {
		return ErrCouponExhausted
	}
	return nil
}

// IsExhausted reports whether the usage cap has been reached
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

// Strategy returns the discount strategy for the coupon's kind
func (c *Coupon) Strategy() DiscountStrategy {
	switch c.Kind {
	case DiscountPercentage:
		return NewPercentageDiscount(c.Value)
	case DiscountProgressive:
		return NewProgressiveDiscount(c.Tiers)
	default:
		return NewFlatDiscount(c.Value)
	}
}

// Discount computes the discount this coupon grants on productsTotal
func (c *Coupon) Discount(productsTotal valueobject.Money) valueobject.Money {
	return c.Strategy().Discount(productsTotal)
}
