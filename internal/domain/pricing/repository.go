package pricing

import (
	"context"

	"github.com/google/uuid"
)

// CouponRepository is the coupon accessor
type CouponRepository interface {
	// FindByCode returns the coupon with the normalized code, or nil when none exists
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// IncrementUsage advances usage count by one while capacity remains.
	// Returns ErrCouponExhausted when the cap has already been reached.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// Save creates or updates a coupon
	Save(ctx context.Context, coupon *Coupon) error
}

// GiftRepository lists gift thresholds
type GiftRepository interface {
	// ListActive returns all active gifts
	ListActive(ctx context.Context) ([]Gift, error)
}
