package pricing

import (
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DiscountStrategy computes a discount from the products total
type DiscountStrategy interface {
	Name() string
	Discount(productsTotal valueobject.Money) valueobject.Money
}

// FlatDiscount subtracts a fixed amount, never more than the total
type FlatDiscount struct {
	value decimal.Decimal
}

// NewFlatDiscount creates a flat discount strategy
func NewFlatDiscount(value decimal.Decimal) *FlatDiscount {
	return &FlatDiscount{value: value}
}

// Name returns the strategy name
func (s *FlatDiscount) Name() string { return "flat" }

// Discount returns min(value, total)
func (s *FlatDiscount) Discount(total valueobject.Money) valueobject.Money {
	return valueobject.NewMoney(s.value, total.Currency()).Min(total).ClampZero()
}

// PercentageDiscount takes a percentage of the total
type PercentageDiscount struct {
	percent decimal.Decimal
}

// NewPercentageDiscount creates a percentage discount strategy
func NewPercentageDiscount(percent decimal.Decimal) *PercentageDiscount {
	return &PercentageDiscount{percent: percent}
}

// Name returns the strategy name
func (s *PercentageDiscount) Name() string { return "percentage" }

// Discount returns total * percent / 100 rounded to cents
func (s *PercentageDiscount) Discount(total valueobject.Money) valueobject.Money {
	return total.Percentage(s.percent)
}

// ProgressiveDiscount picks a percentage by the range the total falls in.
// Tiers are evaluated in list order and the first match wins.
type ProgressiveDiscount struct {
	tiers []ProgressiveTier
}

// NewProgressiveDiscount creates a progressive discount strategy.
// The tier order is kept as given.
func NewProgressiveDiscount(tiers []ProgressiveTier) *ProgressiveDiscount {
	copied := make([]ProgressiveTier, len(tiers))
	copy(copied, tiers)
	return &ProgressiveDiscount{tiers: copied}
}

// Name returns the strategy name
func (s *ProgressiveDiscount) Name() string { return "progressive" }

// MatchTier returns the first tier containing total
func (s *ProgressiveDiscount) MatchTier(total decimal.Decimal) (ProgressiveTier, bool) {
	for _, tier := range s.tiers {
		if tier.Contains(total) {
			return tier, true
		}
	}
	return ProgressiveTier{}, false
}

// Discount returns the matched tier's percentage of total, zero when no tier matches
func (s *ProgressiveDiscount) Discount(total valueobject.Money) valueobject.Money {
	tier, ok := s.MatchTier(total.Amount())
	if !ok {
		return valueobject.Zero(total.Currency())
	}
	return total.Percentage(tier.Percent)
}
