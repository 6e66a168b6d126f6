package pricing

import (
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Gift is a freebie unlocked when the products total reaches MinimumPurchase
type Gift struct {
	shared.BaseEntity
	Name            string
	MinimumPurchase decimal.Decimal
	Active          bool
}

// GiftProgress describes how close the order is to the next gift
type GiftProgress struct {
	Gift               Gift
	PercentageAchieved decimal.Decimal
	Remaining          valueobject.Money
}

// GiftStatus is the gift outcome of a checkout: an eligible gift, or progress toward one, or neither
type GiftStatus struct {
	Eligible *Gift
	Progress *GiftProgress
}

// EvaluateGifts computes gift eligibility against the products total only.
// The eligible gift is the active gift with the highest threshold <= total; if none qualifies
// the progress gift is the active gift with the lowest threshold above total.
func EvaluateGifts(gifts []Gift, productsTotal valueobject.Money) GiftStatus {
	total := productsTotal.Amount()

	var eligible, next *Gift
	for i := range gifts {
		g := &gifts[i]
		if !g.Active {
			continue
		}
		if g.MinimumPurchase.LessThanOrEqual(total) {
			if eligible == nil || g.MinimumPurchase.GreaterThan(eligible.MinimumPurchase) {
				eligible = g
			}
			continue
		}
		if next == nil || g.MinimumPurchase.LessThan(next.MinimumPurchase) {
			next = g
		}
	}

	if eligible != nil {
		gift := *eligible
		return GiftStatus{Eligible: &gift}
	}
	if next == nil {
		return GiftStatus{}
	}

	percent := total.Div(next.MinimumPurchase).Mul(hundred)
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	remaining := valueobject.NewMoney(next.MinimumPurchase.Sub(total), productsTotal.Currency())
	return GiftStatus{
		Progress: &GiftProgress{
			Gift:               *next,
			PercentageAchieved: percent,
			Remaining:          remaining,
		},
	}
}
