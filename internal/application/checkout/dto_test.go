package checkout

import (
	"testing"

	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPricingResponse_RoundsGiftProgress(t *testing.T) {
	necklace := pricing.Gift{BaseEntity: shared.NewBaseEntity(), Name: "Necklace", MinimumPurchase: d("300.00"), Active: true}
	status := pricing.EvaluateGifts([]pricing.Gift{necklace}, valueobject.BRL(d("100.00")))
	require.NotNil(t, status.Progress)
	require.False(t, status.Progress.PercentageAchieved.Equal(d("33.33")), "domain keeps full precision")

	resp := ToPricingResponse(&pricing.Result{Gift: status})

	require.NotNil(t, resp.GiftProgress)
	assert.Equal(t, "33.33", resp.GiftProgress.PercentageAchieved.String())
	assert.Equal(t, "Necklace", resp.GiftProgress.Gift.Name)
	assert.Equal(t, "200.00", resp.GiftProgress.Remaining.String())
}
