package pricing

import (
	"testing"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gift(name, min string, active bool) Gift {
	return Gift{BaseEntity: shared.NewBaseEntity(), Name: name, MinimumPurchase: d(min), Active: active}
}

func TestEvaluateGifts(t *testing.T) {
	gifts := []Gift{
		gift("Scrunchie", "100", true),
		gift("Tote bag", "300", true),
		gift("Necklace", "200", true),
		gift("Retired", "150", false),
	}

	t.Run("highest reached threshold is eligible", func(t *testing.T) {
		status := EvaluateGifts(gifts, brl("250"))
		require.NotNil(t, status.Eligible)
		assert.Equal(t, "Necklace", status.Eligible.Name)
		assert.Nil(t, status.Progress)
	})

	t.Run("exact threshold is eligible", func(t *testing.T) {
		status := EvaluateGifts(gifts, brl("300"))
		require.NotNil(t, status.Eligible)
		assert.Equal(t, "Tote bag", status.Eligible.Name)
	})

	t.Run("below every threshold reports progress to the lowest", func(t *testing.T) {
		status := EvaluateGifts(gifts, brl("75"))
		assert.Nil(t, status.Eligible)
		require.NotNil(t, status.Progress)
		assert.Equal(t, "Scrunchie", status.Progress.Gift.Name)
		assert.Equal(t, "75", status.Progress.PercentageAchieved.String())
		assert.Equal(t, "25.00", status.Progress.Remaining.String())
	})

	t.Run("inactive gifts are ignored", func(t *testing.T) {
		status := EvaluateGifts([]Gift{gift("Retired", "10", false)}, brl("50"))
		assert.Nil(t, status.Eligible)
		assert.Nil(t, status.Progress)
	})

	t.Run("no gifts", func(t *testing.T) {
		assert.Equal(t, GiftStatus{}, EvaluateGifts(nil, brl("50")))
	})
}

func TestEvaluateGifts_Monotone(t *testing.T) {
	gifts := []Gift{gift("Scrunchie", "100", true), gift("Tote bag", "300", true)}

	a := EvaluateGifts(gifts, brl("120"))
	b := EvaluateGifts(gifts, brl("290"))
	require.NotNil(t, a.Eligible)
	require.NotNil(t, b.Eligible)
	assert.Equal(t, a.Eligible.ID, b.Eligible.ID)

	low := EvaluateGifts(gifts, brl("10"))
	high := EvaluateGifts(gifts, brl("90"))
	require.NotNil(t, low.Progress)
	require.NotNil(t, high.Progress)
	assert.Equal(t, low.Progress.Gift.ID, high.Progress.Gift.ID)
	assert.True(t, high.Progress.PercentageAchieved.GreaterThan(low.Progress.PercentageAchieved))

	t.Run("neighbouring cents", func(t *testing.T) {
		gifts := []Gift{gift("Necklace", "1000.00", true)}
		totals := []string{"0.01", "0.02", "333.33", "333.34", "499.99", "500.00", "500.01", "999.98", "999.99"}

		var prev *GiftProgress
		for _, total := range totals {
			status := EvaluateGifts(gifts, brl(total))
			require.NotNil(t, status.Progress, total)
			if prev != nil {
				assert.True(t, status.Progress.PercentageAchieved.GreaterThan(prev.PercentageAchieved),
					"%s: %s should exceed %s", total, status.Progress.PercentageAchieved, prev.PercentageAchieved)
			}
			prev = status.Progress
		}
	})

	t.Run("full precision is kept", func(t *testing.T) {
		status := EvaluateGifts([]Gift{gift("Necklace", "1000.00", true)}, brl("500.01"))
		require.NotNil(t, status.Progress)
		assert.True(t, d("50.001").Equal(status.Progress.PercentageAchieved))
	})
}
