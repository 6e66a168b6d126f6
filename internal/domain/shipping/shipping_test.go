package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelection(t *testing.T) {
	t.Run("empty method means pickup", func(t *testing.T) {
		s, err := NewSelection("", "", "")
		require.NoError(t, err)
		assert.True(t, s.IsPickup())
		assert.Equal(t, PickupOptionID, s.OptionID)
	})

	t.Run("delivery needs postal code", func(t *testing.T) {
		_, err := NewSelection("delivery", "sedex", "123")
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("delivery needs option", func(t *testing.T) {
		_, err := NewSelection("DELIVERY", " ", "30130-010")
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("valid delivery", func(t *testing.T) {
		s, err := NewSelection("delivery", "sedex", "30130-010")
		require.NoError(t, err)
		assert.False(t, s.IsPickup())
		assert.Equal(t, "30130010", s.PostalCode.String())
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := NewSelection("drone", "x", "30130010")
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})
}

func TestFindOption(t *testing.T) {
	options := []Option{Pickup(""), {ID: "pac", Price: decimal.NewFromInt(20)}}

	o, ok := FindOption(options, "pac")
	require.True(t, ok)
	assert.True(t, o.Price.Equal(decimal.NewFromInt(20)))

	_, ok = FindOption(options, "sedex")
	assert.False(t, ok)
	assert.True(t, options[0].Price.IsZero())
}
