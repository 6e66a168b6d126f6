package catalog

import (
	"errors"
	"testing"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(" blusa-01 ", "Blusa floral", decimal.RequireFromString("59.90"), 5, SaleChannelLive)
		require.NoError(t, err)
		assert.Equal(t, "BLUSA-01", p.Code)
		assert.True(t, p.Active)
		assert.Equal(t, "59.90", p.Price().String())
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct("A", "A", decimal.Zero, -1, SaleChannelLive)
		assert.Error(t, err)
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		_, err := NewProduct("A", "A", decimal.Zero, 1, SaleChannel("SHOP"))
		assert.ErrorIs(t, err, ErrInvalidChannel)
	})
}

func TestParseSaleChannel(t *testing.T) {
	c, err := ParseSaleChannel("bazar")
	require.NoError(t, err)
	assert.Equal(t, SaleChannelBazar, c)

	_, err = ParseSaleChannel("store")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestProduct_CheckSellable(t *testing.T) {
	p, err := NewProduct("A", "A", decimal.NewFromInt(10), 3, SaleChannelLive)
	require.NoError(t, err)

	assert.NoError(t, p.CheckSellable(SaleChannelLive, 3))
	assert.True(t, errors.Is(p.CheckSellable(SaleChannelLive, 4), shared.ErrInsufficientStock))
	assert.ErrorIs(t, p.CheckSellable(SaleChannelBazar, 1), ErrChannelMismatch)

	p.Active = false
	assert.ErrorIs(t, p.CheckSellable(SaleChannelLive, 1), ErrProductInactive)
}

func TestProduct_Subtotal(t *testing.T) {
	p, err := NewProduct("A", "A", decimal.RequireFromString("19.90"), 10, SaleChannelLive)
	require.NoError(t, err)
	assert.Equal(t, "59.70", p.Subtotal(3).String())
}
