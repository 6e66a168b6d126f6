package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	order, err := NewOrder(testKey, catalog.SaleChannelLive, decimal.Zero)
	require.NoError(t, err)
	return NewCartForOrder(order)
}

func TestCart_MergeItem(t *testing.T) {
	cart := newTestCart(t)
	productA := uuid.New()
	productB := uuid.New()

	_, err := cart.MergeItem(productA, 1, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	_, err = cart.MergeItem(productB, 2, decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	item, err := cart.MergeItem(productA, 3, decimal.RequireFromString("12.00"))
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2, "one line per product")
	assert.Equal(t, 4, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("12.00")), "price snapshot refreshed")
	assert.Equal(t, 4, cart.ItemFor(productA).Quantity)
	assert.Nil(t, cart.ItemFor(uuid.New()))
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("58.00")))
}

func TestCart_MergeItem_Quantities(t *testing.T) {
	// Merge law: the line quantity equals the sum of all sold quantities.
	cart := newTestCart(t)
	product := uuid.New()
	sold := []int{1, 2, 5, 1, 3}
	want := 0
	for _, q := range sold {
		_, err := cart.MergeItem(product, q, decimal.NewFromInt(7))
		require.NoError(t, err)
		want += q
	}
	require.Len(t, cart.Items, 1)
	assert.Equal(t, want, cart.Items[0].Quantity)
}

func TestCart_MergeItem_Rejects(t *testing.T) {
	cart := newTestCart(t)

	_, err := cart.MergeItem(uuid.New(), 0, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	cart.Close()
	assert.Equal(t, CartStatusClosed, cart.Status)
	_, err = cart.MergeItem(uuid.New(), 1, decimal.NewFromInt(1))
	assert.Error(t, err)
}
