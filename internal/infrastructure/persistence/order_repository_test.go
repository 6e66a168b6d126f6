package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testKey(phone, day string) sales.AggregationKey {
	return sales.AggregationKey{Phone: valueobject.MustNewPhone(phone), Day: valueobject.BusinessDay(day)}
}

func newTestOrder(t *testing.T, key sales.AggregationKey, total string) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(key, catalog.SaleChannelLive, decimal.RequireFromString(total))
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_CreateAndFindOpen(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	key := testKey("31999990000", "2026-03-09")

	none, err := repo.FindOpenByKey(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, none)

	order := newTestOrder(t, key, "100.00")
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindOpenByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, key.Phone, found.CustomerPhone)
	assert.Equal(t, key.Day, found.BusinessDay)
	assert.True(t, decimal.RequireFromString("100").Equal(found.TotalAmount))
	assert.Equal(t, 1, found.Version)
	assert.Nil(t, found.Checkout)
}

func TestGormOrderRepository_Create_SecondOpenOrderRejected(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	key := testKey("31999990000", "2026-03-09")

	require.NoError(t, repo.Create(ctx, newTestOrder(t, key, "10.00")))

	err := repo.Create(ctx, newTestOrder(t, key, "20.00"))
	assert.ErrorIs(t, err, sales.ErrOpenOrderExists)

	t.Run("other day and other phone are independent", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, newTestOrder(t, testKey("31999990000", "2026-03-10"), "5.00")))
		assert.NoError(t, repo.Create(ctx, newTestOrder(t, testKey("11988887777", "2026-03-09"), "5.00")))
	})
}

func TestGormOrderRepository_Create_ConflictKeepsTransactionUsable(t *testing.T) {
	db := setupSQLiteDB(t)
	key := testKey("31999990000", "2026-03-09")
	existing := newTestOrder(t, key, "10.00")
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), existing))

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormOrderRepository(tx)
		ctx := context.Background()

		createErr := repo.Create(ctx, newTestOrder(t, key, "20.00"))
		require.ErrorIs(t, createErr, sales.ErrOpenOrderExists)

		ok, addErr := repo.AddToTotal(ctx, existing.ID, decimal.RequireFromString("20.00"))
		require.NoError(t, addErr)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	found, err := NewGormOrderRepository(db).FindByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("30").Equal(found.TotalAmount))
}

func TestGormOrderRepository_AddToTotal(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	order := newTestOrder(t, testKey("31999990000", "2026-03-09"), "49.90")
	require.NoError(t, repo.Create(ctx, order))

	ok, err := repo.AddToTotal(ctx, order.ID, decimal.RequireFromString("30.10"))
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("80").Equal(found.TotalAmount))
	assert.Equal(t, 2, found.Version, "merging a sale bumps the version")

	t.Run("paid order is not merged into", func(t *testing.T) {
		_, err := found.MarkPaid("", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, found))

		ok, err := repo.AddToTotal(ctx, order.ID, decimal.RequireFromString("10"))
		require.NoError(t, err)
		assert.False(t, ok)

		open, err := repo.FindOpenByKey(ctx, order.Key())
		require.NoError(t, err)
		assert.Nil(t, open)
	})

	t.Run("next sale after payment opens a new order", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, newTestOrder(t, order.Key(), "10.00")))
	})
}

func TestGormOrderRepository_AddToTotal_ClearsCheckout(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	order := newTestOrder(t, testKey("31999990000", "2026-03-09"), "100.00")
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, order.StartCheckout(sales.CheckoutSnapshot{
		CouponCode: "DEZ",
		GrandTotal: decimal.RequireFromString("100.00"),
		StartedAt:  time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
	}, "cs_test_1"))
	require.NoError(t, repo.Save(ctx, order))

	ok, err := repo.AddToTotal(ctx, order.ID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	require.True(t, ok)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("200").Equal(found.TotalAmount))
	assert.Nil(t, found.Checkout, "checkout priced at the old total is discarded")
	assert.Empty(t, found.PaymentReference)
	assert.Empty(t, found.CouponCode())

	_, err = found.MarkPaid("cs_test_1", time.Now())
	assert.ErrorIs(t, err, sales.ErrPaymentReferenceInvalid)
	assert.False(t, found.Paid)
}

func TestGormOrderRepository_Save_OptimisticLock(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	order := newTestOrder(t, testKey("31999990000", "2026-03-09"), "130.00")
	require.NoError(t, repo.Create(ctx, order))

	stale, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	fresh, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NoError(t, fresh.StartCheckout(sales.CheckoutSnapshot{
		CouponCode:     "DEZ",
		DiscountAmount: decimal.RequireFromString("13.00"),
		ShippingCost:   decimal.RequireFromString("25.50"),
		GrandTotal:     decimal.RequireFromString("142.50"),
		StartedAt:      time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
	}, "cs_test_1"))
	require.NoError(t, repo.Save(ctx, fresh))
	assert.Equal(t, 2, fresh.Version)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Checkout)
	assert.Equal(t, "DEZ", reloaded.CouponCode())
	assert.True(t, decimal.RequireFromString("142.50").Equal(reloaded.Checkout.GrandTotal))
	assert.Equal(t, "cs_test_1", reloaded.PaymentReference)

	require.NoError(t, stale.StartCheckout(sales.CheckoutSnapshot{StartedAt: time.Now()}, "cs_test_2"))
	err = repo.Save(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormOrderRepository_AttachCart(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	order := newTestOrder(t, testKey("31999990000", "2026-03-09"), "10.00")
	require.NoError(t, repo.Create(ctx, order))

	first, second := uuid.New(), uuid.New()
	require.NoError(t, repo.AttachCart(ctx, order.ID, first))
	require.NoError(t, repo.AttachCart(ctx, order.ID, second))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CartID)
	assert.Equal(t, first, *found.CartID, "an attached cart is never replaced")
}

func TestGormOrderRepository_List(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	day := "2026-03-09"
	for i, phone := range []string{"31999990001", "31999990002", "31999990003"} {
		order := newTestOrder(t, testKey(phone, day), "10.00")
		order.CreatedAt = order.CreatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, order))
		if i == 0 {
			_, err := order.MarkPaid("", time.Now())
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, order))
		}
	}
	require.NoError(t, repo.Create(ctx, newTestOrder(t, testKey("31999990001", "2026-03-08"), "10.00")))

	unpaid := false
	filter := sales.OrderFilter{Filter: shared.DefaultFilter(), BusinessDay: valueobject.BusinessDay(day), Paid: &unpaid}
	orders, total, err := repo.List(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "31999990003", orders[0].CustomerPhone.String(), "newest first by default")

	t.Run("pagination keeps the full count", func(t *testing.T) {
		filter := sales.OrderFilter{Filter: shared.Filter{Page: 2, PageSize: 1}, BusinessDay: valueobject.BusinessDay(day)}
		orders, total, err := repo.List(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, orders, 1)
	})

	t.Run("phone filter", func(t *testing.T) {
		phone := valueobject.MustNewPhone("31999990001")
		filter := sales.OrderFilter{Filter: shared.DefaultFilter(), Phone: &phone}
		_, total, err := repo.List(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestGormOrderRepository_AddToTotal_SQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "orders" SET "checkout_started_at"=\$1,"coupon_code"=\$2,"discount_amount"=\$3,"grand_total"=\$4,"payment_reference"=\$5,"shipping_cost"=\$6,"total_amount"=total_amount \+ \$7,"updated_at"=\$8,"version"=version \+ 1 WHERE id = \$9 AND paid = \$10`).
		WithArgs(nil, "", nil, nil, "", nil, sqlmock.AnyArg(), sqlmock.AnyArg(), id, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.AddToTotal(context.Background(), id, decimal.RequireFromString("19.90"))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
