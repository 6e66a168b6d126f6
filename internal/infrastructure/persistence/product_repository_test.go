package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_FindByID(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "VEST-01", "89.90", 3)

	t.Run("finds existing product", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)

		require.NoError(t, err)
		assert.Equal(t, "VEST-01", found.Code)
		assert.True(t, product.UnitPrice.Equal(found.UnitPrice))
		assert.Equal(t, 3, found.Stock)
		assert.Equal(t, catalog.SaleChannelLive, found.Channel)
		assert.True(t, found.Active)
	})

	t.Run("unknown id is PRODUCT_NOT_FOUND", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())

		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestGormProductRepository_DecrementStock(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "SAIA-02", "49.90", 2)

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))

	err := repo.DecrementStock(ctx, product.ID, 1)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Stock, "stock never goes negative")

	assert.ErrorIs(t, repo.DecrementStock(ctx, uuid.New(), 1), catalog.ErrProductNotFound)
}

func TestGormProductRepository_DecrementStock_SQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(gormDB)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1,"updated_at"=\$2 WHERE id = \$3 AND stock >= \$4`).
		WithArgs(2, sqlmock.AnyArg(), id, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.DecrementStock(context.Background(), id, 2)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_Save_Updates(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "BLUSA-03", "59.90", 5)

	product.Active = false
	product.Stock = 9
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)
	assert.Equal(t, 9, found.Stock)
}
