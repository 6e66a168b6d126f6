package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteDB opens an in-memory database with the storefront schema.
// A single connection keeps every query on the same in-memory database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ProductModel{},
		&models.CustomerModel{},
		&models.OrderModel{},
		&models.CartModel{},
		&models.CartItemModel{},
		&models.CouponModel{},
		&models.GiftModel{},
	))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX ux_orders_open_key ON orders (customer_phone, business_day) WHERE paid = false",
	).Error)

	return db
}

// newMockGormDB creates a GORM DB backed by sqlmock for asserting SQL shape
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedProduct(t *testing.T, db *gorm.DB, code string, price string, stock int) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(code, "Produto "+code, decimal.RequireFromString(price), stock, catalog.SaleChannelLive)
	require.NoError(t, err)
	require.NoError(t, db.Create(models.ProductModelFromDomain(product)).Error)
	return product
}
