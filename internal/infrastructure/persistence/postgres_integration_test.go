//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	appsales "github.com/livesale/backend/internal/application/sales"
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/migration"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/livesale/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// PostgresSuite runs the repositories against a real PostgreSQL with the
// production migrations applied.
type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	sqlDB     *sql.DB
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("livesale_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err, "start postgres container")
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	gormLogger := logger.Default.LogMode(logger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig(gormLogger))
	s.Require().NoError(err)
	s.db = db

	s.sqlDB, err = db.DB()
	s.Require().NoError(err)
	s.sqlDB.SetMaxOpenConns(20)

	s.runMigrations()
}

func (s *PostgresSuite) TearDownSuite() {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Logf("terminate container: %v", err)
		}
	}
}

func (s *PostgresSuite) SetupTest() {
	for _, table := range []string{"cart_items", "carts", "orders", "customers", "products", "coupons", "gifts"} {
		s.Require().NoError(s.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error)
	}
}

func (s *PostgresSuite) runMigrations() {
	m, err := migration.NewFromFS(s.sqlDB, migrations.FS, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(m.Up(), "apply migrations")
}

func (s *PostgresSuite) seedProduct(code, price string, stock int) *catalog.Product {
	product, err := catalog.NewProduct(code, "Produto "+code, decimal.RequireFromString(price), stock, catalog.SaleChannelLive)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Create(models.ProductModelFromDomain(product)).Error)
	return product
}

func (s *PostgresSuite) saleService() *appsales.SaleService {
	return appsales.NewSaleService(
		NewGormProductRepository(s.db),
		NewGormOrderRepository(s.db),
		NewGormCartRepository(s.db),
		NewGormCustomerRepository(s.db),
		NewGormTransactionScope(s.db),
		appsales.WithLocation(time.UTC),
	)
}

// Concurrent sales for one customer must land in a single order whose total
// equals the sum of all subtotals, with no lock in front of the database.
func (s *PostgresSuite) TestConcurrentSalesConvergeOnOneOrder() {
	ctx := context.Background()
	product := s.seedProduct("BLUSA-CONC", "10.00", 1000)
	service := s.saleService()

	const workers = 16
	var recorded atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for attempt := 0; attempt < 5; attempt++ {
				_, err := service.RecordSale(gctx, appsales.RecordSaleRequest{
					Customer:  customer.Identity{Phone: "31999990000"},
					ProductID: product.ID,
					Quantity:  1,
					Channel:   catalog.SaleChannelLive,
				})
				if err == nil {
					recorded.Add(1)
					return nil
				}
				if shared.KindOf(err) != shared.KindConflict {
					return err
				}
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	var open []models.OrderModel
	s.Require().NoError(s.db.Where("customer_phone = ? AND paid = ?", "31999990000", false).Find(&open).Error)
	s.Require().Len(open, 1)

	n := int64(recorded.Load())
	s.True(decimal.NewFromInt(10*n).Equal(open[0].TotalAmount))

	var stored models.ProductModel
	s.Require().NoError(s.db.First(&stored, "id = ?", product.ID).Error)
	s.Equal(1000-int(n), stored.Stock)

	var quantity int64
	s.Require().NoError(s.db.Model(&models.CartItemModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", product.ID).
		Scan(&quantity).Error)
	s.Equal(n, quantity)
}

func (s *PostgresSuite) TestStockNeverGoesNegative() {
	ctx := context.Background()
	product := s.seedProduct("ULTIMA-PECA", "89.90", 3)
	service := s.saleService()

	var sold atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		phone := fmt.Sprintf("3199999%04d", i)
		g.Go(func() error {
			_, err := service.RecordSale(gctx, appsales.RecordSaleRequest{
				Customer:  customer.Identity{Phone: phone},
				ProductID: product.ID,
				Quantity:  1,
				Channel:   catalog.SaleChannelLive,
			})
			switch {
			case err == nil:
				sold.Add(1)
			case errors.Is(err, shared.ErrInsufficientStock):
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(3), sold.Load())
	var stored models.ProductModel
	s.Require().NoError(s.db.First(&stored, "id = ?", product.ID).Error)
	s.Equal(0, stored.Stock)
}

func (s *PostgresSuite) TestOpenOrderIndexAllowsNewOrderAfterPayment() {
	ctx := context.Background()
	repo := NewGormOrderRepository(s.db)
	key := testKey("31988887777", "2026-03-09")

	order, err := sales.NewOrder(key, catalog.SaleChannelLive, decimal.RequireFromString("50"))
	s.Require().NoError(err)
	s.Require().NoError(repo.Create(ctx, order))

	dup, err := sales.NewOrder(key, catalog.SaleChannelLive, decimal.RequireFromString("10"))
	s.Require().NoError(err)
	s.ErrorIs(repo.Create(ctx, dup), sales.ErrOpenOrderExists)

	_, err = order.MarkPaid("", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(repo.Save(ctx, order))

	s.NoError(repo.Create(ctx, dup))
}
