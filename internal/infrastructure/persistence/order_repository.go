package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sales.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByKey returns the newest unpaid order for key, or nil
func (r *GormOrderRepository) FindOpenByKey(ctx context.Context, key sales.AggregationKey) (*sales.Order, error) {
	var found []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("customer_phone = ? AND business_day = ? AND paid = ?", key.Phone.String(), key.Day.String(), false).
		Order("created_at DESC").
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].ToDomain(), nil
}

// Create inserts a new order inside its own savepoint, so a unique violation on the
// open-order index leaves the surrounding transaction usable for the merge retry.
func (r *GormOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if isUniqueViolation(err) {
		return sales.ErrOpenOrderExists
	}
	return err
}

// AddToTotal adds amount to the total of an unpaid order in one statement.
// The version is bumped so a checkout priced before this sale fails to save, and any
// saved checkout is cleared so its payment reference can no longer confirm the order.
func (r *GormOrderRepository) AddToTotal(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND paid = ?", orderID, false).
		Updates(map[string]any{
			"total_amount":        gorm.Expr("total_amount + ?", amount),
			"payment_reference":   "",
			"coupon_code":         "",
			"discount_amount":     nil,
			"shipping_cost":       nil,
			"grand_total":         nil,
			"checkout_started_at": nil,
			"updated_at":          time.Now(),
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AttachCart links cartID to the order unless a cart is already attached
func (r *GormOrderRepository) AttachCart(ctx context.Context, orderID, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND cart_id IS NULL", orderID).
		Update("cart_id", cartID).Error
}

// Save writes checkout and payment state. The row must still carry the version the
// order was loaded with; the stored version is then advanced.
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"paid":                model.Paid,
			"payment_reference":   model.PaymentReference,
			"coupon_code":         model.CouponCode,
			"discount_amount":     model.DiscountAmount,
			"shipping_cost":       model.ShippingCost,
			"grand_total":         model.GrandTotal,
			"checkout_started_at": model.CheckoutStartedAt,
			"paid_at":             model.PaidAt,
			"updated_at":          time.Now(),
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("update order %s: %w", order.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	order.IncrementVersion()
	return nil
}

// List returns a page of orders matching filter and the total count
func (r *GormOrderRepository) List(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(orderFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var found []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(orderFilterScope(filter)).
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&found).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]sales.Order, len(found))
	for i := range found {
		orders[i] = *found[i].ToDomain()
	}
	return orders, total, nil
}

func orderFilterScope(filter sales.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.BusinessDay != "" {
			db = db.Where("business_day = ?", filter.BusinessDay.String())
		}
		if filter.Phone != nil {
			db = db.Where("customer_phone = ?", filter.Phone.String())
		}
		if filter.Paid != nil {
			db = db.Where("paid = ?", *filter.Paid)
		}
		return db
	}
}

// Ensure GormOrderRepository implements sales.OrderRepository
var _ sales.OrderRepository = (*GormOrderRepository)(nil)
