package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCartNotFound is returned when a cart id does not exist
var ErrCartNotFound = shared.NewNotFoundError("CART_NOT_FOUND", "Cart not found")

// GormCartRepository implements sales.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID loads a cart and its lines
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreateForOrder inserts cart unless its order already has one, then returns
// whichever row won. The unique index on order_id makes concurrent calls converge.
func (r *GormCartRepository) GetOrCreateForOrder(ctx context.Context, cart *sales.Cart) (*sales.Cart, error) {
	model := models.CartModelFromDomain(cart)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Omit("Items").
		Create(model).Error; err != nil {
		return nil, err
	}

	var stored models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&stored, "order_id = ?", cart.OrderID).Error; err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// UpsertItem merges quantity into the (cart, product) line in one statement and
// refreshes the price snapshot to unitPrice.
func (r *GormCartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if quantity < 1 {
		return sales.ErrInvalidQuantity
	}
	now := time.Now()
	item := models.NewCartItemModel(cartID, productID, quantity, unitPrice, now)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"unit_price": gorm.Expr("excluded.unit_price"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(item).Error
}

// Close marks the cart closed
func (r *GormCartRepository) Close(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     sales.CartStatusClosed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Ensure GormCartRepository implements sales.CartRepository
var _ sales.CartRepository = (*GormCartRepository)(nil)
