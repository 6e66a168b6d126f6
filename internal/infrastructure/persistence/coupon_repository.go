package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCouponRepository implements pricing.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByCode returns the coupon with the normalized code, or nil
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*pricing.Coupon, error) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		return nil, nil
	}
	var found []models.CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].ToDomain(), nil
}

// IncrementUsage advances usage_count only while it is below usage_limit
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		Updates(map[string]any{
			"usage_count": gorm.Expr("usage_count + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CouponModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return pricing.ErrCouponNotFound
	}
	return pricing.ErrCouponExhausted
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *pricing.Coupon) error {
	if err := coupon.Validate(); err != nil {
		return err
	}
	model := models.CouponModelFromDomain(coupon)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "kind", "value", "tiers", "expires_at", "usage_limit", "active", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormCouponRepository implements pricing.CouponRepository
var _ pricing.CouponRepository = (*GormCouponRepository)(nil)

// GormGiftRepository implements pricing.GiftRepository using GORM
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGormGiftRepository creates a new GormGiftRepository
func NewGormGiftRepository(db *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: db}
}

// ListActive returns active gifts ordered by threshold
func (r *GormGiftRepository) ListActive(ctx context.Context) ([]pricing.Gift, error) {
	var found []models.GiftModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("minimum_purchase ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}
	gifts := make([]pricing.Gift, len(found))
	for i := range found {
		gifts[i] = found[i].ToDomain()
	}
	return gifts, nil
}

// Save creates or updates a gift
func (r *GormGiftRepository) Save(ctx context.Context, gift pricing.Gift) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "minimum_purchase", "active", "updated_at"}),
		}).
		Create(models.GiftModelFromDomain(gift)).Error
}

// Ensure GormGiftRepository implements pricing.GiftRepository
var _ pricing.GiftRepository = (*GormGiftRepository)(nil)
