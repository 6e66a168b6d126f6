package persistence

import (
	"context"
	"time"

	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/livesale/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByPhone returns the customer with the canonical phone, or nil when unknown
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone valueobject.Phone) (*customer.Customer, error) {
	return r.findOne(ctx, "phone = ?", phone.String())
}

// FindByHandle returns the customer with the normalized social handle, or nil when unknown.
// Handles are not unique; the most recently updated customer wins.
func (r *GormCustomerRepository) FindByHandle(ctx context.Context, handle string) (*customer.Customer, error) {
	handle = customer.NormalizeHandle(handle)
	if handle == "" {
		return nil, nil
	}
	return r.findOne(ctx, "social_handle = ?", handle)
}

func (r *GormCustomerRepository) findOne(ctx context.Context, query string, args ...any) (*customer.Customer, error) {
	var found []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("updated_at DESC").
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].ToDomain(), nil
}

// Upsert inserts the customer or refreshes handle and name on the row holding its phone.
// Empty incoming fields never blank out stored ones.
func (r *GormCustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	model := models.CustomerModelFromDomain(c)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]any{
				"social_handle": gorm.Expr("COALESCE(NULLIF(excluded.social_handle, ''), customers.social_handle)"),
				"name":          gorm.Expr("COALESCE(NULLIF(excluded.name, ''), customers.name)"),
				"updated_at":    gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(model).Error
}

// Ensure GormCustomerRepository implements customer.Repository
var _ customer.Repository = (*GormCustomerRepository)(nil)
