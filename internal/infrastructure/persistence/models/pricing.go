package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/livesale/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// TierList stores progressive tiers as a JSON document
type TierList []pricing.ProgressiveTier

// Value implements driver.Valuer
func (t TierList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]pricing.ProgressiveTier(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (t *TierList) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TierList", value)
	}
	return json.Unmarshal(data, (*[]pricing.ProgressiveTier)(t))
}

// CouponModel is the persistence model for the Coupon entity.
type CouponModel struct {
	BaseModel
	Code       string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Kind       pricing.DiscountKind `gorm:"type:varchar(20);not null"`
	Value      decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	Tiers      TierList             `gorm:"type:jsonb"`
	ExpiresAt  *time.Time
	UsageLimit *int
	UsageCount int  `gorm:"not null;default:0"`
	Active     bool `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon entity.
func (m *CouponModel) ToDomain() *pricing.Coupon {
	return &pricing.Coupon{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Kind:       m.Kind,
		Value:      m.Value,
		Tiers:      []pricing.ProgressiveTier(m.Tiers),
		ExpiresAt:  m.ExpiresAt,
		UsageLimit: m.UsageLimit,
		UsageCount: m.UsageCount,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Coupon entity.
func (m *CouponModel) FromDomain(c *pricing.Coupon) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Kind = c.Kind
	m.Value = c.Value
	m.Tiers = TierList(c.Tiers)
	m.ExpiresAt = c.ExpiresAt
	m.UsageLimit = c.UsageLimit
	m.UsageCount = c.UsageCount
	m.Active = c.Active
}

// CouponModelFromDomain creates a new persistence model from domain entity.
func CouponModelFromDomain(c *pricing.Coupon) *CouponModel {
	m := &CouponModel{}
	m.FromDomain(c)
	return m
}

// GiftModel is the persistence model for gift thresholds.
type GiftModel struct {
	BaseModel
	Name            string          `gorm:"type:varchar(200);not null"`
	MinimumPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active          bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (GiftModel) TableName() string {
	return "gifts"
}

// ToDomain converts the persistence model to a domain Gift.
func (m *GiftModel) ToDomain() pricing.Gift {
	return pricing.Gift{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		MinimumPurchase: m.MinimumPurchase,
		Active:          m.Active,
	}
}

// GiftModelFromDomain creates a new persistence model from domain value.
func GiftModelFromDomain(g pricing.Gift) *GiftModel {
	m := &GiftModel{
		Name:            g.Name,
		MinimumPurchase: g.MinimumPurchase,
		Active:          g.Active,
	}
	m.FromDomainBaseEntity(g.BaseEntity)
	return m
}
