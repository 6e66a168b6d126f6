package models

import (
	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Code      string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string              `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Stock     int                 `gorm:"not null;default:0"`
	Channel   catalog.SaleChannel `gorm:"type:varchar(10);not null;index"`
	Active    bool                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		UnitPrice:  m.UnitPrice,
		Stock:      m.Stock,
		Channel:    m.Channel,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.UnitPrice = p.UnitPrice
	m.Stock = p.Stock
	m.Channel = p.Channel
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from domain entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
