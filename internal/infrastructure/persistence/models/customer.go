package models

import (
	"github.com/livesale/backend/internal/domain/customer"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer domain entity.
// Phone is stored in canonical digits-only form and is the natural key.
type CustomerModel struct {
	BaseModel
	Phone        string `gorm:"type:varchar(11);not null;uniqueIndex"`
	SocialHandle string `gorm:"type:varchar(100);index"`
	Name         string `gorm:"type:varchar(200)"`
	Street       string `gorm:"type:varchar(200)"`
	Number       string `gorm:"type:varchar(20)"`
	Complement   string `gorm:"type:varchar(100)"`
	District     string `gorm:"type:varchar(100)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:char(2)"`
	PostalCode   string `gorm:"type:varchar(8)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *customer.Customer {
	phone, _ := valueobject.NewPhone(m.Phone)
	c := &customer.Customer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Phone:        phone,
		SocialHandle: m.SocialHandle,
		Name:         m.Name,
	}
	if m.Street != "" {
		addr, err := valueobject.NewAddress(m.Street, m.Number, m.City, m.State, m.PostalCode,
			valueobject.WithComplement(m.Complement),
			valueobject.WithDistrict(m.District),
		)
		if err == nil {
			c.Address = addr
		}
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Phone = c.Phone.String()
	m.SocialHandle = c.SocialHandle
	m.Name = c.Name
	m.Street = c.Address.Street()
	m.Number = c.Address.Number()
	m.Complement = c.Address.Complement()
	m.District = c.Address.District()
	m.City = c.Address.City()
	m.State = c.Address.State()
	m.PostalCode = c.Address.PostalCode().String()
}

// CustomerModelFromDomain creates a new persistence model from domain entity.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
