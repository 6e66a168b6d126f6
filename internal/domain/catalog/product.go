package catalog

import (
	"strings"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleChannel identifies where a product is sold
type SaleChannel string

const (
	SaleChannelLive  SaleChannel = "LIVE"
	SaleChannelBazar SaleChannel = "BAZAR"
)

// IsValid checks if the channel is a known value
func (c SaleChannel) IsValid() bool {
	switch c {
	case SaleChannelLive, SaleChannelBazar:
		return true
	}
	return false
}

// String returns the string representation
func (c SaleChannel) String() string {
	return string(c)
}

// ParseSaleChannel parses a case-insensitive channel name
func ParseSaleChannel(s string) (SaleChannel, error) {
	c := SaleChannel(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidChannel
	}
	return c, nil
}

// Catalog errors
var (
	ErrProductNotFound = shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	ErrProductInactive = shared.NewValidationError("PRODUCT_INACTIVE", "Product is not available for sale")
	ErrInvalidChannel  = shared.NewValidationError("INVALID_CHANNEL", "Sales channel must be LIVE or BAZAR")
	ErrChannelMismatch = shared.NewValidationError("CHANNEL_MISMATCH", "Product is not sold on this channel")
)

// Product is a sellable item. Stock is only mutated through the repository's
// conditional decrement; catalog edits happen outside this service.
type Product struct {
	shared.BaseEntity
	Code      string
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	Channel   SaleChannel
	Active    bool
}

// NewProduct creates an active product
func NewProduct(code, name string, unitPrice decimal.Decimal, stock int, channel SaleChannel) (*Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewValidationError("INVALID_CODE", "Product code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewValidationError("INVALID_STOCK", "Stock cannot be negative")
	}
	if !channel.IsValid() {
		return nil, ErrInvalidChannel
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       strings.TrimSpace(name),
		UnitPrice:  unitPrice,
		Stock:      stock,
		Channel:    channel,
		Active:     true,
	}, nil
}

// Price returns the unit price as Money
func (p *Product) Price() valueobject.Money {
	return valueobject.BRL(p.UnitPrice)
}

// CheckSellable verifies the product can be sold on channel in the given quantity.
// It performs no writes.
func (p *Product) CheckSellable(channel SaleChannel, quantity int) error {
	if !p.Active {
		return ErrProductInactive
	}
	if p.Channel != channel {
		return ErrChannelMismatch
	}
	if quantity > p.Stock {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Subtotal returns quantity * unit price
func (p *Product) Subtotal(quantity int) valueobject.Money {
	return p.Price().MultiplyByInt(int64(quantity))
}
