package customer

import (
	"strings"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/domain/shared/valueobject"
)

// ErrNotResolvable is returned when neither a valid phone nor a known social handle identifies the buyer
var ErrNotResolvable = shared.NewValidationError("CUSTOMER_NOT_RESOLVABLE", "Customer must be identified by phone or a known social handle")

// Customer is a buyer identified by canonical phone
type Customer struct {
	shared.BaseEntity
	Phone        valueobject.Phone
	SocialHandle string
	Name         string
	Address      valueobject.Address
}

// NewCustomer creates a customer for phone
func NewCustomer(phone valueobject.Phone) *Customer {
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Phone:      phone,
	}
}

// NormalizeHandle strips the leading "@" and lower-cases a social handle
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// Merge copies non-empty identity fields from other, returning true when anything changed
func (c *Customer) Merge(other Identity) bool {
	changed := false
	if h := NormalizeHandle(other.SocialHandle); h != "" && h != c.SocialHandle {
		c.SocialHandle = h
		changed = true
	}
	if n := strings.TrimSpace(other.Name); n != "" && n != c.Name {
		c.Name = n
		changed = true
	}
	if changed {
		c.Touch()
	}
	return changed
}

// Identity is what a sale operator knows about the buyer at sale time
type Identity struct {
	Phone        string
	SocialHandle string
	Name         string
}

// HasPhone reports whether a phone was typed in
func (i Identity) HasPhone() bool {
	return strings.TrimSpace(i.Phone) != ""
}
