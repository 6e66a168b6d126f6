package customer

import (
	"context"

	"github.com/livesale/backend/internal/domain/shared/valueobject"
)

// Repository is the customer directory accessor
type Repository interface {
	// FindByPhone returns the customer for phone, or nil with no error when none exists
	FindByPhone(ctx context.Context, phone valueobject.Phone) (*Customer, error)

	// FindByHandle returns the customer for a normalized social handle, or nil when none exists
	FindByHandle(ctx context.Context, handle string) (*Customer, error)

	// Upsert creates the customer or updates the row that already holds its phone
	Upsert(ctx context.Context, customer *Customer) error
}
