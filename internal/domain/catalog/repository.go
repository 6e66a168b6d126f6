package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository is the catalog accessor used at sale time
type ProductRepository interface {
	// FindByID finds a product by ID, returns ErrProductNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// DecrementStock lowers stock by qty only if at least qty units remain.
	// Returns shared.ErrInsufficientStock when the condition does not hold.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
