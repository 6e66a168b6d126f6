package sales

import (
	"context"

	"github.com/livesale/backend/internal/domain/shared"
)

// ErrSaleBusy is returned when the aggregation key stays locked past the wait budget
var ErrSaleBusy = shared.NewConflictError("SALE_IN_PROGRESS", "Another sale for this customer is still being recorded, please retry")

// SaleLocker serializes writers for one aggregation key across goroutines and, depending on
// the implementation, across instances.
type SaleLocker interface {
	// Lock blocks until key is held or ctx ends. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// NoOpSaleLocker never blocks; the storage constraints alone guard the invariant
type NoOpSaleLocker struct{}

// Lock returns immediately
func (NoOpSaleLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
