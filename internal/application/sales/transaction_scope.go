package sales

import (
	"context"

	"github.com/livesale/backend/internal/domain/catalog"
	"github.com/livesale/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories a sale writes to.
// All repository operations inside Execute commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	Orders() sales.OrderRepository
	Carts() sales.CartRepository
	Products() catalog.ProductRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Used in tests and where the store offers no transactions.
type NoOpTransactionScope struct {
	orders   sales.OrderRepository
	carts    sales.CartRepository
	products catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orders sales.OrderRepository,
	carts sales.CartRepository,
	products catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, carts: carts, products: products}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() sales.OrderRepository { return s.orders }

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() sales.CartRepository { return s.carts }

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
