package trade

import (
	"context"

	"github.com/storefront/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to order repositories.
// Every repository operation inside Execute joins the same database transaction
// and is committed or rolled back as a unit.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() trade.OrderRepository
}

// NoOpTransactionScope runs fn directly against the given repository.
// This is useful for tests that only observe the calls made.
type NoOpTransactionScope struct {
	orderRepo trade.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orderRepo trade.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
