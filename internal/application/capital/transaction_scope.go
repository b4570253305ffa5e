package capital

import (
	"context"

	"github.com/rwbiz/backend/internal/domain/capital"
)

// TransactionScope runs locked capital and withdrawal writes atomically
type TransactionScope interface {
	// Execute runs fn within a transaction; an error rolls everything back
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories bound to the current transaction
type TransactionalRepositories interface {
	CapitalRepo() capital.LockedCapitalRepository
	WithdrawalRepo() capital.WithdrawalRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	capitalRepo    capital.LockedCapitalRepository
	withdrawalRepo capital.WithdrawalRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(capitalRepo capital.LockedCapitalRepository, withdrawalRepo capital.WithdrawalRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{capitalRepo: capitalRepo, withdrawalRepo: withdrawalRepo}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CapitalRepo returns the locked capital repository
func (s *NoOpTransactionScope) CapitalRepo() capital.LockedCapitalRepository { return s.capitalRepo }

// WithdrawalRepo returns the withdrawal repository
func (s *NoOpTransactionScope) WithdrawalRepo() capital.WithdrawalRepository { return s.withdrawalRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
