package company

import (
	"context"

	"github.com/rwbiz/backend/internal/domain/company"
)

// TransactionScope runs company and membership writes in one database transaction
type TransactionScope interface {
	// Execute runs fn within a transaction; an error rolls everything back
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories bound to the current transaction
type TransactionalRepositories interface {
	CompanyRepo() company.CompanyRepository
	MembershipRepo() company.MembershipRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	companyRepo    company.CompanyRepository
	membershipRepo company.MembershipRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(companyRepo company.CompanyRepository, membershipRepo company.MembershipRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{companyRepo: companyRepo, membershipRepo: membershipRepo}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CompanyRepo returns the company repository
func (s *NoOpTransactionScope) CompanyRepo() company.CompanyRepository { return s.companyRepo }

// MembershipRepo returns the membership repository
func (s *NoOpTransactionScope) MembershipRepo() company.MembershipRepository {
	return s.membershipRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
