package persistence

import (
	"context"

	appbilling "github.com/rwbiz/backend/internal/application/billing"
	appcapital "github.com/rwbiz/backend/internal/application/capital"
	appcompany "github.com/rwbiz/backend/internal/application/company"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/company"
	"gorm.io/gorm"
)

// GormTransactionScope runs application work inside a GORM transaction.
// One value serves every module; each Execute variant hands out
// repositories bound to the same tx.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(r *gormTransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Billing returns the scope used by the invoice service
func (s *GormTransactionScope) Billing() appbilling.TransactionScope {
	return billingTx{s}
}

// Capital returns the scope used by the capital service
func (s *GormTransactionScope) Capital() appcapital.TransactionScope {
	return capitalTx{s}
}

// Company returns the scope used by the company service
func (s *GormTransactionScope) Company() appcompany.TransactionScope {
	return companyTx{s}
}

type billingTx struct{ s *GormTransactionScope }

func (b billingTx) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return b.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

type capitalTx struct{ s *GormTransactionScope }

func (c capitalTx) Execute(ctx context.Context, fn func(repos appcapital.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

type companyTx struct{ s *GormTransactionScope }

func (c companyTx) Execute(ctx context.Context, fn func(repos appcompany.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(r *gormTransactionalRepositories) error { return fn(r) })
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// ReceiptRepo returns the receipt repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReceiptRepo() billing.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

// CapitalRepo returns the locked capital repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CapitalRepo() capital.LockedCapitalRepository {
	return NewGormLockedCapitalRepository(r.tx)
}

// WithdrawalRepo returns the withdrawal repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WithdrawalRepo() capital.WithdrawalRepository {
	return NewGormWithdrawalRepository(r.tx)
}

// CompanyRepo returns the company repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CompanyRepo() company.CompanyRepository {
	return NewGormCompanyRepository(r.tx)
}

// MembershipRepo returns the membership repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MembershipRepo() company.MembershipRepository {
	return NewGormMembershipRepository(r.tx)
}

var (
	_ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appcapital.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appcompany.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
