package billing

import (
	"context"

	"github.com/rwbiz/backend/internal/domain/billing"
)

// TransactionScope runs invoice and receipt writes atomically
type TransactionScope interface {
	// Execute runs fn within a transaction; an error rolls everything back
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories bound to the current transaction
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	ReceiptRepo() billing.ReceiptRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// Used in tests.
type NoOpTransactionScope struct {
	invoiceRepo billing.InvoiceRepository
	receiptRepo billing.ReceiptRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(invoiceRepo billing.InvoiceRepository, receiptRepo billing.ReceiptRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoiceRepo: invoiceRepo, receiptRepo: receiptRepo}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.invoiceRepo }

// ReceiptRepo returns the receipt repository
func (s *NoOpTransactionScope) ReceiptRepo() billing.ReceiptRepository { return s.receiptRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
