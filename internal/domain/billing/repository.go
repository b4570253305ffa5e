package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status Status
	From   *time.Time
	To     *time.Time
}

// Receivables summarises money owed to a company
type Receivables struct {
	Outstanding  decimal.Decimal
	OverdueCount int64
	OverdueTotal decimal.Decimal
}

// PeriodTotals aggregates non-cancelled invoices issued in a period
type PeriodTotals struct {
	Subtotal decimal.Decimal
	VATTotal decimal.Decimal
	Total    decimal.Decimal
	Count    int64
}

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)
	// NextSequence returns the next number in the company's sequence for
	// the given PREFIX-YYYYMM- stem
	NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error)
	// FindDueForOverdue returns open invoices across companies whose due date is before asOf
	FindDueForOverdue(ctx context.Context, asOf time.Time, limit int) ([]Invoice, error)
	TotalsBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (PeriodTotals, error)
	Receivables(ctx context.Context, companyID uuid.UUID) (Receivables, error)
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// ReceiptFilter narrows receipt listings
type ReceiptFilter struct {
	shared.Filter
	InvoiceID *uuid.UUID
}

// ReceiptRepository defines persistence for receipts
type ReceiptRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Receipt, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter ReceiptFilter) ([]Receipt, int64, error)
	NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error)
	Save(ctx context.Context, r *Receipt) error
}
