package dividend

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of a dividend declaration
type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusDeclared    Status = "DECLARED"
	StatusDistributed Status = "DISTRIBUTED"
	StatusCancelled   Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusDeclared, StatusDistributed, StatusCancelled:
		return true
	}
	return false
}

// DefaultWithholdingRate is the Rwandan withholding tax on dividends
var DefaultWithholdingRate = decimal.RequireFromString("0.15")

// Declaration is a dividend pool declared for a fiscal year
type Declaration struct {
	shared.CompanyAggregateRoot
	FiscalYear         int
	DeclarationDate    time.Time
	RecordDate         *time.Time
	PaymentDate        *time.Time
	TotalAmount        decimal.Decimal
	Currency           valueobject.Currency
	WithholdingTaxRate decimal.Decimal
	Status             Status
	Notes              string
	DeclaredBy         *uuid.UUID
	DeclaredAt         *time.Time
	DistributedAt      *time.Time
	CancelReason       string
}

// Terms carries the editable fields of a declaration
type Terms struct {
	FiscalYear         int
	DeclarationDate    time.Time
	RecordDate         *time.Time
	PaymentDate        *time.Time
	TotalAmount        decimal.Decimal
	Currency           valueobject.Currency
	WithholdingTaxRate *decimal.Decimal
	Notes              string
}

// NewDeclaration creates a draft declaration
func NewDeclaration(companyID, createdBy uuid.UUID, terms Terms) (*Declaration, error) {
	d := &Declaration{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               StatusDraft,
	}
	if err := d.apply(terms); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes a draft declaration
func (d *Declaration) Update(terms Terms) error {
	if d.Status != StatusDraft {
		return shared.InvalidState("Only draft declarations can be updated")
	}
	if err := d.apply(terms); err != nil {
		return err
	}
	d.Touch()
	d.IncrementVersion()
	return nil
}

func (d *Declaration) apply(t Terms) error {
	if t.FiscalYear < 1990 || t.FiscalYear > 2200 {
		return shared.InvalidInput("Fiscal year is out of range")
	}
	if t.DeclarationDate.IsZero() {
		return shared.InvalidInput("Declaration date is required")
	}
	if !t.TotalAmount.IsPositive() {
		return shared.InvalidInput("Dividend pool must be positive")
	}
	currency := t.Currency.OrDefault()
	if !currency.IsValid() {
		return shared.InvalidInput("Currency must be a three-letter ISO code")
	}
	rate := DefaultWithholdingRate
	if t.WithholdingTaxRate != nil {
		rate = *t.WithholdingTaxRate
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return shared.InvalidInput("Withholding tax rate must be between 0 and 1")
	}
	if t.PaymentDate != nil && t.PaymentDate.Before(t.DeclarationDate) {
		return shared.InvalidInput("Payment date cannot be before the declaration date")
	}
	if t.RecordDate != nil && t.PaymentDate != nil && t.RecordDate.After(*t.PaymentDate) {
		return shared.InvalidInput("Record date cannot be after the payment date")
	}

	d.FiscalYear = t.FiscalYear
	d.DeclarationDate = t.DeclarationDate
	d.RecordDate = t.RecordDate
	d.PaymentDate = t.PaymentDate
	d.Currency = currency
	d.TotalAmount = currency.Round(t.TotalAmount)
	d.WithholdingTaxRate = rate
	d.Notes = strings.TrimSpace(t.Notes)
	return nil
}

// Declare makes the declaration binding
func (d *Declaration) Declare(by uuid.UUID, now time.Time) error {
	if d.Status != StatusDraft {
		return shared.InvalidState("Only draft declarations can be declared")
	}
	d.Status = StatusDeclared
	d.DeclaredBy = &by
	d.DeclaredAt = &now
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewDividendDeclaredEvent(d))
	return nil
}

// Distribute allocates the pool over the given shareholdings and marks the
// declaration distributed.
func (d *Declaration) Distribute(holdings []Holding, now time.Time) ([]Distribution, error) {
	if d.Status != StatusDeclared {
		return nil, shared.InvalidState("Only declared dividends can be distributed")
	}
	allocations, err := Allocate(d.TotalAmount, d.Currency, d.WithholdingTaxRate, holdings)
	if err != nil {
		return nil, err
	}
	distributions := make([]Distribution, len(allocations))
	for i, a := range allocations {
		distributions[i] = newDistribution(d, a)
	}
	d.Status = StatusDistributed
	d.DistributedAt = &now
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewDividendDistributedEvent(d, len(distributions)))
	return distributions, nil
}

// Cancel abandons a draft or declared dividend
func (d *Declaration) Cancel(reason string) error {
	if d.Status != StatusDraft && d.Status != StatusDeclared {
		return shared.InvalidState("Only draft or declared dividends can be cancelled")
	}
	d.Status = StatusCancelled
	d.CancelReason = strings.TrimSpace(reason)
	d.Touch()
	d.IncrementVersion()
	return nil
}

// CanDelete reports whether the declaration may be removed
func (d *Declaration) CanDelete() error {
	if d.Status != StatusDraft {
		return shared.InvalidState("Only draft declarations can be deleted")
	}
	return nil
}
