package tax

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type is the kind of tax return
type Type string

const (
	TypeQIT  Type = "QIT"
	TypePAYE Type = "PAYE"
	TypeCIT  Type = "CIT"
	TypeVAT  Type = "VAT"
)

// IsValid checks if the tax type is a known value
func (t Type) IsValid() bool {
	switch t {
	case TypeQIT, TypePAYE, TypeCIT, TypeVAT:
		return true
	}
	return false
}

// Status represents the lifecycle of a filing
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusFiled   Status = "FILED"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusFiled, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Filing is a computed tax return for one period
type Filing struct {
	shared.CompanyAggregateRoot
	Type          Type
	PeriodStart   time.Time
	PeriodEnd     time.Time
	DueDate       time.Time
	Currency      valueobject.Currency
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Credits       decimal.Decimal
	AmountDue     decimal.Decimal
	Status        Status
	FiledAt       *time.Time
	PaidAt        *time.Time
	RRAReference  string
	Notes         string
}

// NewFiling creates a draft filing from a computed result
func NewFiling(companyID, createdBy uuid.UUID, p Period, currency valueobject.Currency, r Result) (*Filing, error) {
	if !p.Type.IsValid() {
		return nil, shared.InvalidInput("Unknown tax type")
	}
	f := &Filing{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Type:                 p.Type,
		PeriodStart:          p.Start,
		PeriodEnd:            p.End,
		DueDate:              p.DueDate,
		Currency:             currency.OrDefault(),
		Status:               StatusDraft,
	}
	f.setResult(r)
	return f, nil
}

// Recompute replaces the amounts of a draft filing
func (f *Filing) Recompute(r Result) error {
	if f.Status != StatusDraft {
		return shared.InvalidState("Only draft filings can be recomputed")
	}
	f.setResult(r)
	f.Touch()
	f.IncrementVersion()
	return nil
}

func (f *Filing) setResult(r Result) {
	round := f.Currency.Round
	f.TaxableAmount = round(r.Taxable)
	f.TaxAmount = round(r.Tax)
	f.Credits = round(r.Credits)
	f.AmountDue = f.TaxAmount.Sub(f.Credits)
	f.Notes = r.Notes
}

// File records submission to RRA
func (f *Filing) File(reference string, now time.Time) error {
	if f.FiledAt != nil || (f.Status != StatusDraft && f.Status != StatusOverdue) {
		return shared.InvalidState("Only draft filings can be filed")
	}
	f.Status = StatusFiled
	f.FiledAt = &now
	f.RRAReference = strings.TrimSpace(reference)
	f.Touch()
	f.IncrementVersion()
	return nil
}

// MarkPaid records settlement of a filed or overdue return
func (f *Filing) MarkPaid(reference string, now time.Time) error {
	if f.Status != StatusFiled && f.Status != StatusOverdue {
		return shared.InvalidState("Only filed or overdue returns can be marked paid")
	}
	f.Status = StatusPaid
	f.PaidAt = &now
	if ref := strings.TrimSpace(reference); ref != "" {
		f.RRAReference = ref
	}
	f.Touch()
	f.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid filing whose due date has passed
func (f *Filing) MarkOverdue(now time.Time) bool {
	if f.Status != StatusDraft && f.Status != StatusFiled {
		return false
	}
	if !now.After(f.DueDate.AddDate(0, 0, 1)) {
		return false
	}
	f.Status = StatusOverdue
	f.Touch()
	f.IncrementVersion()
	f.AddDomainEvent(NewFilingOverdueEvent(f))
	return true
}

// DaysUntilDue returns whole days from now to the due date, negative when late
func (f *Filing) DaysUntilDue(now time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(f.DueDate.Sub(today).Hours() / 24)
}

// CanDelete reports whether the filing can be deleted
func (f *Filing) CanDelete() bool {
	return f.Status == StatusDraft
}
