package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the approval workflow of an expense
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Expense is a business cost recorded by a company
type Expense struct {
	shared.CompanyAggregateRoot
	Category          Category
	Description       string
	Amount            decimal.Decimal
	VATAmount         decimal.Decimal
	Currency          valueobject.Currency
	SupplierName      string
	SupplierTIN       string
	ExpenseDate       time.Time
	ReceiptDocumentID *uuid.UUID
	Status            Status
	SubmittedAt       *time.Time
	ReviewedBy        *uuid.UUID
	ReviewedAt        *time.Time
	ReviewNotes       string
}

// Details carries the editable fields of an expense
type Details struct {
	Category          Category
	Description       string
	Amount            decimal.Decimal
	VATAmount         decimal.Decimal
	Currency          valueobject.Currency
	SupplierName      string
	SupplierTIN       string
	ExpenseDate       time.Time
	ReceiptDocumentID *uuid.UUID
}

// NewExpense records a draft expense
func NewExpense(companyID, createdBy uuid.UUID, d Details) (*Expense, error) {
	e := &Expense{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               StatusDraft,
	}
	if err := e.apply(d); err != nil {
		return nil, err
	}
	return e, nil
}

// Update changes a draft or rejected expense. A rejected expense returns to draft.
func (e *Expense) Update(d Details) error {
	if e.Status != StatusDraft && e.Status != StatusRejected {
		return shared.InvalidState("Only draft or rejected expenses can be updated")
	}
	if err := e.apply(d); err != nil {
		return err
	}
	e.Status = StatusDraft
	e.Touch()
	e.IncrementVersion()
	return nil
}

func (e *Expense) apply(d Details) error {
	if !d.Category.IsValid() {
		return shared.InvalidInput("Unknown expense category")
	}
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return shared.InvalidInput("Description is required")
	}
	if !d.Amount.IsPositive() {
		return shared.InvalidInput("Amount must be greater than zero")
	}
	if d.VATAmount.IsNegative() {
		return shared.InvalidInput("VAT amount cannot be negative")
	}
	if d.ExpenseDate.IsZero() {
		return shared.InvalidInput("Expense date is required")
	}
	tin := strings.TrimSpace(d.SupplierTIN)
	if tin != "" {
		if err := company.ValidateTIN(tin); err != nil {
			return err
		}
	}
	cur := d.Currency.OrDefault()
	if !cur.IsValid() {
		return valueobject.ErrInvalidCurrency
	}
	e.Category = d.Category
	e.Description = desc
	e.Amount = cur.Round(d.Amount)
	e.VATAmount = cur.Round(d.VATAmount)
	e.Currency = cur
	e.SupplierName = strings.TrimSpace(d.SupplierName)
	e.SupplierTIN = tin
	e.ExpenseDate = d.ExpenseDate
	e.ReceiptDocumentID = d.ReceiptDocumentID
	return nil
}

// Total returns the gross amount including VAT
func (e *Expense) Total() decimal.Decimal {
	return e.Amount.Add(e.VATAmount)
}

// Submit sends a draft expense for approval
func (e *Expense) Submit(now time.Time) error {
	if e.Status != StatusDraft {
		return shared.InvalidState("Only draft expenses can be submitted")
	}
	e.Status = StatusSubmitted
	e.SubmittedAt = &now
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(newStatusChangedEvent(EventTypeExpenseSubmitted, e))
	return nil
}

// Approve accepts a submitted expense
func (e *Expense) Approve(by uuid.UUID, notes string, now time.Time) error {
	return e.review(StatusApproved, by, notes, now)
}

// Reject returns a submitted expense to its author
func (e *Expense) Reject(by uuid.UUID, notes string, now time.Time) error {
	if strings.TrimSpace(notes) == "" {
		return shared.InvalidInput("A reason is required to reject an expense")
	}
	return e.review(StatusRejected, by, notes, now)
}

func (e *Expense) review(to Status, by uuid.UUID, notes string, now time.Time) error {
	if e.Status != StatusSubmitted {
		return shared.InvalidState("Only submitted expenses can be reviewed")
	}
	e.Status = to
	e.ReviewedBy = &by
	e.ReviewedAt = &now
	e.ReviewNotes = strings.TrimSpace(notes)
	e.Touch()
	e.IncrementVersion()
	eventType := EventTypeExpenseApproved
	if to == StatusRejected {
		eventType = EventTypeExpenseRejected
	}
	e.AddDomainEvent(newStatusChangedEvent(eventType, e))
	return nil
}

// CanDelete reports whether the expense can be deleted
func (e *Expense) CanDelete() bool {
	return e.Status == StatusDraft
}
