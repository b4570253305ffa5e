package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of an invoice
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusIssued        Status = "ISSUED"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusPaid          Status = "PAID"
	StatusOverdue       Status = "OVERDUE"
	StatusCancelled     Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the invoice still expects payment
func (s Status) IsOpen() bool {
	return s == StatusIssued || s == StatusPartiallyPaid || s == StatusOverdue
}

// StandardVATRate is the Rwandan standard VAT rate in percent
var StandardVATRate = decimal.NewFromInt(18)

const maxItems = 200

// Item is a single invoice line
type Item struct {
	ID          uuid.UUID
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	// VATRate is a percentage, either 0 or 18
	VATRate   decimal.Decimal
	NetAmount decimal.Decimal
	VATAmount decimal.Decimal
}

// ItemInput is a line as supplied by the caller
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// Customer identifies who is billed
type Customer struct {
	Name  string
	TIN   string
	Email string
}

// Invoice is a sales invoice issued by a company
type Invoice struct {
	shared.CompanyAggregateRoot
	Number     string
	Customer   Customer
	IssueDate  time.Time
	DueDate    time.Time
	Currency   valueobject.Currency
	Items      []Item
	Subtotal   decimal.Decimal
	VATTotal   decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	Status     Status
	Notes      string
	IssuedAt   *time.Time
}

// Draft carries the editable fields of an invoice
type Draft struct {
	Customer  Customer
	IssueDate time.Time
	DueDate   time.Time
	Currency  valueobject.Currency
	Items     []ItemInput
	Notes     string
}

// NewInvoice creates a draft invoice with the given number
func NewInvoice(companyID, createdBy uuid.UUID, number string, d Draft) (*Invoice, error) {
	if number == "" {
		return nil, shared.InvalidInput("Invoice number is required")
	}
	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Number:               number,
		AmountPaid:           decimal.Zero,
		Status:               StatusDraft,
	}
	if err := inv.apply(d); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update replaces the content of a draft invoice
func (inv *Invoice) Update(d Draft) error {
	if inv.Status != StatusDraft {
		return shared.InvalidState("Only draft invoices can be updated")
	}
	if err := inv.apply(d); err != nil {
		return err
	}
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

func (inv *Invoice) apply(d Draft) error {
	name := strings.TrimSpace(d.Customer.Name)
	if name == "" {
		return shared.InvalidInput("Customer name is required")
	}
	tin := strings.TrimSpace(d.Customer.TIN)
	if tin != "" {
		if err := company.ValidateTIN(tin); err != nil {
			return err
		}
	}
	if d.IssueDate.IsZero() {
		return shared.InvalidInput("Issue date is required")
	}
	if d.DueDate.IsZero() {
		d.DueDate = d.IssueDate
	}
	if d.DueDate.Before(d.IssueDate) {
		return shared.InvalidInput("Due date cannot be before issue date")
	}
	if len(d.Items) == 0 {
		return shared.InvalidInput("An invoice needs at least one item")
	}
	if len(d.Items) > maxItems {
		return shared.InvalidInput("An invoice cannot have more than 200 items")
	}
	cur := d.Currency.OrDefault()
	if !cur.IsValid() {
		return valueobject.ErrInvalidCurrency
	}

	items := make([]Item, 0, len(d.Items))
	subtotal, vat := decimal.Zero, decimal.Zero
	for i, in := range d.Items {
		item, err := buildItem(i+1, in, cur)
		if err != nil {
			return err
		}
		subtotal = subtotal.Add(item.NetAmount)
		vat = vat.Add(item.VATAmount)
		items = append(items, item)
	}

	inv.Customer = Customer{Name: name, TIN: tin, Email: strings.TrimSpace(d.Customer.Email)}
	inv.IssueDate = d.IssueDate
	inv.DueDate = d.DueDate
	inv.Currency = cur
	inv.Items = items
	inv.Subtotal = subtotal
	inv.VATTotal = vat
	inv.Total = subtotal.Add(vat)
	inv.Notes = strings.TrimSpace(d.Notes)
	return nil
}

func buildItem(pos int, in ItemInput, cur valueobject.Currency) (Item, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Item{}, shared.InvalidInput("Item description is required").WithDetails(map[string]any{"line": pos})
	}
	if !in.Quantity.IsPositive() {
		return Item{}, shared.InvalidInput("Item quantity must be greater than zero").WithDetails(map[string]any{"line": pos})
	}
	if in.UnitPrice.IsNegative() {
		return Item{}, shared.InvalidInput("Item unit price cannot be negative").WithDetails(map[string]any{"line": pos})
	}
	if !in.VATRate.IsZero() && !in.VATRate.Equal(StandardVATRate) {
		return Item{}, shared.InvalidInput("VAT rate must be 0 or 18").WithDetails(map[string]any{"line": pos})
	}
	net := cur.Round(in.Quantity.Mul(in.UnitPrice))
	vat := cur.Round(net.Mul(in.VATRate).Div(decimal.NewFromInt(100)))
	return Item{
		ID:          uuid.New(),
		Position:    pos,
		Description: desc,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		VATRate:     in.VATRate,
		NetAmount:   net,
		VATAmount:   vat,
	}, nil
}

// Balance returns the amount still owed
func (inv *Invoice) Balance() decimal.Decimal {
	return inv.Total.Sub(inv.AmountPaid)
}

// Issue finalises a draft invoice
func (inv *Invoice) Issue(now time.Time) error {
	if inv.Status != StatusDraft {
		return shared.InvalidState("Only draft invoices can be issued")
	}
	if !inv.Total.IsPositive() {
		return shared.InvalidState("Cannot issue an invoice with a zero total")
	}
	inv.Status = StatusIssued
	inv.IssuedAt = &now
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return nil
}

// RecordPayment applies a payment to the invoice balance
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if !inv.Status.IsOpen() {
		return shared.InvalidState("Payments can only be recorded on issued invoices")
	}
	if !amount.IsPositive() {
		return shared.InvalidInput("Payment amount must be greater than zero")
	}
	if amount.GreaterThan(inv.Balance()) {
		return shared.InvalidInput("Payment exceeds the outstanding balance").
			WithDetails(map[string]any{"balance": inv.Balance().String()})
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.Balance().IsZero() {
		inv.Status = StatusPaid
	} else if inv.Status != StatusOverdue {
		inv.Status = StatusPartiallyPaid
	}
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// Cancel voids an invoice on which nothing has been paid
func (inv *Invoice) Cancel() error {
	if inv.Status == StatusCancelled || inv.Status == StatusPaid {
		return shared.InvalidState("Invoice cannot be cancelled in its current status")
	}
	if inv.AmountPaid.IsPositive() {
		return shared.InvalidState("Cannot cancel an invoice with recorded payments")
	}
	inv.Status = StatusCancelled
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// MarkOverdue flags an open invoice whose due date has passed
func (inv *Invoice) MarkOverdue(now time.Time) bool {
	if inv.Status != StatusIssued && inv.Status != StatusPartiallyPaid {
		return false
	}
	if !now.After(endOfDay(inv.DueDate)) {
		return false
	}
	inv.Status = StatusOverdue
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceOverdueEvent(inv))
	return true
}

// CanDelete reports whether the invoice can be deleted
func (inv *Invoice) CanDelete() bool {
	return inv.Status == StatusDraft
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
