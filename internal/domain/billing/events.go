package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name for invoices
const AggregateTypeInvoice = "Invoice"

// Billing domain event types
const (
	EventTypeInvoiceIssued   = "InvoiceIssued"
	EventTypeInvoiceOverdue  = "InvoiceOverdue"
	EventTypePaymentReceived = "PaymentReceived"
)

// InvoiceIssuedEvent is published when an invoice leaves draft
type InvoiceIssuedEvent struct {
	shared.EventHeader
	Number   string               `json:"number"`
	Currency valueobject.Currency `json:"currency"`
	Total    decimal.Decimal      `json:"total"`
}

// NewInvoiceIssuedEvent creates a new InvoiceIssuedEvent
func NewInvoiceIssuedEvent(inv *Invoice) *InvoiceIssuedEvent {
	return &InvoiceIssuedEvent{
		EventHeader: shared.NewEventHeader(EventTypeInvoiceIssued, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		Number:      inv.Number,
		Currency:    inv.Currency,
		Total:       inv.Total,
	}
}

// InvoiceOverdueEvent is published when an invoice passes its due date unpaid
type InvoiceOverdueEvent struct {
	shared.EventHeader
	Number       string          `json:"number"`
	CustomerName string          `json:"customer_name"`
	Balance      decimal.Decimal `json:"balance"`
	DueDate      time.Time       `json:"due_date"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		EventHeader:  shared.NewEventHeader(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		Number:       inv.Number,
		CustomerName: inv.Customer.Name,
		Balance:      inv.Balance(),
		DueDate:      inv.DueDate,
	}
}

// PaymentReceivedEvent is published when a receipt is recorded
type PaymentReceivedEvent struct {
	shared.EventHeader
	ReceiptID uuid.UUID            `json:"receipt_id"`
	Currency  valueobject.Currency `json:"currency"`
	Amount    decimal.Decimal      `json:"amount"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(inv *Invoice, r *Receipt) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		EventHeader: shared.NewEventHeader(EventTypePaymentReceived, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		ReceiptID:   r.ID,
		Currency:    inv.Currency,
		Amount:      r.Amount,
	}
}
