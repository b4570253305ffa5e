package expense

import (
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregateTypeExpense is the aggregate type name for expenses
const AggregateTypeExpense = "Expense"

// Expense domain event types
const (
	EventTypeExpenseSubmitted = "ExpenseSubmitted"
	EventTypeExpenseApproved  = "ExpenseApproved"
	EventTypeExpenseRejected  = "ExpenseRejected"
)

// StatusChangedEvent is published when an expense moves through approval
type StatusChangedEvent struct {
	shared.EventHeader
	Category Category             `json:"category"`
	Status   Status               `json:"status"`
	Amount   decimal.Decimal      `json:"amount"`
	Currency valueobject.Currency `json:"currency"`
}

func newStatusChangedEvent(eventType string, e *Expense) *StatusChangedEvent {
	return &StatusChangedEvent{
		EventHeader: shared.NewEventHeader(eventType, AggregateTypeExpense, e.ID, e.CompanyID),
		Category:    e.Category,
		Status:      e.Status,
		Amount:      e.Total(),
		Currency:    e.Currency,
	}
}
