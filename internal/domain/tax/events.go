package tax

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeFiling is the aggregate type name for tax filings
const AggregateTypeFiling = "TaxFiling"

// EventTypeFilingOverdue is published when a filing passes its due date
const EventTypeFilingOverdue = "TaxFilingOverdue"

// FilingOverdueEvent is published when a filing passes its due date unpaid
type FilingOverdueEvent struct {
	shared.EventHeader
	TaxType   Type            `json:"tax_type"`
	DueDate   time.Time       `json:"due_date"`
	AmountDue decimal.Decimal `json:"amount_due"`
}

// NewFilingOverdueEvent creates a new FilingOverdueEvent
func NewFilingOverdueEvent(f *Filing) *FilingOverdueEvent {
	return &FilingOverdueEvent{
		EventHeader: shared.NewEventHeader(EventTypeFilingOverdue, AggregateTypeFiling, f.ID, f.CompanyID),
		TaxType:     f.Type,
		DueDate:     f.DueDate,
		AmountDue:   f.AmountDue,
	}
}
