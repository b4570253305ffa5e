package payroll

import (
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeRun is the aggregate type name for payroll runs
const AggregateTypeRun = "PayrollRun"

// EventTypePayrollApproved is published when a payroll run is approved
const EventTypePayrollApproved = "PayrollApproved"

// PayrollApprovedEvent is published when a payroll run is approved
type PayrollApprovedEvent struct {
	shared.EventHeader
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Net   decimal.Decimal `json:"net"`
	PAYE  decimal.Decimal `json:"paye"`
}

// NewPayrollApprovedEvent creates a new PayrollApprovedEvent
func NewPayrollApprovedEvent(r *Run) *PayrollApprovedEvent {
	return &PayrollApprovedEvent{
		EventHeader: shared.NewEventHeader(EventTypePayrollApproved, AggregateTypeRun, r.ID, r.CompanyID),
		Year:        r.Year,
		Month:       r.Month,
		Net:         r.Totals.Net,
		PAYE:        r.Totals.PAYE,
	}
}
