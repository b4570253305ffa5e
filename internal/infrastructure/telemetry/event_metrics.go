package telemetry

import (
	"context"

	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
)

// EventMetrics counts domain events into the business instruments
type EventMetrics struct {
	metrics *BusinessMetrics
}

// NewEventMetrics creates the metrics event handler
func NewEventMetrics(m *BusinessMetrics) *EventMetrics {
	return &EventMetrics{metrics: m}
}

// EventTypes returns the event types this handler is interested in
func (h *EventMetrics) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceIssued,
		billing.EventTypePaymentReceived,
		payroll.EventTypePayrollApproved,
		tax.EventTypeFilingOverdue,
		document.EventTypeDocumentUploaded,
	}
}

// Handle records one event. Unknown events are ignored.
func (h *EventMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	company := event.CompanyID().String()
	switch e := event.(type) {
	case *billing.InvoiceIssuedEvent:
		h.metrics.InvoiceIssued(ctx, company, e.Currency.String())
	case *billing.PaymentReceivedEvent:
		h.metrics.PaymentReceived(ctx, company, e.Currency.String(), e.Amount.InexactFloat64())
	case *payroll.PayrollApprovedEvent:
		h.metrics.PayrollRun(ctx, company, "approved")
	case *tax.FilingOverdueEvent:
		h.metrics.Filing(ctx, company, string(e.TaxType), "overdue")
	case *document.DocumentUploadedEvent:
		h.metrics.DocumentUploaded(ctx, company, e.SizeBytes)
	}
	return nil
}

var _ shared.EventHandler = (*EventMetrics)(nil)
