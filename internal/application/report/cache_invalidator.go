package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// DashboardInvalidator drops a company's cached dashboard whenever one of
// its aggregates publishes an event
type DashboardInvalidator struct {
	reports *ReportService
}

// NewDashboardInvalidator creates the handler
func NewDashboardInvalidator(reports *ReportService) *DashboardInvalidator {
	return &DashboardInvalidator{reports: reports}
}

// EventTypes is empty, so the handler receives every event
func (h *DashboardInvalidator) EventTypes() []string {
	return nil
}

// Handle invalidates the dashboard of the event's company
func (h *DashboardInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.CompanyID() == uuid.Nil {
		return nil
	}
	return h.reports.Invalidate(ctx, event.CompanyID())
}

var _ shared.EventHandler = (*DashboardInvalidator)(nil)
