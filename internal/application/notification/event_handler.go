package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/notification"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
	"go.uber.org/zap"
)

var (
	approvers = []company.Role{company.RoleOwner, company.RoleAdmin}
	finance   = []company.Role{company.RoleOwner, company.RoleAdmin, company.RoleAccountant}
	everyone  = []company.Role{company.RoleOwner, company.RoleAdmin, company.RoleAccountant, company.RoleViewer}
)

// notifier is the part of NotificationService the handler needs
type notifier interface {
	NotifyRoles(ctx context.Context, companyID uuid.UUID, roles []company.Role, draft notification.Draft, extra ...uuid.UUID) (int, error)
}

// EventHandler turns domain events into notifications for the members who
// need to act on them
type EventHandler struct {
	notifier notifier
	logger   *zap.Logger
	// OnNotified observes how many notifications each event produced (optional)
	OnNotified func(ctx context.Context, kind string, n int)
}

// NewEventHandler creates the notification event handler
func NewEventHandler(service *NotificationService, logger *zap.Logger) *EventHandler {
	return &EventHandler{notifier: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *EventHandler) EventTypes() []string {
	return []string{
		capital.EventTypeCapitalUnlocked,
		capital.EventTypeEarlyWithdrawalRequested,
		capital.EventTypeEarlyWithdrawalReviewed,
		dividend.EventTypeDividendDeclared,
		document.EventTypeDocumentShared,
		tax.EventTypeFilingOverdue,
		billing.EventTypeInvoiceOverdue,
	}
}

// Handle addresses the notification for one event
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	roles, draft, extra, ok := h.route(event)
	if !ok {
		return fmt.Errorf("unexpected event type %s (%T)", event.EventType(), event)
	}
	id := event.AggregateID()
	draft.EntityID = &id
	if draft.EntityType == "" {
		draft.EntityType = event.AggregateType()
	}
	n, err := h.notifier.NotifyRoles(ctx, event.CompanyID(), roles, draft, extra...)
	if err != nil {
		return fmt.Errorf("notify %s: %w", event.EventType(), err)
	}
	if h.OnNotified != nil {
		h.OnNotified(ctx, string(draft.Type), n)
	}
	h.logger.Debug("Event notified",
		zap.String("event_type", event.EventType()),
		zap.String("company_id", event.CompanyID().String()),
		zap.Int("recipients", n))
	return nil
}

func (h *EventHandler) route(event shared.DomainEvent) ([]company.Role, notification.Draft, []uuid.UUID, bool) {
	switch e := event.(type) {
	case *capital.CapitalUnlockedEvent:
		return finance, notification.Draft{
			Type:     notification.TypeCapitalUnlocked,
			Title:    "Locked capital matured",
			Message:  fmt.Sprintf("%s %s of locked capital has reached its unlock date and is now available.", e.Amount.String(), e.Currency),
			Priority: notification.PriorityNormal,
		}, nil, true
	case *capital.EarlyWithdrawalRequestedEvent:
		return approvers, notification.Draft{
			Type:     notification.TypeWithdrawalRequested,
			Title:    "Early withdrawal awaiting review",
			Message:  fmt.Sprintf("An early withdrawal paying out %s after a penalty of %s needs approval.", e.PayoutAmount.String(), e.PenaltyAmount.String()),
			Priority: notification.PriorityHigh,
		}, nil, true
	case *capital.EarlyWithdrawalReviewedEvent:
		// the requester hears back even without an approver role
		return approvers, notification.Draft{
			Type:     notification.TypeWithdrawalReviewed,
			Title:    "Early withdrawal " + reviewOutcome(e.Status),
			Message:  fmt.Sprintf("The early withdrawal request was %s.", reviewOutcome(e.Status)),
			Priority: notification.PriorityNormal,
		}, []uuid.UUID{e.RequestedBy}, true
	case *dividend.DividendDeclaredEvent:
		return everyone, notification.Draft{
			Type:     notification.TypeDividendDeclared,
			Title:    fmt.Sprintf("Dividend declared for %d", e.FiscalYear),
			Message:  fmt.Sprintf("A dividend of %s %s has been declared for fiscal year %d.", e.TotalAmount.String(), e.Currency, e.FiscalYear),
			Priority: notification.PriorityNormal,
		}, nil, true
	case *document.DocumentSharedEvent:
		return nil, notification.Draft{
			Type:     notification.TypeDocumentShared,
			Title:    "Document shared with you",
			Message:  fmt.Sprintf("You were given %s access to %q.", e.Permission, e.Title),
			Priority: notification.PriorityLow,
		}, []uuid.UUID{e.UserID}, true
	case *tax.FilingOverdueEvent:
		return finance, notification.Draft{
			Type:     notification.TypeTaxOverdue,
			Title:    fmt.Sprintf("%s filing overdue", e.TaxType),
			Message:  fmt.Sprintf("The %s filing due on %s is overdue with %s outstanding.", e.TaxType, e.DueDate.Format("2006-01-02"), e.AmountDue.String()),
			Priority: notification.PriorityHigh,
		}, nil, true
	case *billing.InvoiceOverdueEvent:
		return finance, notification.Draft{
			Type:     notification.TypeInvoiceOverdue,
			Title:    fmt.Sprintf("Invoice %s overdue", e.Number),
			Message:  fmt.Sprintf("Invoice %s to %s was due on %s. Balance %s.", e.Number, e.CustomerName, e.DueDate.Format("2006-01-02"), e.Balance.String()),
			Priority: notification.PriorityNormal,
		}, nil, true
	}
	return nil, notification.Draft{}, nil, false
}

func reviewOutcome(s capital.WithdrawalStatus) string {
	switch s {
	case capital.WithdrawalApproved:
		return "approved"
	case capital.WithdrawalRejected:
		return "rejected"
	}
	return "reviewed"
}

var _ shared.EventHandler = (*EventHandler)(nil)
