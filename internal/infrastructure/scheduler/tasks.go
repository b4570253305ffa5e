package scheduler

import (
	"context"
	"time"
)

// Task names
const (
	TaskUnlockCapital   = "capital.unlock_matured"
	TaskInvoiceOverdue  = "billing.mark_overdue"
	TaskTaxOverdue      = "tax.mark_overdue"
	TaskTaxDueReminders = "tax.remind_due"
)

// batchLimit caps the rows a single task run touches. The next run picks up the rest.
const batchLimit = 500

// The services are consumed through the narrow method each task needs.
type (
	capitalUnlocker interface {
		UnlockMatured(ctx context.Context, asOf time.Time, limit int) (int, error)
	}
	overdueMarker interface {
		MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error)
	}
	taxMaintainer interface {
		overdueMarker
		RemindDue(ctx context.Context, asOf time.Time, window time.Duration, limit int) (int, error)
	}
)

// MaintenanceServices are the application services behind the built-in tasks
type MaintenanceServices struct {
	Capital      capitalUnlocker
	Invoices     overdueMarker
	Tax          taxMaintainer
	ReminderDays int
}

// RegisterMaintenance registers every task whose service is present
func RegisterMaintenance(s *Scheduler, svc MaintenanceServices) {
	if svc.Capital != nil {
		s.Register(TaskUnlockCapital, func(ctx context.Context, asOf time.Time) (int, error) {
			return svc.Capital.UnlockMatured(ctx, asOf, batchLimit)
		})
	}
	if svc.Invoices != nil {
		s.Register(TaskInvoiceOverdue, func(ctx context.Context, asOf time.Time) (int, error) {
			return svc.Invoices.MarkOverdue(ctx, asOf, batchLimit)
		})
	}
	if svc.Tax != nil {
		s.Register(TaskTaxOverdue, func(ctx context.Context, asOf time.Time) (int, error) {
			return svc.Tax.MarkOverdue(ctx, asOf, batchLimit)
		})
		window := time.Duration(svc.ReminderDays) * 24 * time.Hour
		s.Register(TaskTaxDueReminders, func(ctx context.Context, asOf time.Time) (int, error) {
			return svc.Tax.RemindDue(ctx, asOf, window, batchLimit)
		})
	}
}
