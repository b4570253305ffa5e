package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Filter narrows payroll run listings
type Filter struct {
	shared.Filter
	Year   int
	Status Status
}

// RunRepository defines persistence for payroll runs and their payslips
type RunRepository interface {
	// FindByID loads the run with its payslips
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Run, error)
	FindByPeriod(ctx context.Context, companyID uuid.UUID, year, month int) (*Run, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Run, int64, error)
	ExistsForPeriod(ctx context.Context, companyID uuid.UUID, year, month int) (bool, error)
	// Save persists the run and replaces its payslips
	Save(ctx context.Context, r *Run) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
