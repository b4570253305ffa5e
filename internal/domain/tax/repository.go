package tax

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows filing listings
type Filter struct {
	shared.Filter
	Type   Type
	Status Status
	Year   int
}

// FilingRepository defines persistence for tax filings
type FilingRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Filing, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Filing, int64, error)
	FindByPeriod(ctx context.Context, companyID uuid.UUID, t Type, start, end time.Time) (*Filing, error)
	ExistsForPeriod(ctx context.Context, companyID uuid.UUID, t Type, start, end time.Time) (bool, error)
	// SumPaidBetween totals tax_amount of PAID filings of a type whose period starts in [from, to]
	SumPaidBetween(ctx context.Context, companyID uuid.UUID, t Type, from, to time.Time) (decimal.Decimal, error)
	// FindOverdueCandidates returns DRAFT and FILED filings across companies due before asOf
	FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]Filing, error)
	// FindDueBetween returns unpaid filings across companies due in the window
	FindDueBetween(ctx context.Context, from, to time.Time, limit int) ([]Filing, error)
	// CountOpen counts unpaid filings and returns the earliest due date among them
	CountOpen(ctx context.Context, companyID uuid.UUID) (int64, *time.Time, error)
	Save(ctx context.Context, f *Filing) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
