package dividend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows declaration listings
type Filter struct {
	shared.Filter
	Status     Status
	FiscalYear int
}

// DeclarationRepository defines persistence for dividend declarations
type DeclarationRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Declaration, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Declaration, int64, error)
	Save(ctx context.Context, d *Declaration) error
	// SaveDistributed persists the declaration together with its distributions atomically
	SaveDistributed(ctx context.Context, d *Declaration, distributions []Distribution) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	// SumDeclaredBetween totals non-cancelled declared or distributed pools by declaration date
	SumDeclaredBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// DistributionRepository defines persistence for distributions
type DistributionRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Distribution, error)
	FindByDeclaration(ctx context.Context, companyID, declarationID uuid.UUID) ([]Distribution, error)
	FindByPerson(ctx context.Context, companyID, personID uuid.UUID) ([]Distribution, error)
	Save(ctx context.Context, d *Distribution) error
}
