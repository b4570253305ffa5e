package person

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Filter narrows person listings
type Filter struct {
	shared.Filter
	Role Role
}

// PersonRepository defines persistence for persons
type PersonRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Person, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Person, int64, error)
	// FindShareholders returns every person holding shares, ordered by name
	FindShareholders(ctx context.Context, companyID uuid.UUID) ([]Person, error)
	// FindActiveEmployees returns persons with an active employment
	FindActiveEmployees(ctx context.Context, companyID uuid.UUID) ([]Person, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Person, error)
	// SumShares returns the total shares held, excluding the given person
	SumShares(ctx context.Context, companyID uuid.UUID, excludeID *uuid.UUID) (int64, error)
	CountByRole(ctx context.Context, companyID uuid.UUID) (map[Role]int64, error)
	Save(ctx context.Context, p *Person) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
