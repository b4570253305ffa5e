package currency

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
)

// Filter narrows exchange rate listings
type Filter struct {
	shared.Filter
	Base  valueobject.Currency
	Quote valueobject.Currency
}

// RateRepository defines persistence for exchange rates. Latest is exposed
// per company through Lookup.
type RateRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*ExchangeRate, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]ExchangeRate, int64, error)
	Lookup(companyID uuid.UUID) RateLookup
	Save(ctx context.Context, r *ExchangeRate) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
