package asset

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Filter narrows asset listings
type Filter struct {
	shared.Filter
	Class  Class
	Status Status
}

// AssetRepository defines persistence for fixed assets
type AssetRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*FixedAsset, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]FixedAsset, int64, error)
	// FindInService returns assets acquired on or before the end of the year
	// and not disposed before it started
	FindInService(ctx context.Context, companyID uuid.UUID, year int) ([]FixedAsset, error)
	Save(ctx context.Context, a *FixedAsset) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
