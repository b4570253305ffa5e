package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds a fixed asset within a company
func (r *GormAssetRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*asset.FixedAsset, error) {
	m, err := firstInCompany[models.FixedAssetModel](ctx, r.db, companyID, id, "Fixed asset")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists fixed assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter asset.Filter) ([]asset.FixedAsset, int64, error) {
	rows, total, err := findPage[models.FixedAssetModel](ctx, r.db, filter.Filter,
		assetSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "name", "description"))
			if filter.Class != "" {
				q = q.Where("asset_class = ?", filter.Class)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return assetsToDomain(rows), total, nil
}

// FindInService returns assets held at some point during the year
func (r *GormAssetRepository) FindInService(ctx context.Context, companyID uuid.UUID, year int) ([]asset.FixedAsset, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	var rows []models.FixedAssetModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("acquisition_date <= ?", end).
		Where("(disposed_at IS NULL OR disposed_at >= ?)", start).
		Order("acquisition_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return assetsToDomain(rows), nil
}

// Save creates or updates a fixed asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.FixedAsset) error {
	return saveAggregate(ctx, r.db, &a.BaseAggregateRoot, models.FixedAssetModelFromDomain(a))
}

// Delete removes a fixed asset
func (r *GormAssetRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.FixedAssetModel](ctx, r.db, companyID, id, "Fixed asset")
}

func assetsToDomain(rows []models.FixedAssetModel) []asset.FixedAsset {
	out := make([]asset.FixedAsset, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)
