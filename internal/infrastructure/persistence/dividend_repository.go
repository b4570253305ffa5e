package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDeclarationRepository implements DeclarationRepository using GORM
type GormDeclarationRepository struct {
	db *gorm.DB
}

// NewGormDeclarationRepository creates a new GormDeclarationRepository
func NewGormDeclarationRepository(db *gorm.DB) *GormDeclarationRepository {
	return &GormDeclarationRepository{db: db}
}

// FindByID finds a declaration within a company
func (r *GormDeclarationRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*dividend.Declaration, error) {
	m, err := firstInCompany[models.DividendDeclarationModel](ctx, r.db, companyID, id, "Dividend declaration")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists declarations matching the filter
func (r *GormDeclarationRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter dividend.Filter) ([]dividend.Declaration, int64, error) {
	rows, total, err := findPage[models.DividendDeclarationModel](ctx, r.db, filter.Filter,
		declarationSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID))
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.FiscalYear != 0 {
				q = q.Where("fiscal_year = ?", filter.FiscalYear)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]dividend.Declaration, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a declaration
func (r *GormDeclarationRepository) Save(ctx context.Context, d *dividend.Declaration) error {
	return saveAggregate(ctx, r.db, &d.BaseAggregateRoot, models.DividendDeclarationModelFromDomain(d))
}

// SaveDistributed stores the distributed declaration and its distributions in one transaction
func (r *GormDeclarationRepository) SaveDistributed(ctx context.Context, d *dividend.Declaration, distributions []dividend.Distribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(ctx, tx, &d.BaseAggregateRoot, models.DividendDeclarationModelFromDomain(d)); err != nil {
			return err
		}
		if len(distributions) == 0 {
			return nil
		}
		rows := make([]*models.DividendDistributionModel, len(distributions))
		for i := range distributions {
			rows[i] = models.DividendDistributionModelFromDomain(&distributions[i])
		}
		return translateError(tx.CreateInBatches(rows, 100).Error)
	})
}

// Delete removes a declaration
func (r *GormDeclarationRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.DividendDeclarationModel](ctx, r.db, companyID, id, "Dividend declaration")
}

// SumDeclaredBetween totals declared and distributed pools by declaration date
func (r *GormDeclarationRepository) SumDeclaredBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return scanSum(r.db.WithContext(ctx).
		Model(&models.DividendDeclarationModel{}).
		Scopes(companyScope(companyID)).
		Where("status IN ?", []dividend.Status{dividend.StatusDeclared, dividend.StatusDistributed}).
		Where("declaration_date >= ? AND declaration_date <= ?", from, to), "total_amount")
}

// GormDistributionRepository implements DistributionRepository using GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindByID finds a distribution within a company
func (r *GormDistributionRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*dividend.Distribution, error) {
	m, err := firstInCompany[models.DividendDistributionModel](ctx, r.db, companyID, id, "Distribution")
	if err != nil {
		return nil, err
	}
	d := m.ToDomain()
	return &d, nil
}

// FindByDeclaration lists the distributions of a declaration by shareholder name
func (r *GormDistributionRepository) FindByDeclaration(ctx context.Context, companyID, declarationID uuid.UUID) ([]dividend.Distribution, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("declaration_id = ?", declarationID).
		Order("person_name ASC"))
}

// FindByPerson lists a shareholder's distributions, newest first
func (r *GormDistributionRepository) FindByPerson(ctx context.Context, companyID, personID uuid.UUID) ([]dividend.Distribution, error) {
	return r.find(r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("person_id = ?", personID).
		Order("created_at DESC"))
}

func (r *GormDistributionRepository) find(q *gorm.DB) ([]dividend.Distribution, error) {
	var rows []models.DividendDistributionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dividend.Distribution, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save updates a distribution guarded by its version. Distributions are
// created with their declaration, so a missing row is a conflict too.
func (r *GormDistributionRepository) Save(ctx context.Context, d *dividend.Distribution) error {
	m := models.DividendDistributionModelFromDomain(d)
	result := r.db.WithContext(ctx).
		Model(m).
		Where("version = ?", d.Version-1).
		Select("*").
		Updates(m)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var (
	_ dividend.DeclarationRepository  = (*GormDeclarationRepository)(nil)
	_ dividend.DistributionRepository = (*GormDistributionRepository)(nil)
)
