package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTaxFilingRepository implements FilingRepository using GORM
type GormTaxFilingRepository struct {
	db *gorm.DB
}

// NewGormTaxFilingRepository creates a new GormTaxFilingRepository
func NewGormTaxFilingRepository(db *gorm.DB) *GormTaxFilingRepository {
	return &GormTaxFilingRepository{db: db}
}

// FindByID finds a filing within a company
func (r *GormTaxFilingRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*tax.Filing, error) {
	m, err := firstInCompany[models.TaxFilingModel](ctx, r.db, companyID, id, "Tax filing")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists filings matching the filter
func (r *GormTaxFilingRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter tax.Filter) ([]tax.Filing, int64, error) {
	rows, total, err := findPage[models.TaxFilingModel](ctx, r.db, filter.Filter,
		filingSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID))
			if filter.Type != "" {
				q = q.Where("type = ?", filter.Type)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.Year != 0 {
				q = q.Where("period_start >= ? AND period_start < ?",
					time.Date(filter.Year, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(filter.Year+1, 1, 1, 0, 0, 0, 0, time.UTC))
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return filingsToDomain(rows), total, nil
}

func (r *GormTaxFilingRepository) period(ctx context.Context, companyID uuid.UUID, t tax.Type, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TaxFilingModel{}).
		Scopes(companyScope(companyID)).
		Where("type = ? AND period_start = ? AND period_end = ?", t, start, end)
}

// FindByPeriod finds the filing of a type covering exactly the period
func (r *GormTaxFilingRepository) FindByPeriod(ctx context.Context, companyID uuid.UUID, t tax.Type, start, end time.Time) (*tax.Filing, error) {
	var m models.TaxFilingModel
	if err := r.period(ctx, companyID, t, start, end).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Tax filing")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// ExistsForPeriod reports whether a filing of the type already covers the period
func (r *GormTaxFilingRepository) ExistsForPeriod(ctx context.Context, companyID uuid.UUID, t tax.Type, start, end time.Time) (bool, error) {
	var count int64
	if err := r.period(ctx, companyID, t, start, end).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumPaidBetween totals the tax of paid filings whose period starts in [from, to]
func (r *GormTaxFilingRepository) SumPaidBetween(ctx context.Context, companyID uuid.UUID, t tax.Type, from, to time.Time) (decimal.Decimal, error) {
	return scanSum(r.db.WithContext(ctx).
		Model(&models.TaxFilingModel{}).
		Scopes(companyScope(companyID)).
		Where("type = ? AND status = ?", t, tax.StatusPaid).
		Where("period_start >= ? AND period_start <= ?", from, to), "tax_amount")
}

// FindOverdueCandidates returns draft and filed filings of every company due before asOf
func (r *GormTaxFilingRepository) FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]tax.Filing, error) {
	var rows []models.TaxFilingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?", []tax.Status{tax.StatusDraft, tax.StatusFiled}, asOf).
		Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return filingsToDomain(rows), nil
}

// FindDueBetween returns unpaid filings of every company due in [from, to]
func (r *GormTaxFilingRepository) FindDueBetween(ctx context.Context, from, to time.Time, limit int) ([]tax.Filing, error) {
	var rows []models.TaxFilingModel
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND due_date >= ? AND due_date <= ?", tax.StatusPaid, from, to).
		Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return filingsToDomain(rows), nil
}

// CountOpen counts unpaid filings and reports the earliest due date among them
func (r *GormTaxFilingRepository) CountOpen(ctx context.Context, companyID uuid.UUID) (int64, *time.Time, error) {
	q := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.TaxFilingModel{}).
			Scopes(companyScope(companyID)).
			Where("status <> ?", tax.StatusPaid)
	}
	var count int64
	if err := q().Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	var next models.TaxFilingModel
	if err := q().Order("due_date ASC").First(&next).Error; err != nil {
		return 0, nil, err
	}
	due := next.DueDate
	return count, &due, nil
}

// Save creates or updates a filing
func (r *GormTaxFilingRepository) Save(ctx context.Context, f *tax.Filing) error {
	return saveAggregate(ctx, r.db, &f.BaseAggregateRoot, models.TaxFilingModelFromDomain(f))
}

// Delete removes a filing
func (r *GormTaxFilingRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.TaxFilingModel](ctx, r.db, companyID, id, "Tax filing")
}

func filingsToDomain(rows []models.TaxFilingModel) []tax.Filing {
	out := make([]tax.Filing, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ tax.FilingRepository = (*GormTaxFilingRepository)(nil)
