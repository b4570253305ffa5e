package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLockedCapitalRepository implements LockedCapitalRepository using GORM
type GormLockedCapitalRepository struct {
	db *gorm.DB
}

// NewGormLockedCapitalRepository creates a new GormLockedCapitalRepository
func NewGormLockedCapitalRepository(db *gorm.DB) *GormLockedCapitalRepository {
	return &GormLockedCapitalRepository{db: db}
}

// FindByID finds a locked capital record within a company
func (r *GormLockedCapitalRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*capital.LockedCapital, error) {
	m, err := firstInCompany[models.LockedCapitalModel](ctx, r.db, companyID, id, "Locked capital")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists locked capital matching the filter
func (r *GormLockedCapitalRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter capital.Filter) ([]capital.LockedCapital, int64, error) {
	rows, total, err := findPage[models.LockedCapitalModel](ctx, r.db, filter.Filter,
		capitalSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "purpose", "notes"))
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.InvestorID != nil {
				q = q.Where("investor_id = ?", *filter.InvestorID)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return capitalsToDomain(rows), total, nil
}

// FindUnlockingBetween lists locked records whose unlock date falls in [from, to]
func (r *GormLockedCapitalRepository) FindUnlockingBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]capital.LockedCapital, error) {
	var rows []models.LockedCapitalModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("status = ? AND unlock_date >= ? AND unlock_date <= ?", capital.StatusLocked, from, to).
		Order("unlock_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return capitalsToDomain(rows), nil
}

// FindMatured lists locked records of every company due to unlock by asOf
func (r *GormLockedCapitalRepository) FindMatured(ctx context.Context, asOf time.Time, limit int) ([]capital.LockedCapital, error) {
	var rows []models.LockedCapitalModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND unlock_date <= ?", capital.StatusLocked, asOf).
		Order("unlock_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return capitalsToDomain(rows), nil
}

// TotalsByStatus aggregates amounts per status and currency
func (r *GormLockedCapitalRepository) TotalsByStatus(ctx context.Context, companyID uuid.UUID) ([]capital.StatusTotal, error) {
	var totals []capital.StatusTotal
	if err := r.db.WithContext(ctx).
		Model(&models.LockedCapitalModel{}).
		Scopes(companyScope(companyID)).
		Select("status, currency, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("status, currency").
		Order("status, currency").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// TotalsByInvestor sums the capital still locked per investor
func (r *GormLockedCapitalRepository) TotalsByInvestor(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		InvestorID uuid.UUID
		Amount     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LockedCapitalModel{}).
		Scopes(companyScope(companyID)).
		Where("status IN ?", []capital.Status{capital.StatusLocked, capital.StatusEarlyWithdrawalRequested}).
		Select("investor_id, COALESCE(SUM(amount), 0) AS amount").
		Group("investor_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.InvestorID] = row.Amount
	}
	return out, nil
}

// Save creates or updates a locked capital record
func (r *GormLockedCapitalRepository) Save(ctx context.Context, lc *capital.LockedCapital) error {
	return saveAggregate(ctx, r.db, &lc.BaseAggregateRoot, models.LockedCapitalModelFromDomain(lc))
}

// Delete removes a locked capital record
func (r *GormLockedCapitalRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.LockedCapitalModel](ctx, r.db, companyID, id, "Locked capital")
}

func capitalsToDomain(rows []models.LockedCapitalModel) []capital.LockedCapital {
	out := make([]capital.LockedCapital, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormWithdrawalRepository implements WithdrawalRepository using GORM
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewGormWithdrawalRepository creates a new GormWithdrawalRepository
func NewGormWithdrawalRepository(db *gorm.DB) *GormWithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// FindByID finds a withdrawal request within a company
func (r *GormWithdrawalRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*capital.EarlyWithdrawalRequest, error) {
	m, err := firstInCompany[models.WithdrawalRequestModel](ctx, r.db, companyID, id, "Withdrawal request")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists withdrawal requests matching the filter
func (r *GormWithdrawalRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter capital.WithdrawalFilter) ([]capital.EarlyWithdrawalRequest, int64, error) {
	rows, total, err := findPage[models.WithdrawalRequestModel](ctx, r.db, filter.Filter,
		withdrawalSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID))
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.LockedCapitalID != nil {
				q = q.Where("locked_capital_id = ?", *filter.LockedCapitalID)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]capital.EarlyWithdrawalRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindPendingForCapital returns the open request against a locked capital record
func (r *GormWithdrawalRepository) FindPendingForCapital(ctx context.Context, companyID, lockedCapitalID uuid.UUID) (*capital.EarlyWithdrawalRequest, error) {
	var m models.WithdrawalRequestModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("locked_capital_id = ? AND status = ?", lockedCapitalID, capital.WithdrawalPending).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Withdrawal request")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates a withdrawal request
func (r *GormWithdrawalRepository) Save(ctx context.Context, req *capital.EarlyWithdrawalRequest) error {
	return saveAggregate(ctx, r.db, &req.BaseAggregateRoot, models.WithdrawalRequestModelFromDomain(req))
}

var (
	_ capital.LockedCapitalRepository = (*GormLockedCapitalRepository)(nil)
	_ capital.WithdrawalRepository    = (*GormWithdrawalRepository)(nil)
)
