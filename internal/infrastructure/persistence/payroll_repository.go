package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPayrollRunRepository implements RunRepository using GORM
type GormPayrollRunRepository struct {
	db *gorm.DB
}

// NewGormPayrollRunRepository creates a new GormPayrollRunRepository
func NewGormPayrollRunRepository(db *gorm.DB) *GormPayrollRunRepository {
	return &GormPayrollRunRepository{db: db}
}

func preloadPayslips(db *gorm.DB) *gorm.DB {
	return db.Preload("Payslips", func(q *gorm.DB) *gorm.DB {
		return q.Order("full_name ASC")
	})
}

// FindByID loads a run with its payslips
func (r *GormPayrollRunRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*payroll.Run, error) {
	return r.first(r.db.WithContext(ctx).Scopes(companyScope(companyID), preloadPayslips).Where("id = ?", id))
}

// FindByPeriod loads the run of a month with its payslips
func (r *GormPayrollRunRepository) FindByPeriod(ctx context.Context, companyID uuid.UUID, year, month int) (*payroll.Run, error) {
	return r.first(r.db.WithContext(ctx).
		Scopes(companyScope(companyID), preloadPayslips).
		Where("year = ? AND month = ?", year, month))
}

func (r *GormPayrollRunRepository) first(q *gorm.DB) (*payroll.Run, error) {
	var m models.PayrollRunModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Payroll run")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists runs without their payslips
func (r *GormPayrollRunRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter payroll.Filter) ([]payroll.Run, int64, error) {
	rows, total, err := findPage[models.PayrollRunModel](ctx, r.db, filter.Filter,
		payrollRunSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID))
			if filter.Year != 0 {
				q = q.Where("year = ?", filter.Year)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]payroll.Run, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsForPeriod reports whether the month already has a run
func (r *GormPayrollRunRepository) ExistsForPeriod(ctx context.Context, companyID uuid.UUID, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PayrollRunModel{}).
		Scopes(companyScope(companyID)).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists the run and replaces its payslips in one transaction
func (r *GormPayrollRunRepository) Save(ctx context.Context, run *payroll.Run) error {
	m := models.PayrollRunModelFromDomain(run)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(ctx, tx, &run.BaseAggregateRoot, m); err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", run.ID).Delete(&models.PayslipModel{}).Error; err != nil {
			return err
		}
		if len(m.Payslips) == 0 {
			return nil
		}
		return tx.CreateInBatches(&m.Payslips, 100).Error
	})
}

// Delete removes a run and its payslips
func (r *GormPayrollRunRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteInCompany[models.PayrollRunModel](ctx, tx, companyID, id, "Payroll run"); err != nil {
			return err
		}
		return tx.Where("run_id = ?", id).Delete(&models.PayslipModel{}).Error
	})
}

var _ payroll.RunRepository = (*GormPayrollRunRepository)(nil)
