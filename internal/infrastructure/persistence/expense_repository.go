package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense within a company
func (r *GormExpenseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*expense.Expense, error) {
	m, err := firstInCompany[models.ExpenseModel](ctx, r.db, companyID, id, "Expense")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter expense.Filter) ([]expense.Expense, int64, error) {
	rows, total, err := findPage[models.ExpenseModel](ctx, r.db, filter.Filter,
		expenseSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "description", "supplier_name"))
			if filter.Category != "" {
				q = q.Where("category = ?", filter.Category)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.From != nil {
				q = q.Where("expense_date >= ?", *filter.From)
			}
			if filter.To != nil {
				q = q.Where("expense_date <= ?", *filter.To)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]expense.Expense, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SumByCategory totals expenses dated in [from, to] per category
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time, status expense.Status) ([]expense.CategoryTotal, error) {
	var rows []struct {
		Category  expense.Category
		Amount    decimal.Decimal
		VATAmount decimal.Decimal
		Count     int64
	}
	q := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Scopes(companyScope(companyID)).
		Where("expense_date >= ? AND expense_date <= ?", from, to)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.
		Select("category, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(vat_amount), 0) AS vat_amount, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]expense.CategoryTotal, len(rows))
	for i, row := range rows {
		out[i] = expense.CategoryTotal{
			Category:   row.Category,
			Deductible: row.Category.IsDeductible(),
			Amount:     row.Amount,
			VATAmount:  row.VATAmount,
			Count:      row.Count,
		}
	}
	return out, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, e *expense.Expense) error {
	return saveAggregate(ctx, r.db, &e.BaseAggregateRoot, models.ExpenseModelFromDomain(e))
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.ExpenseModel](ctx, r.db, companyID, id, "Expense")
}

var _ expense.ExpenseRepository = (*GormExpenseRepository)(nil)
