package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// companyScope restricts a query to one company's rows
func companyScope(companyID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// searchScope matches the term case-insensitively against any of the columns.
// LOWER/LIKE keeps the query portable between postgres and sqlite.
func searchScope(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// paginate orders by a whitelisted column and applies offset and limit.
// id breaks ties so pages stay stable.
func paginate(f shared.Filter, spec sortSpec) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f.Normalize()
		return db.Order(spec.orderBy(f.OrderBy, f.OrderDir)).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
			Offset(f.Offset()).
			Limit(f.PageSize)
	}
}

// findPage counts the rows selected by build and loads the requested page
func findPage[M any](ctx context.Context, db *gorm.DB, f shared.Filter, spec sortSpec, build func(*gorm.DB) *gorm.DB) ([]M, int64, error) {
	var total int64
	if err := build(db.WithContext(ctx).Model(new(M))).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []M
	if total == 0 {
		return rows, 0, nil
	}
	if err := build(db.WithContext(ctx).Model(new(M))).Scopes(paginate(f, spec)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// firstInCompany loads one row by id within a company
func firstInCompany[M any](ctx context.Context, db *gorm.DB, companyID, id uuid.UUID, resource string) (*M, error) {
	var m M
	if err := db.WithContext(ctx).Scopes(companyScope(companyID)).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound(resource)
		}
		return nil, err
	}
	return &m, nil
}

// deleteInCompany removes one row by id within a company
func deleteInCompany[M any](ctx context.Context, db *gorm.DB, companyID, id uuid.UUID, resource string) error {
	result := db.WithContext(ctx).Scopes(companyScope(companyID)).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(resource)
	}
	return nil
}

// versionedModel is a model carrying the optimistic-locking version column
type versionedModel interface {
	SetVersion(v int)
}

// saveAggregate inserts a new aggregate or updates a loaded one guarded by
// its persisted version. A lost race yields ErrConcurrencyConflict.
func saveAggregate(ctx context.Context, db *gorm.DB, root *shared.BaseAggregateRoot, model versionedModel) error {
	persisted := root.PersistedVersion()
	if persisted == 0 {
		if err := db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		root.MarkPersisted(root.Version)
		return nil
	}

	next := root.NextVersion()
	model.SetVersion(next)
	result := db.WithContext(ctx).
		Model(model).
		Where("version = ?", persisted).
		Select("*").
		Omit(clause.Associations).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	root.MarkPersisted(next)
	return nil
}

// translateError maps driver-level errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.InvalidInput("Referenced record does not exist")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	default:
		return err
	}
}

// scanSum totals a numeric column over the rows selected by q
func scanSum(q *gorm.DB, column string) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	if err := q.Select("COALESCE(SUM(" + column + "), 0) AS total").Scan(&out).Error; err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}
