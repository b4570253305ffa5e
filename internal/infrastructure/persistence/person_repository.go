package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPersonRepository implements PersonRepository using GORM
type GormPersonRepository struct {
	db *gorm.DB
}

// NewGormPersonRepository creates a new GormPersonRepository
func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// FindByID finds a person within a company
func (r *GormPersonRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*person.Person, error) {
	m, err := firstInCompany[models.PersonModel](ctx, r.db, companyID, id, "Person")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists persons matching the filter
func (r *GormPersonRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter person.Filter) ([]person.Person, int64, error) {
	rows, total, err := findPage[models.PersonModel](ctx, r.db, filter.Filter,
		personSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "full_name", "email", "national_id"))
			if filter.Role != "" {
				q = q.Scopes(hasRole(filter.Role))
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return personsToDomain(rows), total, nil
}

// FindShareholders returns every person holding shares, ordered by name
func (r *GormPersonRepository) FindShareholders(ctx context.Context, companyID uuid.UUID) ([]person.Person, error) {
	var rows []models.PersonModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("shares_held > 0").
		Order("full_name ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return personsToDomain(rows), nil
}

// FindActiveEmployees returns persons with an active employment
func (r *GormPersonRepository) FindActiveEmployees(ctx context.Context, companyID uuid.UUID) ([]person.Person, error) {
	var rows []models.PersonModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID), hasRole(person.RoleEmployee)).
		Where("employment_status = ?", person.EmploymentActive).
		Order("full_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return personsToDomain(rows), nil
}

// FindByIDs loads several persons of a company
func (r *GormPersonRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]person.Person, error) {
	if len(ids) == 0 {
		return []person.Person{}, nil
	}
	var rows []models.PersonModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return personsToDomain(rows), nil
}

// SumShares totals the shares held in a company, optionally excluding one person
func (r *GormPersonRepository) SumShares(ctx context.Context, companyID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.PersonModel{}).Scopes(companyScope(companyID))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Select("COALESCE(SUM(shares_held), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CountByRole counts persons per role. A person with several roles counts once per role.
func (r *GormPersonRepository) CountByRole(ctx context.Context, companyID uuid.UUID) (map[person.Role]int64, error) {
	var rows []models.PersonModel
	if err := r.db.WithContext(ctx).
		Select("id", "roles").
		Scopes(companyScope(companyID)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[person.Role]int64{
		person.RoleShareholder: 0,
		person.RoleDirector:    0,
		person.RoleEmployee:    0,
	}
	for _, row := range rows {
		for _, role := range row.Roles {
			counts[role]++
		}
	}
	return counts, nil
}

// Save creates or updates a person
func (r *GormPersonRepository) Save(ctx context.Context, p *person.Person) error {
	return saveAggregate(ctx, r.db, &p.BaseAggregateRoot, models.PersonModelFromDomain(p))
}

// Delete removes a person
func (r *GormPersonRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.PersonModel](ctx, r.db, companyID, id, "Person")
}

// hasRole matches the JSON-encoded roles column
func hasRole(role person.Role) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("roles LIKE ?", `%"`+string(role)+`"%`)
	}
}

func personsToDomain(rows []models.PersonModel) []person.Person {
	out := make([]person.Person, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ person.PersonRepository = (*GormPersonRepository)(nil)
