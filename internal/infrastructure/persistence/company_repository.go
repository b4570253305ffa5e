package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Company")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTIN finds a company by its tax identification number
func (r *GormCompanyRepository) FindByTIN(ctx context.Context, tin string) (*company.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Where("tin = ?", strings.TrimSpace(tin)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Company")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForUser lists the companies a user belongs to
func (r *GormCompanyRepository) FindForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]company.Company, int64, error) {
	memberOf := r.db.Model(&models.MembershipModel{}).Select("company_id").Where("user_id = ?", userID)
	rows, total, err := findPage[models.CompanyModel](ctx, r.db, filter,
		companySort,
		func(q *gorm.DB) *gorm.DB {
			return q.Where("id IN (?)", memberOf).Scopes(searchScope(filter.Search, "name", "tin"))
		})
	if err != nil {
		return nil, 0, err
	}
	companies := make([]company.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, total, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return saveAggregate(ctx, r.db, &c.BaseAggregateRoot, models.CompanyModelFromDomain(c))
}

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Find loads the membership of a user in a company
func (r *GormMembershipRepository) Find(ctx context.Context, companyID, userID uuid.UUID) (*company.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Membership")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCompany lists every membership of a company
func (r *GormMembershipRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]company.Membership, error) {
	return r.find(r.db.WithContext(ctx).Scopes(companyScope(companyID)))
}

// FindByCompanyAndRoles lists memberships holding any of the roles
func (r *GormMembershipRepository) FindByCompanyAndRoles(ctx context.Context, companyID uuid.UUID, roles ...company.Role) ([]company.Membership, error) {
	if len(roles) == 0 {
		return []company.Membership{}, nil
	}
	return r.find(r.db.WithContext(ctx).Scopes(companyScope(companyID)).Where("role IN ?", roles))
}

func (r *GormMembershipRepository) find(q *gorm.DB) ([]company.Membership, error) {
	var rows []models.MembershipModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]company.Membership, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByRole counts the members holding a role
func (r *GormMembershipRepository) CountByRole(ctx context.Context, companyID uuid.UUID, role company.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MembershipModel{}).
		Where("company_id = ? AND role = ?", companyID, role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, m *company.Membership) error {
	return translateError(r.db.WithContext(ctx).Save(models.MembershipModelFromDomain(m)).Error)
}

// Delete removes a user from a company
func (r *GormMembershipRepository) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.MembershipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Membership")
	}
	return nil
}

var (
	_ company.CompanyRepository    = (*GormCompanyRepository)(nil)
	_ company.MembershipRepository = (*GormMembershipRepository)(nil)
)
