package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/identity"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository stores platform accounts. Users are global, company
// access is granted through memberships.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// emailScope matches an address regardless of case and surrounding spaces
func emailScope(email string) func(*gorm.DB) *gorm.DB {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(email) = ?", normalized)
	}
}

func (r *GormUserRepository) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*identity.User, error) {
	var row models.UserModel
	err := r.db.WithContext(ctx).Scopes(scope).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.NotFound("User")
	case err != nil:
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) })
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.first(ctx, emailScope(email))
}

// FindByIDs loads the users among ids that exist, in no particular order
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	users := make([]identity.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, nil
}

// ExistsByEmail is checked on registration before the unique index catches it
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(emailScope(email)).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return saveAggregate(ctx, r.db, &user.BaseAggregateRoot, models.UserModelFromDomain(user))
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
