package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByTIN(ctx context.Context, tin string) (*Company, error)
	// FindForUser lists the companies the user is a member of
	FindForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Company, int64, error)
	Save(ctx context.Context, company *Company) error
}

// MembershipRepository defines persistence for memberships
type MembershipRepository interface {
	Find(ctx context.Context, companyID, userID uuid.UUID) (*Membership, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Membership, error)
	FindByCompanyAndRoles(ctx context.Context, companyID uuid.UUID, roles ...Role) ([]Membership, error)
	CountByRole(ctx context.Context, companyID uuid.UUID, role Role) (int64, error)
	Save(ctx context.Context, m *Membership) error
	Delete(ctx context.Context, companyID, userID uuid.UUID) error
}
