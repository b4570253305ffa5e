package company

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/identity"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByTIN(ctx context.Context, tin string) (*company.Company, error) {
	args := m.Called(ctx, tin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]company.Company, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]company.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return m.Called(ctx, c).Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Find(ctx context.Context, companyID, userID uuid.UUID) (*company.Membership, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]company.Membership, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]company.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByCompanyAndRoles(ctx context.Context, companyID uuid.UUID, roles ...company.Role) ([]company.Membership, error) {
	args := m.Called(ctx, companyID, roles)
	return args.Get(0).([]company.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountByRole(ctx context.Context, companyID uuid.UUID, role company.Role) (int64, error) {
	args := m.Called(ctx, companyID, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) Save(ctx context.Context, ms *company.Membership) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	return m.Called(ctx, companyID, userID).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockShareLedger struct {
	mock.Mock
}

func (m *MockShareLedger) SumShares(ctx context.Context, companyID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

type companyFixture struct {
	svc         *CompanyService
	companies   *MockCompanyRepository
	memberships *MockMembershipRepository
	users       *MockUserRepository
	shares      *MockShareLedger
	store       *cache.MemoryStore
}

func newCompanyFixture(t *testing.T) *companyFixture {
	companies := new(MockCompanyRepository)
	memberships := new(MockMembershipRepository)
	users := new(MockUserRepository)
	shares := new(MockShareLedger)
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	svc := NewCompanyService(companies, memberships, users, shares,
		NewNoOpTransactionScope(companies, memberships), store, nil, zap.NewNop())
	return &companyFixture{svc: svc, companies: companies, memberships: memberships, users: users, shares: shares, store: store}
}

func validRequest() CompanyRequest {
	return CompanyRequest{Name: "Kigali Coffee Ltd", TIN: "102345678", District: "Gasabo"}
}

func TestCompanyService_CreateMakesCreatorOwner(t *testing.T) {
	f := newCompanyFixture(t)
	userID := uuid.New()
	f.companies.On("FindByTIN", mock.Anything, "102345678").Return(nil, shared.NotFound("Company"))
	f.companies.On("Save", mock.Anything, mock.AnythingOfType("*company.Company")).Return(nil)
	f.memberships.On("Save", mock.Anything, mock.MatchedBy(func(m *company.Membership) bool {
		return m.UserID == userID && m.Role == company.RoleOwner
	})).Return(nil)

	resp, err := f.svc.Create(context.Background(), userID, validRequest())

	require.NoError(t, err)
	assert.Equal(t, "OWNER", resp.MyRole)
	assert.Equal(t, "RWF", resp.BaseCurrency)
	assert.Equal(t, 1, resp.FiscalYearStartMonth)
	f.memberships.AssertExpectations(t)
}

func TestCompanyService_CreateDuplicateTIN(t *testing.T) {
	f := newCompanyFixture(t)
	existing, err := company.NewCompany(uuid.New(), validRequest().toProfile())
	require.NoError(t, err)
	f.companies.On("FindByTIN", mock.Anything, "102345678").Return(existing, nil)

	_, err = f.svc.Create(context.Background(), uuid.New(), validRequest())

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	f.companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_UpdateRequiresPrivilege(t *testing.T) {
	f := newCompanyFixture(t)

	_, err := f.svc.Update(context.Background(), access.Actor{CompanyID: uuid.New(), Role: company.RoleAccountant}, validRequest())

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestCompanyService_UpdateAuthorizedShares(t *testing.T) {
	tests := []struct {
		name       string
		authorized int64
		wantErr    error
	}{
		{"below issued shares", 10, shared.ErrInvalidState},
		{"equal to issued shares", 400, nil},
		{"above issued shares", 600, nil},
		{"no cap", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCompanyFixture(t)
			req := validRequest()
			req.AuthorizedShares = 1000
			c, err := company.NewCompany(uuid.New(), req.toProfile())
			require.NoError(t, err)
			f.companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)
			f.companies.On("FindByTIN", mock.Anything, "102345678").Return(c, nil)
			f.companies.On("Save", mock.Anything, c).Return(nil)
			f.shares.On("SumShares", mock.Anything, c.ID, (*uuid.UUID)(nil)).Return(int64(400), nil)

			req.AuthorizedShares = tt.authorized
			resp, err := f.svc.Update(context.Background(), access.Actor{CompanyID: c.ID, Role: company.RoleOwner}, req)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				f.companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authorized, resp.AuthorizedShares)
		})
	}
}

func TestCompanyService_DeleteOnlyOwner(t *testing.T) {
	f := newCompanyFixture(t)

	err := f.svc.Delete(context.Background(), access.Actor{CompanyID: uuid.New(), Role: company.RoleAdmin})

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestCompanyService_DeleteDeregisters(t *testing.T) {
	f := newCompanyFixture(t)
	c, err := company.NewCompany(uuid.New(), validRequest().toProfile())
	require.NoError(t, err)
	f.companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	f.companies.On("Save", mock.Anything, c).Return(nil)
	f.memberships.On("FindByCompany", mock.Anything, c.ID).Return([]company.Membership{}, nil)

	err = f.svc.Delete(context.Background(), access.Actor{CompanyID: c.ID, Role: company.RoleOwner})

	require.NoError(t, err)
	assert.Equal(t, company.StatusDeregistered, c.Status)
}

func TestCompanyService_AddMember(t *testing.T) {
	f := newCompanyFixture(t)
	companyID := uuid.New()
	user, err := identity.NewUser("acc@example.rw", "password123", "Jean Acc")
	require.NoError(t, err)
	f.users.On("FindByEmail", mock.Anything, "acc@example.rw").Return(user, nil)
	f.memberships.On("Find", mock.Anything, companyID, user.ID).Return(nil, shared.NotFound("Membership"))
	f.memberships.On("Save", mock.Anything, mock.AnythingOfType("*company.Membership")).Return(nil)

	resp, err := f.svc.AddMember(context.Background(),
		access.Actor{UserID: uuid.New(), CompanyID: companyID, Role: company.RoleAdmin},
		AddMemberRequest{Email: "acc@example.rw", Role: "ACCOUNTANT"})

	require.NoError(t, err)
	assert.Equal(t, "ACCOUNTANT", resp.Role)
	assert.NotNil(t, resp.InvitedBy)
}

func TestCompanyService_AdminCannotAddOwner(t *testing.T) {
	f := newCompanyFixture(t)

	_, err := f.svc.AddMember(context.Background(),
		access.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: company.RoleAdmin},
		AddMemberRequest{Email: "x@example.rw", Role: "OWNER"})

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestCompanyService_AddMemberAlreadyMember(t *testing.T) {
	f := newCompanyFixture(t)
	companyID := uuid.New()
	user, err := identity.NewUser("acc@example.rw", "password123", "Jean Acc")
	require.NoError(t, err)
	existing, _ := company.NewMembership(companyID, user.ID, company.RoleViewer, nil)
	f.users.On("FindByEmail", mock.Anything, "acc@example.rw").Return(user, nil)
	f.memberships.On("Find", mock.Anything, companyID, user.ID).Return(existing, nil)

	_, err = f.svc.AddMember(context.Background(),
		access.Actor{UserID: uuid.New(), CompanyID: companyID, Role: company.RoleOwner},
		AddMemberRequest{Email: "acc@example.rw", Role: "VIEWER"})

	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}

func TestCompanyService_CannotRemoveLastOwner(t *testing.T) {
	f := newCompanyFixture(t)
	owner := access.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: company.RoleOwner}
	m, _ := company.NewMembership(owner.CompanyID, owner.UserID, company.RoleOwner, nil)
	f.memberships.On("Find", mock.Anything, owner.CompanyID, owner.UserID).Return(m, nil)
	f.memberships.On("CountByRole", mock.Anything, owner.CompanyID, company.RoleOwner).Return(int64(1), nil)

	err := f.svc.RemoveMember(context.Background(), owner, owner.UserID)

	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	f.memberships.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompanyService_CannotDemoteLastOwner(t *testing.T) {
	f := newCompanyFixture(t)
	owner := access.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: company.RoleOwner}
	m, _ := company.NewMembership(owner.CompanyID, owner.UserID, company.RoleOwner, nil)
	f.memberships.On("Find", mock.Anything, owner.CompanyID, owner.UserID).Return(m, nil)
	f.memberships.On("CountByRole", mock.Anything, owner.CompanyID, company.RoleOwner).Return(int64(1), nil)

	_, err := f.svc.ChangeMemberRole(context.Background(), owner, owner.UserID, ChangeRoleRequest{Role: "ADMIN"})

	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestCompanyService_ViewerCanLeave(t *testing.T) {
	f := newCompanyFixture(t)
	viewer := access.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: company.RoleViewer}
	m, _ := company.NewMembership(viewer.CompanyID, viewer.UserID, company.RoleViewer, nil)
	f.memberships.On("Find", mock.Anything, viewer.CompanyID, viewer.UserID).Return(m, nil)
	f.memberships.On("CountByRole", mock.Anything, viewer.CompanyID, company.RoleOwner).Return(int64(1), nil)
	f.memberships.On("Delete", mock.Anything, viewer.CompanyID, viewer.UserID).Return(nil)

	require.NoError(t, f.svc.RemoveMember(context.Background(), viewer, viewer.UserID))
}

func TestCompanyService_ResolveAccess_NonMemberForbidden(t *testing.T) {
	f := newCompanyFixture(t)
	companyID, userID := uuid.New(), uuid.New()
	f.memberships.On("Find", mock.Anything, companyID, userID).Return(nil, shared.NotFound("Membership"))

	_, err := f.svc.ResolveAccess(context.Background(), companyID, userID)

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestCompanyService_ResolveAccess_Cached(t *testing.T) {
	f := newCompanyFixture(t)
	c, err := company.NewCompany(uuid.New(), validRequest().toProfile())
	require.NoError(t, err)
	userID := uuid.New()
	m, _ := company.NewMembership(c.ID, userID, company.RoleAccountant, nil)
	f.memberships.On("Find", mock.Anything, c.ID, userID).Return(m, nil).Once()
	f.companies.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()

	first, err := f.svc.ResolveAccess(context.Background(), c.ID, userID)
	require.NoError(t, err)
	second, err := f.svc.ResolveAccess(context.Background(), c.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, company.RoleAccountant, first.Role)
	assert.Equal(t, first, second)
	f.memberships.AssertNumberOfCalls(t, "Find", 1)
}

func TestCompanyService_ResolveAccess_DeregisteredIsNotFound(t *testing.T) {
	f := newCompanyFixture(t)
	c, err := company.NewCompany(uuid.New(), validRequest().toProfile())
	require.NoError(t, err)
	require.NoError(t, c.Deregister())
	userID := uuid.New()
	m, _ := company.NewMembership(c.ID, userID, company.RoleOwner, nil)
	f.memberships.On("Find", mock.Anything, c.ID, userID).Return(m, nil)
	f.companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)

	_, err = f.svc.ResolveAccess(context.Background(), c.ID, userID)

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
