package person

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*person.Person, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Person), args.Error(1)
}

func (m *MockPersonRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter person.Filter) ([]person.Person, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]person.Person), args.Get(1).(int64), args.Error(2)
}

func (m *MockPersonRepository) FindShareholders(ctx context.Context, companyID uuid.UUID) ([]person.Person, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]person.Person), args.Error(1)
}

func (m *MockPersonRepository) FindActiveEmployees(ctx context.Context, companyID uuid.UUID) ([]person.Person, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]person.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]person.Person, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).([]person.Person), args.Error(1)
}

func (m *MockPersonRepository) SumShares(ctx context.Context, companyID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPersonRepository) CountByRole(ctx context.Context, companyID uuid.UUID) (map[person.Role]int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(map[person.Role]int64), args.Error(1)
}

func (m *MockPersonRepository) Save(ctx context.Context, p *person.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

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

func newTestCompany(t *testing.T, authorized int64) *company.Company {
	t.Helper()
	c, err := company.NewCompany(uuid.New(), company.Profile{Name: "Acme Ltd", TIN: "100000001", AuthorizedShares: authorized})
	require.NoError(t, err)
	return c
}

func shareholderRequest(shares int64) PersonRequest {
	return PersonRequest{
		FullName:   "Eric Mugisha",
		NationalID: "1198580012345671",
		Roles:      []string{"SHAREHOLDER"},
		SharesHeld: shares,
	}
}

func TestPersonService_CreateWithinCapacity(t *testing.T) {
	persons, companies := new(MockPersonRepository), new(MockCompanyRepository)
	svc := NewPersonService(persons, companies, nil, zap.NewNop())
	c := newTestCompany(t, 1000)
	actor := access.Actor{UserID: uuid.New(), CompanyID: c.ID, Role: company.RoleAccountant}
	companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	persons.On("SumShares", mock.Anything, c.ID, (*uuid.UUID)(nil)).Return(int64(600), nil)
	persons.On("Save", mock.Anything, mock.AnythingOfType("*person.Person")).Return(nil)

	resp, err := svc.Create(context.Background(), actor, shareholderRequest(400))

	require.NoError(t, err)
	assert.Equal(t, int64(400), resp.SharesHeld)
	assert.Equal(t, "ORDINARY", resp.ShareClass)
}

func TestPersonService_CreateExceedingCapacity(t *testing.T) {
	persons, companies := new(MockPersonRepository), new(MockCompanyRepository)
	svc := NewPersonService(persons, companies, nil, zap.NewNop())
	c := newTestCompany(t, 1000)
	actor := access.Actor{UserID: uuid.New(), CompanyID: c.ID, Role: company.RoleOwner}
	companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	persons.On("SumShares", mock.Anything, c.ID, (*uuid.UUID)(nil)).Return(int64(600), nil)

	_, err := svc.Create(context.Background(), actor, shareholderRequest(401))

	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	persons.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPersonService_ViewerCannotWrite(t *testing.T) {
	svc := NewPersonService(new(MockPersonRepository), new(MockCompanyRepository), nil, zap.NewNop())

	_, err := svc.Create(context.Background(), access.Actor{CompanyID: uuid.New(), Role: company.RoleViewer}, shareholderRequest(1))

	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

func TestPersonService_UpdateSharesExcludesSelf(t *testing.T) {
	persons, companies := new(MockPersonRepository), new(MockCompanyRepository)
	svc := NewPersonService(persons, companies, nil, zap.NewNop())
	c := newTestCompany(t, 1000)
	actor := access.Actor{UserID: uuid.New(), CompanyID: c.ID, Role: company.RoleAdmin}
	p, err := person.NewPerson(c.ID, actor.UserID, shareholderRequest(500).toDetails())
	require.NoError(t, err)
	persons.On("FindByID", mock.Anything, c.ID, p.ID).Return(p, nil)
	companies.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	persons.On("SumShares", mock.Anything, c.ID, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == p.ID
	})).Return(int64(200), nil)
	persons.On("Save", mock.Anything, p).Return(nil)

	resp, err := svc.UpdateShares(context.Background(), actor, p.ID, UpdateSharesRequest{SharesHeld: 800})

	require.NoError(t, err)
	assert.Equal(t, int64(800), resp.SharesHeld)
}

func TestPersonService_DeleteShareholderRefused(t *testing.T) {
	persons := new(MockPersonRepository)
	svc := NewPersonService(persons, new(MockCompanyRepository), nil, zap.NewNop())
	companyID := uuid.New()
	p, err := person.NewPerson(companyID, uuid.New(), shareholderRequest(10).toDetails())
	require.NoError(t, err)
	persons.On("FindByID", mock.Anything, companyID, p.ID).Return(p, nil)

	err = svc.Delete(context.Background(), access.Actor{CompanyID: companyID, Role: company.RoleOwner}, p.ID)

	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	persons.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPersonService_ListByRole(t *testing.T) {
	persons := new(MockPersonRepository)
	svc := NewPersonService(persons, new(MockCompanyRepository), nil, zap.NewNop())
	companyID := uuid.New()
	persons.On("FindAll", mock.Anything, companyID, mock.MatchedBy(func(f person.Filter) bool {
		return f.Role == person.RoleEmployee && f.Search == "ali"
	})).Return([]person.Person{}, int64(0), nil)

	items, total, err := svc.List(context.Background(), access.Actor{CompanyID: companyID, Role: company.RoleViewer},
		ListPersonsRequest{Role: "EMPLOYEE", Search: "ali"})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
