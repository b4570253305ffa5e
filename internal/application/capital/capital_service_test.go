package capital

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLockedCapitalRepository struct {
	mock.Mock
}

func (m *MockLockedCapitalRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*capital.LockedCapital, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*capital.LockedCapital), args.Error(1)
}

func (m *MockLockedCapitalRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter capital.Filter) ([]capital.LockedCapital, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]capital.LockedCapital), args.Get(1).(int64), args.Error(2)
}

func (m *MockLockedCapitalRepository) FindUnlockingBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]capital.LockedCapital, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).([]capital.LockedCapital), args.Error(1)
}

func (m *MockLockedCapitalRepository) FindMatured(ctx context.Context, asOf time.Time, limit int) ([]capital.LockedCapital, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Get(0).([]capital.LockedCapital), args.Error(1)
}

func (m *MockLockedCapitalRepository) TotalsByStatus(ctx context.Context, companyID uuid.UUID) ([]capital.StatusTotal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]capital.StatusTotal), args.Error(1)
}

func (m *MockLockedCapitalRepository) TotalsByInvestor(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockLockedCapitalRepository) Save(ctx context.Context, lc *capital.LockedCapital) error {
	return m.Called(ctx, lc).Error(0)
}

func (m *MockLockedCapitalRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*capital.EarlyWithdrawalRequest, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*capital.EarlyWithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter capital.WithdrawalFilter) ([]capital.EarlyWithdrawalRequest, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]capital.EarlyWithdrawalRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) FindPendingForCapital(ctx context.Context, companyID, lockedCapitalID uuid.UUID) (*capital.EarlyWithdrawalRequest, error) {
	args := m.Called(ctx, companyID, lockedCapitalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*capital.EarlyWithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) Save(ctx context.Context, r *capital.EarlyWithdrawalRequest) error {
	return m.Called(ctx, r).Error(0)
}

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

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	svc         *CapitalService
	capitals    *MockLockedCapitalRepository
	withdrawals *MockWithdrawalRepository
	persons     *MockPersonRepository
	publisher   *recordingPublisher
	actor       access.Actor
	today       time.Time
}

func newFixture(role company.Role) *fixture {
	f := &fixture{
		capitals:    new(MockLockedCapitalRepository),
		withdrawals: new(MockWithdrawalRepository),
		persons:     new(MockPersonRepository),
		publisher:   &recordingPublisher{},
		actor:       access.Actor{UserID: uuid.New(), CompanyID: uuid.New(), Role: role},
		today:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	f.svc = NewCapitalService(
		f.capitals,
		f.withdrawals,
		f.persons,
		NewNoOpTransactionScope(f.capitals, f.withdrawals),
		config.CapitalConfig{EarlyWithdrawalPenaltyRate: 0.05, UpcomingUnlockDays: 30},
		f.publisher,
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return f.today }
	return f
}

func (f *fixture) lock(t *testing.T, lockDate time.Time, months int) *capital.LockedCapital {
	t.Helper()
	lc, err := capital.NewLockedCapital(f.actor.CompanyID, f.actor.UserID, capital.Terms{
		InvestorID:         uuid.New(),
		Amount:             decimal.NewFromInt(1_200_000),
		Currency:           "RWF",
		LockDate:           lockDate,
		LockPeriodMonths:   months,
		AnnualInterestRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	lc.ClearDomainEvents()
	return lc
}

func TestCapitalService_Create(t *testing.T) {
	f := newFixture(company.RoleAccountant)
	investor := &person.Person{FullName: "Aline Uwase"}
	investorID := uuid.New()
	f.persons.On("FindByID", mock.Anything, f.actor.CompanyID, investorID).Return(investor, nil)
	f.capitals.On("Save", mock.Anything, mock.AnythingOfType("*capital.LockedCapital")).Return(nil)

	resp, err := f.svc.Create(context.Background(), f.actor, LockedCapitalRequest{
		InvestorID:         investorID,
		Amount:             decimal.NewFromInt(1_200_000),
		LockDate:           time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		LockPeriodMonths:   1,
		AnnualInterestRate: decimal.NewFromInt(12),
	})

	require.NoError(t, err)
	assert.Equal(t, "LOCKED", resp.Status)
	assert.Equal(t, "RWF", resp.Currency)
	assert.Equal(t, "Aline Uwase", resp.InvestorName)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), resp.UnlockDate, "month end clamps")
	require.NotNil(t, resp.ROI)
	assert.True(t, resp.ROI.ExpectedReturn.Equal(decimal.NewFromInt(12_000)))
	assert.Equal(t, []string{capital.EventTypeCapitalLocked}, f.publisher.types())
}

func TestCapitalService_Create_UnknownInvestor(t *testing.T) {
	f := newFixture(company.RoleOwner)
	investorID := uuid.New()
	f.persons.On("FindByID", mock.Anything, f.actor.CompanyID, investorID).Return(nil, shared.NotFound("Person"))

	_, err := f.svc.Create(context.Background(), f.actor, LockedCapitalRequest{
		InvestorID:       investorID,
		Amount:           decimal.NewFromInt(100),
		LockDate:         f.today,
		LockPeriodMonths: 6,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.capitals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCapitalService_Create_ViewerForbidden(t *testing.T) {
	f := newFixture(company.RoleViewer)

	_, err := f.svc.Create(context.Background(), f.actor, LockedCapitalRequest{})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCapitalService_Unlock_BeforeMaturity(t *testing.T) {
	f := newFixture(company.RoleOwner)
	lc := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)

	_, err := f.svc.Unlock(context.Background(), f.actor, lc.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.capitals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCapitalService_Unlock_Matured(t *testing.T) {
	f := newFixture(company.RoleOwner)
	lc := f.lock(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)
	f.capitals.On("Save", mock.Anything, lc).Return(nil)

	resp, err := f.svc.Unlock(context.Background(), f.actor, lc.ID)

	require.NoError(t, err)
	assert.Equal(t, "UNLOCKED", resp.Status)
	assert.NotNil(t, resp.UnlockedAt)
	assert.Equal(t, []string{capital.EventTypeCapitalUnlocked}, f.publisher.types())
}

func TestCapitalService_RequestEarlyWithdrawal(t *testing.T) {
	f := newFixture(company.RoleAccountant)
	lc := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)
	f.capitals.On("Save", mock.Anything, lc).Return(nil)
	f.withdrawals.On("Save", mock.Anything, mock.AnythingOfType("*capital.EarlyWithdrawalRequest")).Return(nil)

	resp, err := f.svc.RequestEarlyWithdrawal(context.Background(), f.actor, lc.ID, WithdrawalRequest{Reason: "School fees"})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, resp.PenaltyAmount.Equal(decimal.NewFromInt(60_000)), "5%% of principal, got %s", resp.PenaltyAmount)
	assert.Equal(t, capital.StatusEarlyWithdrawalRequested, lc.Status)
	assert.Contains(t, f.publisher.types(), capital.EventTypeEarlyWithdrawalRequested)
}

func TestCapitalService_ReviewWithdrawal(t *testing.T) {
	tests := []struct {
		name       string
		approve    bool
		notes      string
		wantStatus capital.Status
	}{
		{name: "approve withdraws", approve: true, wantStatus: capital.StatusWithdrawn},
		{name: "reject returns to locked", approve: false, notes: "Insufficient liquidity", wantStatus: capital.StatusLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(company.RoleOwner)
			lc := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
			wr, err := lc.RequestEarlyWithdrawal(uuid.New(), "Medical", decimal.NewFromFloat(0.05), f.today)
			require.NoError(t, err)
			lc.ClearDomainEvents()

			f.withdrawals.On("FindByID", mock.Anything, f.actor.CompanyID, wr.ID).Return(wr, nil)
			f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)
			f.withdrawals.On("Save", mock.Anything, wr).Return(nil)
			f.capitals.On("Save", mock.Anything, lc).Return(nil)

			resp, err := f.svc.ReviewWithdrawal(context.Background(), f.actor, wr.ID, ReviewWithdrawalRequest{Approve: tt.approve, Notes: tt.notes})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, lc.Status)
			assert.Equal(t, f.actor.UserID, *resp.ReviewedBy)
			assert.Contains(t, f.publisher.types(), capital.EventTypeEarlyWithdrawalReviewed)
		})
	}
}

func TestCapitalService_ReviewWithdrawal_RequiresApprover(t *testing.T) {
	f := newFixture(company.RoleAccountant)

	_, err := f.svc.ReviewWithdrawal(context.Background(), f.actor, uuid.New(), ReviewWithdrawalRequest{Approve: true})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.withdrawals.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCapitalService_Delete_PendingWithdrawalRefused(t *testing.T) {
	f := newFixture(company.RoleOwner)
	lc := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)
	f.withdrawals.On("FindPendingForCapital", mock.Anything, f.actor.CompanyID, lc.ID).
		Return(&capital.EarlyWithdrawalRequest{Status: capital.WithdrawalPending}, nil)

	err := f.svc.Delete(context.Background(), f.actor, lc.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.capitals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCapitalService_Delete(t *testing.T) {
	f := newFixture(company.RoleOwner)
	lc := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindByID", mock.Anything, f.actor.CompanyID, lc.ID).Return(lc, nil)
	f.withdrawals.On("FindPendingForCapital", mock.Anything, f.actor.CompanyID, lc.ID).
		Return(nil, shared.NotFound("Withdrawal request"))
	f.capitals.On("Delete", mock.Anything, f.actor.CompanyID, lc.ID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), f.actor, lc.ID))
	f.capitals.AssertExpectations(t)
}

func TestCapitalService_Summary(t *testing.T) {
	f := newFixture(company.RoleViewer)
	soon := f.lock(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("TotalsByStatus", mock.Anything, f.actor.CompanyID).Return([]capital.StatusTotal{
		{Status: capital.StatusLocked, Currency: "RWF", Count: 2, Amount: decimal.NewFromInt(2_400_000)},
	}, nil)
	f.capitals.On("FindUnlockingBetween", mock.Anything, f.actor.CompanyID, f.today, f.today.AddDate(0, 0, 30)).
		Return([]capital.LockedCapital{*soon}, nil)

	resp, err := f.svc.Summary(context.Background(), f.actor)

	require.NoError(t, err)
	assert.Equal(t, 30, resp.UpcomingDays)
	require.Len(t, resp.Totals, 1)
	assert.Equal(t, int64(2), resp.Totals[0].Count)
	require.Len(t, resp.UpcomingUnlocks, 1)
	assert.Equal(t, soon.ID, resp.UpcomingUnlocks[0].ID)
}

func TestCapitalService_UnlockMatured(t *testing.T) {
	f := newFixture(company.RoleOwner)
	matured := f.lock(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 12)
	notYet := f.lock(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	f.capitals.On("FindMatured", mock.Anything, f.today, 100).
		Return([]capital.LockedCapital{*matured, *notYet}, nil)
	f.capitals.On("Save", mock.Anything, mock.AnythingOfType("*capital.LockedCapital")).Return(nil)

	count, err := f.svc.UnlockMatured(context.Background(), f.today, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	f.capitals.AssertNumberOfCalls(t, "Save", 1)
	assert.Equal(t, []string{capital.EventTypeCapitalUnlocked}, f.publisher.types())
}
