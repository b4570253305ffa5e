package expense

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter expense.Filter) ([]expense.Expense, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]expense.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time, status expense.Status) ([]expense.CategoryTotal, error) {
	args := m.Called(ctx, companyID, from, to, status)
	return args.Get(0).([]expense.CategoryTotal), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, e *expense.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// archive knows a fixed set of document IDs
type archive struct {
	document.DocumentRepository
	ids map[uuid.UUID]bool
}

func (a *archive) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*document.Document, error) {
	if !a.ids[id] {
		return nil, shared.NotFound("Document")
	}
	doc := &document.Document{}
	doc.ID = id
	return doc, nil
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
	svc       *ExpenseService
	repo      *MockExpenseRepository
	docs      *archive
	publisher *recordingPublisher
	companyID uuid.UUID
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockExpenseRepository),
		docs:      &archive{ids: map[uuid.UUID]bool{}},
		publisher: &recordingPublisher{},
		companyID: uuid.New(),
		now:       time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC),
	}
	f.svc = NewExpenseService(f.repo, f.docs, f.publisher, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) actor(role company.Role) access.Actor {
	return access.Actor{UserID: uuid.New(), CompanyID: f.companyID, Role: role}
}

func rent() ExpenseRequest {
	return ExpenseRequest{
		Category:     "RENT",
		Description:  "  Office rent June ",
		Amount:       decimal.NewFromInt(250000),
		VATAmount:    decimal.NewFromInt(45000),
		SupplierName: "Kigali Heights",
		SupplierTIN:  "100234567",
		ExpenseDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) stored(t *testing.T) *expense.Expense {
	t.Helper()
	e, err := expense.NewExpense(f.companyID, uuid.New(), rent().toDetails())
	require.NoError(t, err)
	f.repo.On("FindByID", mock.Anything, f.companyID, e.ID).Return(e, nil)
	f.repo.On("Save", mock.Anything, e).Return(nil)
	return e
}

func TestExpenseService_Create(t *testing.T) {
	f := newFixture()
	receipt := uuid.New()
	f.docs.ids[receipt] = true
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*expense.Expense")).Return(nil)

	req := rent()
	req.ReceiptDocumentID = &receipt
	resp, err := f.svc.Create(context.Background(), f.actor(company.RoleAccountant), req)
	require.NoError(t, err)

	assert.Equal(t, "Office rent June", resp.Description)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, "RWF", resp.Currency)
	assert.True(t, resp.Deductible)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(295000)))
	assert.Equal(t, receipt, *resp.ReceiptDocumentID)
}

func TestExpenseService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		role   company.Role
		mutate func(*ExpenseRequest)
		want   error
	}{
		{"viewer", company.RoleViewer, func(*ExpenseRequest) {}, shared.ErrForbidden},
		{"unknown category", company.RoleOwner, func(r *ExpenseRequest) { r.Category = "YACHTS" }, shared.ErrInvalidInput},
		{"zero amount", company.RoleOwner, func(r *ExpenseRequest) { r.Amount = decimal.Zero }, shared.ErrInvalidInput},
		{"unknown receipt", company.RoleOwner, func(r *ExpenseRequest) { id := uuid.New(); r.ReceiptDocumentID = &id }, shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := rent()
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), f.actor(tt.role), req)
			assert.ErrorIs(t, err, tt.want)
			f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestExpenseService_ApprovalWorkflow(t *testing.T) {
	f := newFixture()
	e := f.stored(t)
	clerk := f.actor(company.RoleAccountant)
	owner := f.actor(company.RoleOwner)

	resp, err := f.svc.Submit(context.Background(), clerk, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTED", resp.Status)
	assert.Equal(t, f.now, *resp.SubmittedAt)

	_, err = f.svc.Approve(context.Background(), clerk, e.ID, ReviewRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = f.svc.Reject(context.Background(), owner, e.ID, ReviewRequest{Notes: " "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput, "rejection needs a reason")

	resp, err = f.svc.Reject(context.Background(), owner, e.ID, ReviewRequest{Notes: "Missing EBM receipt"})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, owner.UserID, *resp.ReviewedBy)

	resp, err = f.svc.Update(context.Background(), clerk, e.ID, rent())
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", resp.Status, "editing a rejected expense reopens it")

	_, err = f.svc.Submit(context.Background(), clerk, e.ID)
	require.NoError(t, err)
	resp, err = f.svc.Approve(context.Background(), owner, e.ID, ReviewRequest{Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)

	_, err = f.svc.Update(context.Background(), clerk, e.ID, rent())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), owner, e.ID), shared.ErrInvalidState)

	assert.Equal(t, []string{
		expense.EventTypeExpenseSubmitted,
		expense.EventTypeExpenseRejected,
		expense.EventTypeExpenseSubmitted,
		expense.EventTypeExpenseApproved,
	}, f.publisher.types())
	for _, ev := range f.publisher.events {
		assert.Equal(t, f.companyID, ev.CompanyID())
	}
	assert.Empty(t, e.GetDomainEvents(), "published events are cleared")
}

func TestExpenseService_Delete(t *testing.T) {
	f := newFixture()
	e := f.stored(t)
	f.repo.On("Delete", mock.Anything, f.companyID, e.ID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), f.actor(company.RoleAccountant), e.ID))
	f.repo.AssertCalled(t, "Delete", mock.Anything, f.companyID, e.ID)
}

func TestExpenseService_Summary(t *testing.T) {
	f := newFixture()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	f.repo.On("SumByCategory", mock.Anything, f.companyID, from, to, expense.StatusApproved).Return([]expense.CategoryTotal{
		{Category: expense.CategoryRent, Deductible: true, Amount: decimal.NewFromInt(1500000), VATAmount: decimal.NewFromInt(270000), Count: 6},
		{Category: expense.CategoryEntertainment, Deductible: false, Amount: decimal.NewFromInt(80000), Count: 2},
	}, nil)

	resp, err := f.svc.Summary(context.Background(), f.actor(company.RoleViewer), SummaryRequest{From: from, To: to, Status: "APPROVED"})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1580000)))
	assert.True(t, resp.VATTotal.Equal(decimal.NewFromInt(270000)))
	assert.True(t, resp.DeductibleTotal.Equal(decimal.NewFromInt(1500000)))

	_, err = f.svc.Summary(context.Background(), f.actor(company.RoleViewer), SummaryRequest{From: to, To: from})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestExpenseService_Categories(t *testing.T) {
	f := newFixture()

	cats := f.svc.Categories()
	require.Len(t, cats, 15)
	deductible := map[expense.Category]bool{}
	for _, c := range cats {
		deductible[c.Code] = c.Deductible
	}
	assert.False(t, deductible[expense.CategoryFinesPenalties])
	assert.True(t, deductible[expense.CategoryOther])
}
