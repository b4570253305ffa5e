package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error) {
	args := m.Called(ctx, companyID, stem)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindDueForOverdue(ctx context.Context, asOf time.Time, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) TotalsBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (billing.PeriodTotals, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).(billing.PeriodTotals), args.Error(1)
}

func (m *MockInvoiceRepository) Receivables(ctx context.Context, companyID uuid.UUID) (billing.Receivables, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(billing.Receivables), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.ReceiptFilter) ([]billing.Receipt, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]billing.Receipt), args.Get(1).(int64), args.Error(2)
}

func (m *MockReceiptRepository) NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error) {
	args := m.Called(ctx, companyID, stem)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, r *billing.Receipt) error {
	return m.Called(ctx, r).Error(0)
}

type companyLookup struct {
	company.CompanyRepository
	company *company.Company
}

func (c *companyLookup) FindByID(_ context.Context, id uuid.UUID) (*company.Company, error) {
	if c.company == nil || c.company.ID != id {
		return nil, shared.NotFound("Company")
	}
	return c.company, nil
}

type fakePrinter struct {
	template string
	title    string
	data     any
}

func (p *fakePrinter) RenderPDF(_ context.Context, template, title string, data any) ([]byte, error) {
	p.template, p.title, p.data = template, title, data
	return []byte("%PDF-1.7"), nil
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
	svc       *InvoiceService
	invoices  *MockInvoiceRepository
	receipts  *MockReceiptRepository
	companies *companyLookup
	printer   *fakePrinter
	publisher *recordingPublisher
	companyID uuid.UUID
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		invoices:  new(MockInvoiceRepository),
		receipts:  new(MockReceiptRepository),
		companies: &companyLookup{},
		printer:   &fakePrinter{},
		publisher: &recordingPublisher{},
		now:       time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	c := &company.Company{Name: "Umurava Ltd", TIN: "102345678"}
	c.ID = uuid.New()
	f.companies.company = c
	f.companyID = c.ID
	f.svc = NewInvoiceService(f.invoices, f.receipts, f.companies,
		NewNoOpTransactionScope(f.invoices, f.receipts), f.printer, f.publisher, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) actor(role company.Role) access.Actor {
	return access.Actor{UserID: uuid.New(), CompanyID: f.companyID, Role: role}
}

func (f *fixture) request() InvoiceRequest {
	return InvoiceRequest{
		CustomerName: "Inzozi Traders",
		IssueDate:    f.now,
		Items: []ItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(25000), VATRate: decimal.NewFromInt(18)},
			{Description: "Books", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10000)},
		},
	}
}

func (f *fixture) issued(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(f.companyID, uuid.New(), "INV-202506-00001", f.request().toDraft())
	require.NoError(t, err)
	require.NoError(t, inv.Issue(f.now))
	inv.ClearDomainEvents()
	f.invoices.On("FindByID", mock.Anything, f.companyID, inv.ID).Return(inv, nil)
	return inv
}

func TestInvoiceService_Create_NumbersPerMonth(t *testing.T) {
	f := newFixture()
	f.invoices.On("NextSequence", mock.Anything, f.companyID, "INV-202506-").Return(int64(42), nil)
	f.invoices.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	resp, err := f.svc.Create(context.Background(), f.actor(company.RoleAccountant), f.request())

	require.NoError(t, err)
	assert.Equal(t, "INV-202506-00042", resp.Number)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.True(t, decimal.NewFromInt(60000).Equal(resp.Subtotal))
	assert.True(t, decimal.NewFromInt(9000).Equal(resp.VATTotal))
	assert.True(t, decimal.NewFromInt(69000).Equal(resp.Total))
	assert.Equal(t, f.now, resp.DueDate, "due date defaults to the issue date")
}

func TestInvoiceService_Create_ViewerForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), f.actor(company.RoleViewer), f.request())

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.invoices.AssertNotCalled(t, "NextSequence", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		wantStatus billing.Status
		wantErr    error
	}{
		{name: "partial payment", amount: 30000, wantStatus: billing.StatusPartiallyPaid},
		{name: "full payment", amount: 69000, wantStatus: billing.StatusPaid},
		{name: "overpayment refused", amount: 70000, wantErr: shared.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			inv := f.issued(t)
			f.receipts.On("NextSequence", mock.Anything, f.companyID, "RCT-202506-").Return(int64(7), nil)
			f.invoices.On("Save", mock.Anything, inv).Return(nil)
			f.receipts.On("Save", mock.Anything, mock.AnythingOfType("*billing.Receipt")).Return(nil)

			resp, err := f.svc.RecordPayment(context.Background(), f.actor(company.RoleAccountant), inv.ID, ReceiptRequest{
				Amount:        decimal.NewFromInt(tt.amount),
				PaymentMethod: "MOBILE_MONEY",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "RCT-202506-00007", resp.Receipt.Number)
			assert.Equal(t, string(tt.wantStatus), resp.Invoice.Status)
			assert.True(t, decimal.NewFromInt(69000-tt.amount).Equal(resp.Invoice.Balance))
			assert.Equal(t, []string{billing.EventTypePaymentReceived}, f.publisher.types())
		})
	}
}

func TestInvoiceService_RecordPayment_SaveFailureSurfaces(t *testing.T) {
	f := newFixture()
	inv := f.issued(t)
	f.receipts.On("NextSequence", mock.Anything, f.companyID, mock.Anything).Return(int64(1), nil)
	f.invoices.On("Save", mock.Anything, inv).Return(nil)
	f.receipts.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.RecordPayment(context.Background(), f.actor(company.RoleOwner), inv.ID, ReceiptRequest{
		Amount: decimal.NewFromInt(100), PaymentMethod: "CASH",
	})

	require.Error(t, err)
	assert.Empty(t, f.publisher.events)
}

func TestInvoiceService_Issue(t *testing.T) {
	f := newFixture()
	inv, err := billing.NewInvoice(f.companyID, uuid.New(), "INV-202506-00002", f.request().toDraft())
	require.NoError(t, err)
	f.invoices.On("FindByID", mock.Anything, f.companyID, inv.ID).Return(inv, nil)
	f.invoices.On("Save", mock.Anything, inv).Return(nil)

	resp, err := f.svc.Issue(context.Background(), f.actor(company.RoleAccountant), inv.ID)

	require.NoError(t, err)
	assert.Equal(t, "ISSUED", resp.Status)
	assert.Equal(t, []string{billing.EventTypeInvoiceIssued}, f.publisher.types())
}

func TestInvoiceService_Delete_OnlyDrafts(t *testing.T) {
	f := newFixture()
	inv := f.issued(t)

	err := f.svc.Delete(context.Background(), f.actor(company.RoleOwner), inv.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Cancel_WithPaymentsRefused(t *testing.T) {
	f := newFixture()
	inv := f.issued(t)
	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(1000)))

	_, err := f.svc.Cancel(context.Background(), f.actor(company.RoleOwner), inv.ID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestInvoiceService_ExportPDF(t *testing.T) {
	f := newFixture()
	inv := f.issued(t)

	pdf, name, err := f.svc.ExportPDF(context.Background(), f.actor(company.RoleViewer), inv.ID)

	require.NoError(t, err)
	assert.Equal(t, "INV-202506-00001.pdf", name)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)
	assert.Equal(t, TemplateInvoice, f.printer.template)
	data, ok := f.printer.data.(InvoicePrint)
	require.True(t, ok)
	assert.Equal(t, "Umurava Ltd", data.Company.Name)
	assert.Equal(t, inv.Number, data.Invoice.Number)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	f := newFixture()
	past, err := billing.NewInvoice(f.companyID, uuid.New(), "INV-202505-00001", billing.Draft{
		Customer:  billing.Customer{Name: "Late payer"},
		IssueDate: f.now.AddDate(0, -1, 0),
		DueDate:   f.now.AddDate(0, 0, -3),
		Items:     []billing.ItemInput{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	require.NoError(t, past.Issue(f.now.AddDate(0, -1, 0)))
	past.ClearDomainEvents()
	failing, err := billing.NewInvoice(f.companyID, uuid.New(), "INV-202505-00002", billing.Draft{
		Customer:  billing.Customer{Name: "Other"},
		IssueDate: f.now.AddDate(0, -1, 0),
		DueDate:   f.now.AddDate(0, 0, -2),
		Items:     []billing.ItemInput{{Description: "y", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	require.NoError(t, failing.Issue(f.now.AddDate(0, -1, 0)))
	failing.ClearDomainEvents()

	f.invoices.On("FindDueForOverdue", mock.Anything, f.now, 100).Return([]billing.Invoice{*past, *failing}, nil)
	f.invoices.On("Save", mock.Anything, mock.MatchedBy(func(inv *billing.Invoice) bool { return inv.Number == past.Number })).Return(nil)
	f.invoices.On("Save", mock.Anything, mock.MatchedBy(func(inv *billing.Invoice) bool { return inv.Number == failing.Number })).Return(errors.New("conflict"))

	n, err := f.svc.MarkOverdue(context.Background(), f.now, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{billing.EventTypeInvoiceOverdue}, f.publisher.types())
}
