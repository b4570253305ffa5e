package asset

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*asset.FixedAsset, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter asset.Filter) ([]asset.FixedAsset, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]asset.FixedAsset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) FindInService(ctx context.Context, companyID uuid.UUID, year int) ([]asset.FixedAsset, error) {
	args := m.Called(ctx, companyID, year)
	return args.Get(0).([]asset.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.FixedAsset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type fixture struct {
	svc       *AssetService
	repo      *MockAssetRepository
	companyID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{repo: new(MockAssetRepository), companyID: uuid.New()}
	f.svc = NewAssetService(f.repo, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) actor(role company.Role) access.Actor {
	return access.Actor{UserID: uuid.New(), CompanyID: f.companyID, Role: role}
}

func rwf(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func van() AssetRequest {
	return AssetRequest{
		Name:            "Delivery van",
		Class:           "VEHICLES",
		AcquisitionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Cost:            rwf(24000000),
		SalvageValue:    rwf(4000000),
		UsefulLifeYears: 4,
	}
}

func (f *fixture) stored(t *testing.T, req AssetRequest) *asset.FixedAsset {
	t.Helper()
	a, err := asset.NewFixedAsset(f.companyID, uuid.New(), req.toDetails())
	require.NoError(t, err)
	f.repo.On("FindByID", mock.Anything, f.companyID, a.ID).Return(a, nil)
	return a
}

func TestAssetService_Create(t *testing.T) {
	f := newFixture()
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*asset.FixedAsset")).Return(nil)

	resp, err := f.svc.Create(context.Background(), f.actor(company.RoleAccountant), van())
	require.NoError(t, err)

	assert.Equal(t, "STRAIGHT_LINE", resp.Method, "straight line is the default method")
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.True(t, resp.BookValue.Equal(rwf(14000000)), "book value at the end of 2025: %s", resp.BookValue)

	_, err = f.svc.Create(context.Background(), f.actor(company.RoleViewer), van())
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAssetService_Preview(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		req     func() AssetRequest
		charges []int64
	}{
		{
			name:    "straight line ends at salvage",
			req:     van,
			charges: []int64{5000000, 5000000, 5000000, 5000000},
		},
		{
			name: "declining balance uses the class rate and writes down in the final year",
			req: func() AssetRequest {
				return AssetRequest{
					Name:            "Laptops",
					Class:           "COMPUTERS",
					AcquisitionDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
					Cost:            rwf(1000000),
					UsefulLifeYears: 3,
					Method:          "DECLINING_BALANCE",
				}
			},
			charges: []int64{500000, 250000, 250000},
		},
		{
			name: "prorated first year adds a trailing row",
			req: func() AssetRequest {
				return AssetRequest{
					Name:             "Desks",
					Class:            "FURNITURE",
					AcquisitionDate:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
					Cost:             rwf(1200000),
					UsefulLifeYears:  2,
					ProrateFirstYear: true,
				}
			},
			charges: []int64{300000, 600000, 300000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req()
			resp, err := f.svc.Preview(context.Background(), req)
			require.NoError(t, err)
			assert.Nil(t, resp.AssetID)
			require.Len(t, resp.Rows, len(tt.charges))
			for i, want := range tt.charges {
				assert.True(t, resp.Rows[i].Depreciation.Equal(rwf(want)), "row %d: %s", i, resp.Rows[i].Depreciation)
			}
			last := resp.Rows[len(resp.Rows)-1]
			assert.True(t, last.Closing.Equal(req.SalvageValue))
		})
	}

	_, err := f.svc.Preview(context.Background(), AssetRequest{Name: "x", Class: "VEHICLES", Cost: rwf(10), SalvageValue: rwf(10), UsefulLifeYears: 1, AcquisitionDate: time.Now()})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAssetService_Dispose(t *testing.T) {
	f := newFixture()
	a := f.stored(t, van())
	f.repo.On("Save", mock.Anything, a).Return(nil)

	resp, err := f.svc.Dispose(context.Background(), f.actor(company.RoleOwner), a.ID, DisposeRequest{
		Date:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Amount: rwf(9000000),
	})
	require.NoError(t, err)

	assert.Equal(t, "DISPOSED", resp.Status)
	require.NotNil(t, resp.Disposal)
	assert.True(t, resp.Disposal.BookValue.Equal(rwf(14000000)))
	assert.True(t, resp.Disposal.GainLoss.Equal(rwf(-5000000)))

	_, err = f.svc.Update(context.Background(), f.actor(company.RoleOwner), a.ID, van())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), f.actor(company.RoleOwner), a.ID), shared.ErrInvalidState)
}

func TestAssetService_Depreciation(t *testing.T) {
	f := newFixture()
	active, err := asset.NewFixedAsset(f.companyID, uuid.New(), van().toDetails())
	require.NoError(t, err)
	sold, err := asset.NewFixedAsset(f.companyID, uuid.New(), van().toDetails())
	require.NoError(t, err)
	_, err = sold.Dispose(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), rwf(10000000))
	require.NoError(t, err)
	f.repo.On("FindInService", mock.Anything, f.companyID, 2026).Return([]asset.FixedAsset{*active, *sold}, nil)

	resp, err := f.svc.Depreciation(context.Background(), f.actor(company.RoleViewer), 2026)
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1, "no charge in the year of disposal")
	assert.Equal(t, active.ID, resp.Lines[0].AssetID)
	assert.True(t, resp.Total.Equal(rwf(5000000)))
	assert.True(t, resp.Lines[0].BookValue.Equal(rwf(9000000)))
}

func TestAssetService_Schedule(t *testing.T) {
	f := newFixture()
	a := f.stored(t, van())

	resp, err := f.svc.Schedule(context.Background(), f.actor(company.RoleViewer), a.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.AssetID)
	assert.Equal(t, a.ID, *resp.AssetID)
	assert.Equal(t, 2024, resp.Rows[0].Year)
	assert.True(t, resp.Rows[3].Accumulated.Equal(rwf(20000000)))
}
