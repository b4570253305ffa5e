package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AssetService keeps the fixed asset register and its depreciation
type AssetService struct {
	assetRepo asset.AssetRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssetService creates a new asset service
func NewAssetService(assetRepo asset.AssetRepository, logger *zap.Logger) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Create registers an asset
func (s *AssetService) Create(ctx context.Context, actor access.Actor, req AssetRequest) (*AssetResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	a, err := asset.NewFixedAsset(actor.CompanyID, actor.UserID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Fixed asset registered",
		zap.String("asset_id", a.ID.String()),
		zap.String("class", string(a.Class)),
		zap.String("cost", a.Cost.String()),
	)
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// Get returns an asset
func (s *AssetService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// List lists assets
func (s *AssetService) List(ctx context.Context, actor access.Actor, req ListAssetsRequest) ([]AssetResponse, int64, error) {
	items, total, err := s.assetRepo.FindAll(ctx, actor.CompanyID, asset.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Class:  asset.Class(req.Class),
		Status: asset.Status(req.Status),
	})
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]AssetResponse, len(items))
	for i := range items {
		out[i] = ToAssetResponse(&items[i], now)
	}
	return out, total, nil
}

// Update replaces the details of an active asset
func (s *AssetService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req AssetRequest) (*AssetResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	a, err := s.assetRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// Dispose takes an asset out of service and reports the gain or loss
func (s *AssetService) Dispose(ctx context.Context, actor access.Actor, id uuid.UUID, req DisposeRequest) (*AssetResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	a, err := s.assetRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	disposal, err := a.Dispose(req.Date, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Fixed asset disposed",
		zap.String("asset_id", a.ID.String()),
		zap.String("book_value", disposal.BookValue.String()),
		zap.String("gain_loss", disposal.GainLoss.String()),
	)
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// Delete removes an asset still in service. Disposed assets stay for the tax record.
func (s *AssetService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	a, err := s.assetRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if a.Status == asset.StatusDisposed {
		return shared.InvalidState("Disposed assets cannot be deleted")
	}
	return s.assetRepo.Delete(ctx, actor.CompanyID, id)
}

// Schedule returns the depreciation schedule of a stored asset
func (s *AssetService) Schedule(ctx context.Context, actor access.Actor, id uuid.UUID) (*ScheduleResponse, error) {
	a, err := s.assetRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := toSchedule(a)
	return &resp, nil
}

// Preview computes a schedule without saving anything
func (s *AssetService) Preview(_ context.Context, req AssetRequest) (*ScheduleResponse, error) {
	a, err := asset.Preview(req.toDetails())
	if err != nil {
		return nil, err
	}
	resp := toSchedule(a)
	return &resp, nil
}

// Depreciation returns the charge of every asset in service during a year
func (s *AssetService) Depreciation(ctx context.Context, actor access.Actor, year int) (*DepreciationResponse, error) {
	if year < 1900 || year > 2200 {
		return nil, shared.InvalidInput("Year is out of range")
	}
	items, err := s.assetRepo.FindInService(ctx, actor.CompanyID, year)
	if err != nil {
		return nil, err
	}
	resp := &DepreciationResponse{Year: year, Total: decimal.Zero, Lines: []DepreciationLine{}}
	for i := range items {
		a := &items[i]
		charge := a.DepreciationForYear(year)
		if !a.CanDepreciateIn(year) {
			continue
		}
		resp.Total = resp.Total.Add(charge)
		resp.Lines = append(resp.Lines, DepreciationLine{
			AssetID:      a.ID,
			Name:         a.Name,
			Class:        string(a.Class),
			Depreciation: charge,
			BookValue:    a.BookValueAt(year),
		})
	}
	return resp, nil
}
