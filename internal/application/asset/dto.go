package asset

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AssetRequest creates, replaces or previews a fixed asset
type AssetRequest struct {
	Name             string          `json:"name" binding:"required,max=200" example:"Delivery van"`
	Description      string          `json:"description" binding:"omitempty,max=1000"`
	Class            string          `json:"asset_class" binding:"required,oneof=BUILDINGS COMPUTERS VEHICLES MACHINERY FURNITURE INTANGIBLES OTHER" example:"VEHICLES"`
	AcquisitionDate  time.Time       `json:"acquisition_date" binding:"required" example:"2024-03-01T00:00:00Z"`
	Cost             decimal.Decimal `json:"cost" binding:"required" example:"24000000"`
	SalvageValue     decimal.Decimal `json:"salvage_value" example:"4000000"`
	Currency         string          `json:"currency" binding:"omitempty,len=3" example:"RWF"`
	UsefulLifeYears  int             `json:"useful_life_years" binding:"required,min=1,max=100" example:"4"`
	Method           string          `json:"method" binding:"omitempty,oneof=STRAIGHT_LINE DECLINING_BALANCE" example:"STRAIGHT_LINE"`
	Rate             decimal.Decimal `json:"rate" example:"25"`
	ProrateFirstYear bool            `json:"prorate_first_year"`
}

func (r AssetRequest) toDetails() asset.Details {
	return asset.Details{
		Name:             r.Name,
		Description:      r.Description,
		Class:            asset.Class(r.Class),
		AcquisitionDate:  r.AcquisitionDate,
		Cost:             r.Cost,
		SalvageValue:     r.SalvageValue,
		Currency:         valueobject.Currency(r.Currency),
		UsefulLifeYears:  r.UsefulLifeYears,
		Method:           asset.Method(r.Method),
		Rate:             r.Rate,
		ProrateFirstYear: r.ProrateFirstYear,
	}
}

// DisposeRequest records the sale or scrapping of an asset
type DisposeRequest struct {
	Date   time.Time       `json:"date" binding:"required" example:"2026-08-01T00:00:00Z"`
	Amount decimal.Decimal `json:"amount" example:"9000000"`
}

// ListAssetsRequest represents the query of an asset listing
type ListAssetsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
	Class    string `form:"asset_class"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE DISPOSED"`
}

// AssetResponse represents a fixed asset in API responses
type AssetResponse struct {
	ID               uuid.UUID       `json:"id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Class            string          `json:"asset_class"`
	AcquisitionDate  time.Time       `json:"acquisition_date"`
	Cost             decimal.Decimal `json:"cost"`
	SalvageValue     decimal.Decimal `json:"salvage_value"`
	Currency         string          `json:"currency"`
	UsefulLifeYears  int             `json:"useful_life_years"`
	Method           string          `json:"method"`
	Rate             decimal.Decimal `json:"rate"`
	ProrateFirstYear bool            `json:"prorate_first_year"`
	Status           string          `json:"status"`
	BookValue        decimal.Decimal `json:"book_value"`
	DisposedAt       *time.Time      `json:"disposed_at,omitempty"`
	Disposal         *asset.Disposal `json:"disposal,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToAssetResponse converts an asset to its response. BookValue is the closing value of the year before asOf.
func ToAssetResponse(a *asset.FixedAsset, asOf time.Time) AssetResponse {
	return AssetResponse{
		ID:               a.ID,
		CompanyID:        a.CompanyID,
		Name:             a.Name,
		Description:      a.Description,
		Class:            string(a.Class),
		AcquisitionDate:  a.AcquisitionDate,
		Cost:             a.Cost,
		SalvageValue:     a.SalvageValue,
		Currency:         string(a.Currency),
		UsefulLifeYears:  a.UsefulLifeYears,
		Method:           string(a.Method),
		Rate:             a.Rate,
		ProrateFirstYear: a.ProrateFirstYear,
		Status:           string(a.Status),
		BookValue:        a.BookValueAt(asOf.Year() - 1),
		DisposedAt:       a.DisposedAt,
		Disposal:         a.Disposal(),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Version:          a.Version,
	}
}

// ScheduleResponse is the depreciation schedule of an asset
type ScheduleResponse struct {
	AssetID *uuid.UUID          `json:"asset_id,omitempty"`
	Method  string              `json:"method"`
	Rate    decimal.Decimal     `json:"rate"`
	Rows    []asset.ScheduleRow `json:"rows"`
}

func toSchedule(a *asset.FixedAsset) ScheduleResponse {
	resp := ScheduleResponse{Method: string(a.Method), Rate: a.Rate, Rows: a.Schedule()}
	if a.ID != uuid.Nil && a.CompanyID != uuid.Nil {
		id := a.ID
		resp.AssetID = &id
	}
	if resp.Rows == nil {
		resp.Rows = []asset.ScheduleRow{}
	}
	return resp
}

// DepreciationLine is one asset's charge for a year
type DepreciationLine struct {
	AssetID      uuid.UUID       `json:"asset_id"`
	Name         string          `json:"name"`
	Class        string          `json:"asset_class"`
	Depreciation decimal.Decimal `json:"depreciation"`
	BookValue    decimal.Decimal `json:"book_value"`
}

// DepreciationResponse totals the depreciation charge of a year
type DepreciationResponse struct {
	Year  int                `json:"year"`
	Total decimal.Decimal    `json:"total"`
	Lines []DepreciationLine `json:"lines"`
}
