package currency

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/currency"
	"github.com/shopspring/decimal"
)

// RateRequest records an exchange rate
type RateRequest struct {
	Base          string          `json:"base_currency" binding:"required,len=3" example:"USD"`
	Quote         string          `json:"quote_currency" binding:"required,len=3" example:"RWF"`
	Rate          decimal.Decimal `json:"rate" binding:"required" example:"1385.5"`
	EffectiveDate time.Time       `json:"effective_date" binding:"required" example:"2025-06-01T00:00:00Z"`
	Source        string          `json:"source" binding:"omitempty,max=100" example:"BNR"`
}

// ListRatesRequest represents the query of a rate listing
type ListRatesRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Base     string `form:"base" binding:"omitempty,len=3"`
	Quote    string `form:"quote" binding:"omitempty,len=3"`
}

// ConvertRequest converts an amount between currencies as of a date
type ConvertRequest struct {
	Amount decimal.Decimal `form:"amount" json:"amount" binding:"required" example:"100"`
	From   string          `form:"from" json:"from" binding:"required,len=3" example:"USD"`
	To     string          `form:"to" json:"to" binding:"required,len=3" example:"RWF"`
	Date   *time.Time      `form:"date" json:"date" time_format:"2006-01-02"`
}

// RateResponse represents an exchange rate in API responses
type RateResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Base          string          `json:"base_currency"`
	Quote         string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effective_date"`
	Source        string          `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToRateResponse converts a rate to its response
func ToRateResponse(r *currency.ExchangeRate) RateResponse {
	return RateResponse{
		ID:            r.ID,
		CompanyID:     r.CompanyID,
		Base:          string(r.Base),
		Quote:         string(r.Quote),
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
		Source:        r.Source,
		CreatedAt:     r.CreatedAt,
	}
}
