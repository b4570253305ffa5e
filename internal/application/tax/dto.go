package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// ComputeRequest selects the return to compute. Year is the calendar year
// for VAT and PAYE and the fiscal year end for CIT and QIT.
type ComputeRequest struct {
	Type    string `json:"type" binding:"required,oneof=VAT PAYE CIT QIT" example:"VAT"`
	Year    int    `json:"year" binding:"required,min=2000,max=2200" example:"2025"`
	Month   int    `json:"month" binding:"omitempty,min=1,max=12" example:"5"`
	Quarter int    `json:"quarter" binding:"omitempty,min=1,max=3"`
}

// FileRequest records submission to RRA
type FileRequest struct {
	Reference string `json:"reference" binding:"omitempty,max=100" example:"RRA-2025-000123"`
}

// PayRequest records settlement of a return
type PayRequest struct {
	Reference string `json:"reference" binding:"omitempty,max=100"`
}

// ListFilingsRequest represents the query of a filing listing
type ListFilingsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Type     string `form:"type" binding:"omitempty,oneof=VAT PAYE CIT QIT"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT FILED PAID OVERDUE"`
	Year     int    `form:"year" binding:"omitempty,min=2000,max=2200"`
}

// FilingResponse represents a tax filing in API responses
type FilingResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Type          string          `json:"type"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	DueDate       time.Time       `json:"due_date"`
	Currency      string          `json:"currency"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Credits       decimal.Decimal `json:"credits"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Status        string          `json:"status"`
	FiledAt       *time.Time      `json:"filed_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	RRAReference  string          `json:"rra_reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToFilingResponse converts a filing to its response
func ToFilingResponse(f *tax.Filing) FilingResponse {
	return FilingResponse{
		ID:            f.ID,
		CompanyID:     f.CompanyID,
		Type:          string(f.Type),
		PeriodStart:   f.PeriodStart,
		PeriodEnd:     f.PeriodEnd,
		DueDate:       f.DueDate,
		Currency:      string(f.Currency),
		TaxableAmount: f.TaxableAmount,
		TaxAmount:     f.TaxAmount,
		Credits:       f.Credits,
		AmountDue:     f.AmountDue,
		Status:        string(f.Status),
		FiledAt:       f.FiledAt,
		PaidAt:        f.PaidAt,
		RRAReference:  f.RRAReference,
		Notes:         f.Notes,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
		Version:       f.Version,
	}
}

// CalendarEntry is one obligation of the tax calendar, with its filing when one exists
type CalendarEntry struct {
	tax.Period
	FilingID *uuid.UUID `json:"filing_id,omitempty"`
	Status   string     `json:"status,omitempty"`
}
