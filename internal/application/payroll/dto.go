package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// CreateRunRequest opens the payroll of a month
type CreateRunRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2200" example:"2025"`
	Month int `json:"month" binding:"required,min=1,max=12" example:"6"`
}

// ListRunsRequest represents the query of a payroll run listing
type ListRunsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Year     int    `form:"year" binding:"omitempty,min=2000,max=2200"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PAID"`
}

// CalculateRequest previews the deductions on a gross amount
type CalculateRequest struct {
	Gross decimal.Decimal `json:"gross" binding:"required" example:"350000"`
}

// PayslipResponse represents a payslip in API responses
type PayslipResponse struct {
	ID          uuid.UUID       `json:"id"`
	PersonID    uuid.UUID       `json:"person_id"`
	FullName    string          `json:"full_name"`
	RSSBNumber  string          `json:"rssb_number,omitempty"`
	BankAccount string          `json:"bank_account,omitempty"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Allowances  decimal.Decimal `json:"allowances"`
	payroll.Breakdown
}

// RunResponse represents a payroll run in API responses
type RunResponse struct {
	ID         uuid.UUID         `json:"id"`
	CompanyID  uuid.UUID         `json:"company_id"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Status     string            `json:"status"`
	Totals     payroll.Totals    `json:"totals"`
	Employees  int               `json:"employees"`
	Payslips   []PayslipResponse `json:"payslips,omitempty"`
	ApprovedBy *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt *time.Time        `json:"approved_at,omitempty"`
	PaidAt     *time.Time        `json:"paid_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Version    int               `json:"version"`
}

// ToRunResponse converts a run to its response. Payslips are included when withSlips is set.
func ToRunResponse(r *payroll.Run, withSlips bool) RunResponse {
	resp := RunResponse{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		Year:       r.Year,
		Month:      r.Month,
		Status:     string(r.Status),
		Totals:     r.Totals,
		Employees:  len(r.Payslips),
		ApprovedBy: r.ApprovedBy,
		ApprovedAt: r.ApprovedAt,
		PaidAt:     r.PaidAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Version:    r.Version,
	}
	if withSlips {
		resp.Payslips = make([]PayslipResponse, len(r.Payslips))
		for i, s := range r.Payslips {
			resp.Payslips[i] = PayslipResponse{
				ID:          s.ID,
				PersonID:    s.PersonID,
				FullName:    s.FullName,
				RSSBNumber:  s.RSSBNumber,
				BankAccount: s.BankAccount,
				BaseSalary:  s.BaseSalary,
				Allowances:  s.Allowances,
				Breakdown:   s.Breakdown,
			}
		}
	}
	return resp
}

// BreakdownResponse is a payroll calculation preview
type BreakdownResponse struct {
	payroll.Breakdown
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	RSSBEmployee    decimal.Decimal `json:"rssb_employee"`
	RSSBEmployer    decimal.Decimal `json:"rssb_employer"`
}
