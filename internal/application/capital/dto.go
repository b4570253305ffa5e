package capital

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LockedCapitalRequest represents a request to create or update a lock
type LockedCapitalRequest struct {
	InvestorID         uuid.UUID       `json:"investor_id" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required" example:"5000000"`
	Currency           string          `json:"currency" binding:"omitempty,len=3" example:"RWF"`
	LockDate           time.Time       `json:"lock_date" binding:"required"`
	LockPeriodMonths   int             `json:"lock_period_months" binding:"required,min=1,max=360" example:"12"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate" example:"8.5"`
	Purpose            string          `json:"purpose" binding:"max=500"`
	Notes              string          `json:"notes" binding:"max=2000"`
}

func (r LockedCapitalRequest) toTerms() capital.Terms {
	return capital.Terms{
		InvestorID:         r.InvestorID,
		Amount:             r.Amount,
		Currency:           valueobject.Currency(r.Currency),
		LockDate:           r.LockDate,
		LockPeriodMonths:   r.LockPeriodMonths,
		AnnualInterestRate: r.AnnualInterestRate,
		Purpose:            r.Purpose,
		Notes:              r.Notes,
	}
}

// ListLockedCapitalRequest represents the query of a locked capital listing
type ListLockedCapitalRequest struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=LOCKED UNLOCKED EARLY_WITHDRAWAL_REQUESTED WITHDRAWN"`
	InvestorID *uuid.UUID `form:"investor_id"`
}

// WithdrawalRequest asks for early release of a lock
type WithdrawalRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=1000"`
}

// ReviewWithdrawalRequest approves or rejects a withdrawal
type ReviewWithdrawalRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" binding:"max=2000"`
}

// ListWithdrawalsRequest represents the query of a withdrawal listing
type ListWithdrawalsRequest struct {
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status          string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	LockedCapitalID *uuid.UUID `form:"locked_capital_id"`
}

// ROIResponse represents the return figures of a lock
type ROIResponse struct {
	AsOf            time.Time       `json:"as_of"`
	Principal       decimal.Decimal `json:"principal"`
	ExpectedReturn  decimal.Decimal `json:"expected_return"`
	MaturityValue   decimal.Decimal `json:"maturity_value"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	ROIPercentage   decimal.Decimal `json:"roi_percentage"`
	DaysElapsed     int             `json:"days_elapsed"`
	DaysRemaining   int             `json:"days_remaining"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

func toROIResponse(at time.Time, roi capital.ROI) ROIResponse {
	return ROIResponse{
		AsOf:            at,
		Principal:       roi.Principal,
		ExpectedReturn:  roi.ExpectedReturn,
		MaturityValue:   roi.MaturityValue,
		AccruedInterest: roi.AccruedInterest,
		CurrentValue:    roi.CurrentValue,
		ROIPercentage:   roi.ROIPercentage,
		DaysElapsed:     roi.DaysElapsed,
		DaysRemaining:   roi.DaysRemaining,
		ProgressPercent: roi.ProgressPercent,
	}
}

// LockedCapitalResponse represents a lock in API responses
type LockedCapitalResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	InvestorID         uuid.UUID       `json:"investor_id"`
	InvestorName       string          `json:"investor_name,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	LockDate           time.Time       `json:"lock_date"`
	LockPeriodMonths   int             `json:"lock_period_months"`
	UnlockDate         time.Time       `json:"unlock_date"`
	AnnualInterestRate decimal.Decimal `json:"annual_interest_rate"`
	Status             string          `json:"status"`
	Purpose            string          `json:"purpose"`
	Notes              string          `json:"notes"`
	UnlockedAt         *time.Time      `json:"unlocked_at,omitempty"`
	WithdrawnAt        *time.Time      `json:"withdrawn_at,omitempty"`
	ROI                *ROIResponse    `json:"roi,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToLockedCapitalResponse converts a domain lock to a response
func ToLockedCapitalResponse(lc *capital.LockedCapital) LockedCapitalResponse {
	return LockedCapitalResponse{
		ID:                 lc.ID,
		CompanyID:          lc.CompanyID,
		InvestorID:         lc.InvestorID,
		Amount:             lc.Amount,
		Currency:           lc.Currency.String(),
		LockDate:           lc.LockDate,
		LockPeriodMonths:   lc.LockPeriodMonths,
		UnlockDate:         lc.UnlockDate,
		AnnualInterestRate: lc.AnnualInterestRate,
		Status:             string(lc.Status),
		Purpose:            lc.Purpose,
		Notes:              lc.Notes,
		UnlockedAt:         lc.UnlockedAt,
		WithdrawnAt:        lc.WithdrawnAt,
		CreatedAt:          lc.CreatedAt,
		UpdatedAt:          lc.UpdatedAt,
		Version:            lc.Version,
	}
}

// WithdrawalResponse represents an early withdrawal request in API responses
type WithdrawalResponse struct {
	ID              uuid.UUID       `json:"id"`
	LockedCapitalID uuid.UUID       `json:"locked_capital_id"`
	RequestedBy     uuid.UUID       `json:"requested_by"`
	Reason          string          `json:"reason"`
	RequestedAt     time.Time       `json:"requested_at"`
	PenaltyRate     decimal.Decimal `json:"penalty_rate"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	PenaltyAmount   decimal.Decimal `json:"penalty_amount"`
	PayoutAmount    decimal.Decimal `json:"payout_amount"`
	Status          string          `json:"status"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes     string          `json:"review_notes,omitempty"`
}

// ToWithdrawalResponse converts a domain withdrawal request to a response
func ToWithdrawalResponse(r *capital.EarlyWithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		ID:              r.ID,
		LockedCapitalID: r.LockedCapitalID,
		RequestedBy:     r.RequestedBy,
		Reason:          r.Reason,
		RequestedAt:     r.RequestedAt,
		PenaltyRate:     r.PenaltyRate,
		AccruedInterest: r.AccruedInterest,
		PenaltyAmount:   r.PenaltyAmount,
		PayoutAmount:    r.PayoutAmount,
		Status:          string(r.Status),
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		ReviewNotes:     r.ReviewNotes,
	}
}

// StatusTotalResponse aggregates locks of one status and currency
type StatusTotalResponse struct {
	Status   string          `json:"status"`
	Currency string          `json:"currency"`
	Count    int64           `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// SummaryResponse is the locked capital overview of a company
type SummaryResponse struct {
	Totals          []StatusTotalResponse   `json:"totals"`
	UpcomingDays    int                     `json:"upcoming_days"`
	UpcomingUnlocks []LockedCapitalResponse `json:"upcoming_unlocks"`
}
