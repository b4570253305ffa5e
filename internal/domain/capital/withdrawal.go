package capital

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus tracks review of an early withdrawal request
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// IsValid checks if the status is a known value
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalRejected:
		return true
	}
	return false
}

// EarlyWithdrawalRequest asks to release locked capital before maturity
type EarlyWithdrawalRequest struct {
	shared.CompanyAggregateRoot
	LockedCapitalID uuid.UUID
	RequestedBy     uuid.UUID
	Reason          string
	RequestedAt     time.Time
	PenaltyRate     decimal.Decimal
	AccruedInterest decimal.Decimal
	PenaltyAmount   decimal.Decimal
	PayoutAmount    decimal.Decimal
	Status          WithdrawalStatus
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	ReviewNotes     string
}

func newEarlyWithdrawalRequest(lc *LockedCapital, requestedBy uuid.UUID, reason string, penaltyRate decimal.Decimal, now time.Time) (*EarlyWithdrawalRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.InvalidInput("A reason is required for early withdrawal")
	}
	if penaltyRate.IsNegative() || penaltyRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.InvalidInput("Penalty rate must be between 0 and 1")
	}
	accrued := lc.AccruedInterest(now)
	penalty := lc.Currency.Round(lc.Amount.Mul(penaltyRate))
	payout := lc.Amount.Add(accrued).Sub(penalty)
	if payout.IsNegative() {
		payout = decimal.Zero
	}
	return &EarlyWithdrawalRequest{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(lc.CompanyID, requestedBy),
		LockedCapitalID:      lc.ID,
		RequestedBy:          requestedBy,
		Reason:               reason,
		RequestedAt:          now,
		PenaltyRate:          penaltyRate,
		AccruedInterest:      accrued,
		PenaltyAmount:        penalty,
		PayoutAmount:         payout,
		Status:               WithdrawalPending,
	}, nil
}

// Approve accepts the request
func (r *EarlyWithdrawalRequest) Approve(reviewer uuid.UUID, notes string, now time.Time) error {
	return r.review(WithdrawalApproved, reviewer, notes, now)
}

// Reject declines the request
func (r *EarlyWithdrawalRequest) Reject(reviewer uuid.UUID, notes string, now time.Time) error {
	if strings.TrimSpace(notes) == "" {
		return shared.InvalidInput("A note is required when rejecting a withdrawal")
	}
	return r.review(WithdrawalRejected, reviewer, notes, now)
}

func (r *EarlyWithdrawalRequest) review(status WithdrawalStatus, reviewer uuid.UUID, notes string, now time.Time) error {
	if r.Status != WithdrawalPending {
		return shared.InvalidState("Withdrawal request has already been reviewed")
	}
	r.Status = status
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &now
	r.ReviewNotes = strings.TrimSpace(notes)
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewEarlyWithdrawalReviewedEvent(r))
	return nil
}
