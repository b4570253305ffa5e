package capital

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeLockedCapital   = "LockedCapital"
	AggregateTypeWithdrawRequest = "EarlyWithdrawalRequest"
)

// Capital domain event types
const (
	EventTypeCapitalLocked            = "CapitalLocked"
	EventTypeCapitalUnlocked          = "CapitalUnlocked"
	EventTypeEarlyWithdrawalRequested = "EarlyWithdrawalRequested"
	EventTypeEarlyWithdrawalReviewed  = "EarlyWithdrawalReviewed"
)

// CapitalLockedEvent is published when capital is locked
type CapitalLockedEvent struct {
	shared.EventHeader
	InvestorID uuid.UUID       `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
	UnlockDate time.Time       `json:"unlock_date"`
}

// NewCapitalLockedEvent creates a new CapitalLockedEvent
func NewCapitalLockedEvent(lc *LockedCapital) *CapitalLockedEvent {
	return &CapitalLockedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCapitalLocked, AggregateTypeLockedCapital, lc.ID, lc.CompanyID),
		InvestorID:  lc.InvestorID,
		Amount:      lc.Amount,
		UnlockDate:  lc.UnlockDate,
	}
}

// CapitalUnlockedEvent is published when capital reaches maturity and is released
type CapitalUnlockedEvent struct {
	shared.EventHeader
	InvestorID uuid.UUID       `json:"investor_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// NewCapitalUnlockedEvent creates a new CapitalUnlockedEvent
func NewCapitalUnlockedEvent(lc *LockedCapital) *CapitalUnlockedEvent {
	return &CapitalUnlockedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCapitalUnlocked, AggregateTypeLockedCapital, lc.ID, lc.CompanyID),
		InvestorID:  lc.InvestorID,
		Amount:      lc.Amount,
		Currency:    lc.Currency.String(),
	}
}

// EarlyWithdrawalRequestedEvent is published when an investor asks to withdraw early
type EarlyWithdrawalRequestedEvent struct {
	shared.EventHeader
	RequestID     uuid.UUID       `json:"request_id"`
	RequestedBy   uuid.UUID       `json:"requested_by"`
	PayoutAmount  decimal.Decimal `json:"payout_amount"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

// NewEarlyWithdrawalRequestedEvent creates a new EarlyWithdrawalRequestedEvent
func NewEarlyWithdrawalRequestedEvent(lc *LockedCapital, r *EarlyWithdrawalRequest) *EarlyWithdrawalRequestedEvent {
	return &EarlyWithdrawalRequestedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeEarlyWithdrawalRequested, AggregateTypeLockedCapital, lc.ID, lc.CompanyID),
		RequestID:     r.ID,
		RequestedBy:   r.RequestedBy,
		PayoutAmount:  r.PayoutAmount,
		PenaltyAmount: r.PenaltyAmount,
	}
}

// EarlyWithdrawalReviewedEvent is published when a request is approved or rejected
type EarlyWithdrawalReviewedEvent struct {
	shared.EventHeader
	LockedCapitalID uuid.UUID        `json:"locked_capital_id"`
	RequestedBy     uuid.UUID        `json:"requested_by"`
	Status          WithdrawalStatus `json:"status"`
}

// NewEarlyWithdrawalReviewedEvent creates a new EarlyWithdrawalReviewedEvent
func NewEarlyWithdrawalReviewedEvent(r *EarlyWithdrawalRequest) *EarlyWithdrawalReviewedEvent {
	return &EarlyWithdrawalReviewedEvent{
		EventHeader:     shared.NewEventHeader(EventTypeEarlyWithdrawalReviewed, AggregateTypeWithdrawRequest, r.ID, r.CompanyID),
		LockedCapitalID: r.LockedCapitalID,
		RequestedBy:     r.RequestedBy,
		Status:          r.Status,
	}
}
