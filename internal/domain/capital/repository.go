package capital

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows locked capital listings
type Filter struct {
	shared.Filter
	Status     Status
	InvestorID *uuid.UUID
}

// StatusTotal aggregates locked capital per status and currency
type StatusTotal struct {
	Status   Status
	Currency string
	Count    int64
	Amount   decimal.Decimal
}

// LockedCapitalRepository defines persistence for locked capital
type LockedCapitalRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*LockedCapital, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]LockedCapital, int64, error)
	// FindUnlockingBetween lists LOCKED records whose unlock date falls in [from, to]
	FindUnlockingBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]LockedCapital, error)
	// FindMatured lists LOCKED records across all companies with unlock date on or before the date
	FindMatured(ctx context.Context, asOf time.Time, limit int) ([]LockedCapital, error)
	TotalsByStatus(ctx context.Context, companyID uuid.UUID) ([]StatusTotal, error)
	// TotalsByInvestor sums LOCKED and EARLY_WITHDRAWAL_REQUESTED amounts per investor
	TotalsByInvestor(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	Save(ctx context.Context, lc *LockedCapital) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// WithdrawalFilter narrows withdrawal request listings
type WithdrawalFilter struct {
	shared.Filter
	Status          WithdrawalStatus
	LockedCapitalID *uuid.UUID
}

// WithdrawalRepository defines persistence for early withdrawal requests
type WithdrawalRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*EarlyWithdrawalRequest, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter WithdrawalFilter) ([]EarlyWithdrawalRequest, int64, error)
	FindPendingForCapital(ctx context.Context, companyID, lockedCapitalID uuid.UUID) (*EarlyWithdrawalRequest, error)
	Save(ctx context.Context, r *EarlyWithdrawalRequest) error
}
