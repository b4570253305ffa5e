package capital

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of locked capital
type Status string

const (
	StatusLocked                   Status = "LOCKED"
	StatusUnlocked                 Status = "UNLOCKED"
	StatusEarlyWithdrawalRequested Status = "EARLY_WITHDRAWAL_REQUESTED"
	StatusWithdrawn                Status = "WITHDRAWN"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusLocked, StatusUnlocked, StatusEarlyWithdrawalRequested, StatusWithdrawn:
		return true
	}
	return false
}

// Lock period limits in months
const (
	MinLockPeriodMonths = 1
	MaxLockPeriodMonths = 360
)

var hundred = decimal.NewFromInt(100)

// LockedCapital is capital committed by an investor for a fixed period
type LockedCapital struct {
	shared.CompanyAggregateRoot
	InvestorID         uuid.UUID
	Amount             decimal.Decimal
	Currency           valueobject.Currency
	LockDate           time.Time
	LockPeriodMonths   int
	UnlockDate         time.Time
	AnnualInterestRate decimal.Decimal
	Status             Status
	Purpose            string
	Notes              string
	UnlockedAt         *time.Time
	WithdrawnAt        *time.Time
}

// Terms carries the editable terms of a lock
type Terms struct {
	InvestorID         uuid.UUID
	Amount             decimal.Decimal
	Currency           valueobject.Currency
	LockDate           time.Time
	LockPeriodMonths   int
	AnnualInterestRate decimal.Decimal
	Purpose            string
	Notes              string
}

// NewLockedCapital creates a lock and derives its unlock date
func NewLockedCapital(companyID, createdBy uuid.UUID, terms Terms) (*LockedCapital, error) {
	lc := &LockedCapital{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               StatusLocked,
	}
	if err := lc.apply(terms); err != nil {
		return nil, err
	}
	lc.AddDomainEvent(NewCapitalLockedEvent(lc))
	return lc, nil
}

// Update changes the terms of a lock that is still LOCKED
func (lc *LockedCapital) Update(terms Terms) error {
	if lc.Status != StatusLocked {
		return shared.InvalidState("Only locked capital can be updated")
	}
	if err := lc.apply(terms); err != nil {
		return err
	}
	lc.Touch()
	lc.IncrementVersion()
	return nil
}

func (lc *LockedCapital) apply(t Terms) error {
	if t.InvestorID == uuid.Nil {
		return shared.InvalidInput("Investor is required")
	}
	if !t.Amount.IsPositive() {
		return shared.InvalidInput("Amount must be positive")
	}
	if t.LockDate.IsZero() {
		return shared.InvalidInput("Lock date is required")
	}
	if t.LockPeriodMonths < MinLockPeriodMonths || t.LockPeriodMonths > MaxLockPeriodMonths {
		return shared.InvalidInput("Lock period must be between 1 and 360 months")
	}
	if t.AnnualInterestRate.IsNegative() {
		return shared.InvalidInput("Interest rate cannot be negative")
	}
	currency := t.Currency.OrDefault()
	if !currency.IsValid() {
		return shared.InvalidInput("Currency must be a three-letter ISO code")
	}

	lc.InvestorID = t.InvestorID
	lc.Amount = currency.Round(t.Amount)
	lc.Currency = currency
	lc.LockDate = truncateDay(t.LockDate)
	lc.LockPeriodMonths = t.LockPeriodMonths
	lc.UnlockDate = AddMonths(lc.LockDate, t.LockPeriodMonths)
	lc.AnnualInterestRate = t.AnnualInterestRate
	lc.Purpose = strings.TrimSpace(t.Purpose)
	lc.Notes = strings.TrimSpace(t.Notes)
	return nil
}

// IsMatured reports whether the unlock date has been reached
func (lc *LockedCapital) IsMatured(now time.Time) bool {
	return !truncateDay(now).Before(lc.UnlockDate)
}

// Unlock releases matured capital
func (lc *LockedCapital) Unlock(now time.Time) error {
	if lc.Status != StatusLocked {
		return shared.InvalidState("Only locked capital can be unlocked")
	}
	if !lc.IsMatured(now) {
		return shared.InvalidState("Capital cannot be unlocked before " + lc.UnlockDate.Format("2006-01-02")).
			WithDetails(map[string]any{"unlock_date": lc.UnlockDate.Format("2006-01-02")})
	}
	lc.Status = StatusUnlocked
	lc.UnlockedAt = &now
	lc.Touch()
	lc.IncrementVersion()
	lc.AddDomainEvent(NewCapitalUnlockedEvent(lc))
	return nil
}

// CanDelete reports whether the record may be removed
func (lc *LockedCapital) CanDelete() error {
	if lc.Status != StatusLocked {
		return shared.InvalidState("Only locked capital without pending withdrawals can be deleted")
	}
	return nil
}

// ExpectedReturn is the simple interest earned over the full lock period
func (lc *LockedCapital) ExpectedReturn() decimal.Decimal {
	months := decimal.NewFromInt(int64(lc.LockPeriodMonths))
	ret := lc.Amount.Mul(lc.AnnualInterestRate).Div(hundred).Mul(months).Div(decimal.NewFromInt(12))
	return lc.Currency.Round(ret)
}

// AccruedInterest is the interest earned up to the given date, prorated by
// days elapsed over the lock period and capped at maturity.
func (lc *LockedCapital) AccruedInterest(at time.Time) decimal.Decimal {
	total := daysBetween(lc.LockDate, lc.UnlockDate)
	if total <= 0 {
		return decimal.Zero
	}
	elapsed := daysBetween(lc.LockDate, at)
	if elapsed <= 0 {
		return decimal.Zero
	}
	if elapsed >= total {
		return lc.ExpectedReturn()
	}
	full := lc.Amount.Mul(lc.AnnualInterestRate).Div(hundred).
		Mul(decimal.NewFromInt(int64(lc.LockPeriodMonths))).Div(decimal.NewFromInt(12))
	accrued := full.Mul(decimal.NewFromInt(int64(elapsed))).Div(decimal.NewFromInt(int64(total)))
	return lc.Currency.Round(accrued)
}

// ROI summarizes the return on a lock at a point in time
type ROI struct {
	Principal       decimal.Decimal
	ExpectedReturn  decimal.Decimal
	MaturityValue   decimal.Decimal
	AccruedInterest decimal.Decimal
	CurrentValue    decimal.Decimal
	ROIPercentage   decimal.Decimal
	DaysElapsed     int
	DaysRemaining   int
	ProgressPercent decimal.Decimal
}

// ComputeROI calculates the return figures as of the given date
func (lc *LockedCapital) ComputeROI(at time.Time) ROI {
	expected := lc.ExpectedReturn()
	accrued := lc.AccruedInterest(at)
	total := daysBetween(lc.LockDate, lc.UnlockDate)
	elapsed := daysBetween(lc.LockDate, at)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}
	roi := decimal.Zero
	if lc.Amount.IsPositive() {
		roi = expected.Div(lc.Amount).Mul(hundred).Round(2)
	}
	progress := decimal.Zero
	if total > 0 {
		progress = decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(2)
	}
	return ROI{
		Principal:       lc.Amount,
		ExpectedReturn:  expected,
		MaturityValue:   lc.Amount.Add(expected),
		AccruedInterest: accrued,
		CurrentValue:    lc.Amount.Add(accrued),
		ROIPercentage:   roi,
		DaysElapsed:     elapsed,
		DaysRemaining:   total - elapsed,
		ProgressPercent: progress,
	}
}

// RequestEarlyWithdrawal opens a withdrawal request against a locked lock
func (lc *LockedCapital) RequestEarlyWithdrawal(requestedBy uuid.UUID, reason string, penaltyRate decimal.Decimal, now time.Time) (*EarlyWithdrawalRequest, error) {
	if lc.Status != StatusLocked {
		return nil, shared.InvalidState("Early withdrawal can only be requested for locked capital")
	}
	if lc.IsMatured(now) {
		return nil, shared.InvalidState("Capital has matured; unlock it instead")
	}
	req, err := newEarlyWithdrawalRequest(lc, requestedBy, reason, penaltyRate, now)
	if err != nil {
		return nil, err
	}
	lc.Status = StatusEarlyWithdrawalRequested
	lc.Touch()
	lc.IncrementVersion()
	lc.AddDomainEvent(NewEarlyWithdrawalRequestedEvent(lc, req))
	return req, nil
}

// ApplyWithdrawalDecision moves the lock according to a reviewed request
func (lc *LockedCapital) ApplyWithdrawalDecision(approved bool, now time.Time) error {
	if lc.Status != StatusEarlyWithdrawalRequested {
		return shared.InvalidState("No early withdrawal is pending for this capital")
	}
	if approved {
		lc.Status = StatusWithdrawn
		lc.WithdrawnAt = &now
	} else {
		lc.Status = StatusLocked
	}
	lc.Touch()
	lc.IncrementVersion()
	return nil
}
