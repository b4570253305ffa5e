package capital

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestCapital(t *testing.T, lockDate time.Time, months int, rate string) *LockedCapital {
	t.Helper()
	lc, err := NewLockedCapital(uuid.New(), uuid.New(), Terms{
		InvestorID:         uuid.New(),
		Amount:             decimal.NewFromInt(10_000_000),
		LockDate:           lockDate,
		LockPeriodMonths:   months,
		AnnualInterestRate: decimal.RequireFromString(rate),
	})
	require.NoError(t, err)
	return lc
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"twelve months", date(2024, 3, 15), 12, date(2025, 3, 15)},
		{"clamp to february", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"clamp to leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"month end to shorter month", date(2024, 8, 31), 1, date(2024, 9, 30)},
		{"across years", date(2024, 11, 30), 3, date(2025, 2, 28)},
		{"long period", date(2020, 2, 29), 48, date(2024, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestNewLockedCapital_UnlockDateIsLockDatePlusPeriod(t *testing.T) {
	lc := newTestCapital(t, date(2024, 6, 1), 12, "8")

	assert.Equal(t, StatusLocked, lc.Status)
	assert.Equal(t, valueobject.RWF, lc.Currency)
	assert.Equal(t, date(2025, 6, 1), lc.UnlockDate)
	require.Len(t, lc.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeCapitalLocked, lc.GetDomainEvents()[0].EventType())
}

func TestNewLockedCapital_Validation(t *testing.T) {
	base := Terms{
		InvestorID:       uuid.New(),
		Amount:           decimal.NewFromInt(1000),
		LockDate:         date(2024, 1, 1),
		LockPeriodMonths: 12,
	}
	tests := []struct {
		name   string
		mutate func(t *Terms)
	}{
		{"no investor", func(t *Terms) { t.InvestorID = uuid.Nil }},
		{"zero amount", func(t *Terms) { t.Amount = decimal.Zero }},
		{"no lock date", func(t *Terms) { t.LockDate = time.Time{} }},
		{"zero period", func(t *Terms) { t.LockPeriodMonths = 0 }},
		{"period too long", func(t *Terms) { t.LockPeriodMonths = 361 }},
		{"negative rate", func(t *Terms) { t.AnnualInterestRate = decimal.NewFromInt(-1) }},
		{"bad currency", func(t *Terms) { t.Currency = "RW" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := base
			tt.mutate(&terms)
			_, err := NewLockedCapital(uuid.New(), uuid.New(), terms)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestLockedCapital_UpdateRecomputesUnlockDate(t *testing.T) {
	lc := newTestCapital(t, date(2024, 1, 31), 12, "5")
	terms := Terms{
		InvestorID:       lc.InvestorID,
		Amount:           lc.Amount,
		LockDate:         lc.LockDate,
		LockPeriodMonths: 1,
	}
	require.NoError(t, lc.Update(terms))
	assert.Equal(t, date(2024, 2, 29), lc.UnlockDate)
	assert.Equal(t, 2, lc.Version)
}

func TestLockedCapital_Unlock(t *testing.T) {
	lc := newTestCapital(t, date(2024, 1, 1), 6, "5")

	err := lc.Unlock(date(2024, 6, 30))
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, lc.Unlock(date(2024, 7, 1)))
	assert.Equal(t, StatusUnlocked, lc.Status)
	assert.NotNil(t, lc.UnlockedAt)
	assert.ErrorIs(t, lc.Unlock(date(2024, 8, 1)), shared.ErrInvalidState)
	assert.ErrorIs(t, lc.Update(Terms{}), shared.ErrInvalidState)
}

func TestLockedCapital_ROI(t *testing.T) {
	// 10,000,000 at 12% for 12 months -> 1,200,000 expected
	lc := newTestCapital(t, date(2023, 1, 1), 12, "12")

	roi := lc.ComputeROI(date(2023, 1, 1))
	assert.Equal(t, "1200000", roi.ExpectedReturn.String())
	assert.Equal(t, "11200000", roi.MaturityValue.String())
	assert.True(t, roi.AccruedInterest.IsZero())
	assert.Equal(t, 365, roi.DaysRemaining)
	assert.Equal(t, "12", roi.ROIPercentage.String())

	mid := lc.ComputeROI(date(2023, 7, 2)) // day 182 of 365
	assert.Equal(t, 182, mid.DaysElapsed)
	assert.Equal(t, "598356", mid.AccruedInterest.String())
	assert.Equal(t, 183, mid.DaysRemaining)

	after := lc.ComputeROI(date(2025, 1, 1))
	assert.Equal(t, "1200000", after.AccruedInterest.String())
	assert.Equal(t, 0, after.DaysRemaining)
	assert.Equal(t, "100", after.ProgressPercent.String())
}

func TestLockedCapital_ExpectedReturnForPartialYear(t *testing.T) {
	// 10,000,000 at 6% for 18 months -> 900,000
	lc := newTestCapital(t, date(2024, 1, 1), 18, "6")
	assert.Equal(t, "900000", lc.ExpectedReturn().String())
}

func TestLockedCapital_EarlyWithdrawalFlow(t *testing.T) {
	lc := newTestCapital(t, date(2024, 1, 1), 12, "0")
	lc.ClearDomainEvents()
	requester := uuid.New()

	req, err := lc.RequestEarlyWithdrawal(requester, "Medical emergency", decimal.RequireFromString("0.05"), date(2024, 3, 1))
	require.NoError(t, err)

	assert.Equal(t, StatusEarlyWithdrawalRequested, lc.Status)
	assert.Equal(t, WithdrawalPending, req.Status)
	assert.Equal(t, "500000", req.PenaltyAmount.String())
	assert.Equal(t, "9500000", req.PayoutAmount.String())
	assert.Equal(t, lc.ID, req.LockedCapitalID)
	require.Len(t, lc.GetDomainEvents(), 1)

	// a second request is blocked while one is pending
	_, err = lc.RequestEarlyWithdrawal(requester, "again", decimal.Zero, date(2024, 3, 2))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, lc.CanDelete(), shared.ErrInvalidState)

	reviewer := uuid.New()
	require.NoError(t, req.Approve(reviewer, "ok", date(2024, 3, 3)))
	require.NoError(t, lc.ApplyWithdrawalDecision(true, date(2024, 3, 3)))
	assert.Equal(t, StatusWithdrawn, lc.Status)
	assert.Equal(t, reviewer, *req.ReviewedBy)
	assert.ErrorIs(t, req.Approve(reviewer, "", date(2024, 3, 4)), shared.ErrInvalidState)
}

func TestLockedCapital_EarlyWithdrawalRejectedReturnsToLocked(t *testing.T) {
	lc := newTestCapital(t, date(2024, 1, 1), 12, "10")
	req, err := lc.RequestEarlyWithdrawal(uuid.New(), "Expansion", decimal.RequireFromString("0.1"), date(2024, 7, 1))
	require.NoError(t, err)
	assert.True(t, req.AccruedInterest.IsPositive())

	assert.ErrorIs(t, req.Reject(uuid.New(), " ", date(2024, 7, 2)), shared.ErrInvalidInput)
	require.NoError(t, req.Reject(uuid.New(), "Not enough liquidity", date(2024, 7, 2)))
	require.NoError(t, lc.ApplyWithdrawalDecision(false, date(2024, 7, 2)))
	assert.Equal(t, StatusLocked, lc.Status)
}

func TestLockedCapital_EarlyWithdrawalValidation(t *testing.T) {
	lc := newTestCapital(t, date(2024, 1, 1), 12, "10")

	_, err := lc.RequestEarlyWithdrawal(uuid.New(), "", decimal.Zero, date(2024, 2, 1))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = lc.RequestEarlyWithdrawal(uuid.New(), "reason", decimal.NewFromInt(2), date(2024, 2, 1))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = lc.RequestEarlyWithdrawal(uuid.New(), "reason", decimal.Zero, date(2025, 1, 1))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, StatusLocked, lc.Status)
}
