package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LockedCapitalModel is the persistence model for LockedCapital
type LockedCapitalModel struct {
	CompanyAggregateModel
	InvestorID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency           string          `gorm:"type:varchar(3);not null"`
	LockDate           time.Time       `gorm:"type:date;not null"`
	LockPeriodMonths   int             `gorm:"not null"`
	UnlockDate         time.Time       `gorm:"type:date;not null;index"`
	AnnualInterestRate decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	Status             capital.Status  `gorm:"type:varchar(30);not null;index"`
	Purpose            string          `gorm:"type:varchar(500)"`
	Notes              string          `gorm:"type:text"`
	UnlockedAt         *time.Time
	WithdrawnAt        *time.Time
}

// TableName returns the table name for GORM
func (LockedCapitalModel) TableName() string {
	return "locked_capitals"
}

// ToDomain converts the model to a domain LockedCapital
func (m *LockedCapitalModel) ToDomain() *capital.LockedCapital {
	lc := &capital.LockedCapital{
		InvestorID:         m.InvestorID,
		Amount:             m.Amount,
		Currency:           valueobject.Currency(m.Currency),
		LockDate:           m.LockDate,
		LockPeriodMonths:   m.LockPeriodMonths,
		UnlockDate:         m.UnlockDate,
		AnnualInterestRate: m.AnnualInterestRate,
		Status:             m.Status,
		Purpose:            m.Purpose,
		Notes:              m.Notes,
		UnlockedAt:         m.UnlockedAt,
		WithdrawnAt:        m.WithdrawnAt,
	}
	m.PopulateCompanyAggregateRoot(&lc.CompanyAggregateRoot)
	return lc
}

// LockedCapitalModelFromDomain creates a persistence model from the domain entity
func LockedCapitalModelFromDomain(lc *capital.LockedCapital) *LockedCapitalModel {
	m := &LockedCapitalModel{
		InvestorID:         lc.InvestorID,
		Amount:             lc.Amount,
		Currency:           lc.Currency.String(),
		LockDate:           lc.LockDate,
		LockPeriodMonths:   lc.LockPeriodMonths,
		UnlockDate:         lc.UnlockDate,
		AnnualInterestRate: lc.AnnualInterestRate,
		Status:             lc.Status,
		Purpose:            lc.Purpose,
		Notes:              lc.Notes,
		UnlockedAt:         lc.UnlockedAt,
		WithdrawnAt:        lc.WithdrawnAt,
	}
	m.FromDomainCompanyAggregateRoot(lc.CompanyAggregateRoot)
	return m
}

// WithdrawalRequestModel is the persistence model for EarlyWithdrawalRequest
type WithdrawalRequestModel struct {
	CompanyAggregateModel
	LockedCapitalID uuid.UUID                `gorm:"type:uuid;not null;index"`
	RequestedBy     uuid.UUID                `gorm:"type:uuid;not null"`
	Reason          string                   `gorm:"type:text;not null"`
	RequestedAt     time.Time                `gorm:"not null"`
	PenaltyRate     decimal.Decimal          `gorm:"type:decimal(7,4);not null"`
	AccruedInterest decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PenaltyAmount   decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	PayoutAmount    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Status          capital.WithdrawalStatus `gorm:"type:varchar(20);not null;index"`
	ReviewedBy      *uuid.UUID               `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	ReviewNotes     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WithdrawalRequestModel) TableName() string {
	return "early_withdrawal_requests"
}

// ToDomain converts the model to a domain EarlyWithdrawalRequest
func (m *WithdrawalRequestModel) ToDomain() *capital.EarlyWithdrawalRequest {
	r := &capital.EarlyWithdrawalRequest{
		LockedCapitalID: m.LockedCapitalID,
		RequestedBy:     m.RequestedBy,
		Reason:          m.Reason,
		RequestedAt:     m.RequestedAt,
		PenaltyRate:     m.PenaltyRate,
		AccruedInterest: m.AccruedInterest,
		PenaltyAmount:   m.PenaltyAmount,
		PayoutAmount:    m.PayoutAmount,
		Status:          m.Status,
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      m.ReviewedAt,
		ReviewNotes:     m.ReviewNotes,
	}
	m.PopulateCompanyAggregateRoot(&r.CompanyAggregateRoot)
	return r
}

// WithdrawalRequestModelFromDomain creates a persistence model from the domain entity
func WithdrawalRequestModelFromDomain(r *capital.EarlyWithdrawalRequest) *WithdrawalRequestModel {
	m := &WithdrawalRequestModel{
		LockedCapitalID: r.LockedCapitalID,
		RequestedBy:     r.RequestedBy,
		Reason:          r.Reason,
		RequestedAt:     r.RequestedAt,
		PenaltyRate:     r.PenaltyRate,
		AccruedInterest: r.AccruedInterest,
		PenaltyAmount:   r.PenaltyAmount,
		PayoutAmount:    r.PayoutAmount,
		Status:          r.Status,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		ReviewNotes:     r.ReviewNotes,
	}
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	return m
}
