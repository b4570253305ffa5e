package models

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TaxFilingModel is the persistence model for tax filings
type TaxFilingModel struct {
	CompanyAggregateModel
	Type          tax.Type        `gorm:"type:varchar(10);not null;index"`
	PeriodStart   time.Time       `gorm:"type:date;not null"`
	PeriodEnd     time.Time       `gorm:"type:date;not null"`
	DueDate       time.Time       `gorm:"type:date;not null;index"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	TaxableAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Credits       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status        tax.Status      `gorm:"type:varchar(20);not null;index"`
	FiledAt       *time.Time
	PaidAt        *time.Time
	RRAReference  string `gorm:"column:rra_reference;type:varchar(100)"`
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TaxFilingModel) TableName() string {
	return "tax_filings"
}

// ToDomain converts the model to a domain Filing
func (m *TaxFilingModel) ToDomain() *tax.Filing {
	f := &tax.Filing{
		Type:          m.Type,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		DueDate:       m.DueDate,
		Currency:      valueobject.Currency(m.Currency),
		TaxableAmount: m.TaxableAmount,
		TaxAmount:     m.TaxAmount,
		Credits:       m.Credits,
		AmountDue:     m.AmountDue,
		Status:        m.Status,
		FiledAt:       m.FiledAt,
		PaidAt:        m.PaidAt,
		RRAReference:  m.RRAReference,
		Notes:         m.Notes,
	}
	m.PopulateCompanyAggregateRoot(&f.CompanyAggregateRoot)
	return f
}

// TaxFilingModelFromDomain creates a persistence model from a domain Filing
func TaxFilingModelFromDomain(f *tax.Filing) *TaxFilingModel {
	m := &TaxFilingModel{
		Type:          f.Type,
		PeriodStart:   f.PeriodStart,
		PeriodEnd:     f.PeriodEnd,
		DueDate:       f.DueDate,
		Currency:      f.Currency.String(),
		TaxableAmount: f.TaxableAmount,
		TaxAmount:     f.TaxAmount,
		Credits:       f.Credits,
		AmountDue:     f.AmountDue,
		Status:        f.Status,
		FiledAt:       f.FiledAt,
		PaidAt:        f.PaidAt,
		RRAReference:  f.RRAReference,
		Notes:         f.Notes,
	}
	m.FromDomainCompanyAggregateRoot(f.CompanyAggregateRoot)
	return m
}
