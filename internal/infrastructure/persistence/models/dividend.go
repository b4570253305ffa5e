package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DividendDeclarationModel is the persistence model for dividend declarations
type DividendDeclarationModel struct {
	CompanyAggregateModel
	FiscalYear         int             `gorm:"not null;index"`
	DeclarationDate    time.Time       `gorm:"type:date;not null"`
	RecordDate         *time.Time      `gorm:"type:date"`
	PaymentDate        *time.Time      `gorm:"type:date"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency           string          `gorm:"type:varchar(3);not null"`
	WithholdingTaxRate decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Status             dividend.Status `gorm:"type:varchar(20);not null;index"`
	Notes              string          `gorm:"type:text"`
	DeclaredBy         *uuid.UUID      `gorm:"type:uuid"`
	DeclaredAt         *time.Time
	DistributedAt      *time.Time
	CancelReason       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DividendDeclarationModel) TableName() string {
	return "dividend_declarations"
}

// ToDomain converts the model to a domain Declaration
func (m *DividendDeclarationModel) ToDomain() *dividend.Declaration {
	d := &dividend.Declaration{
		FiscalYear:         m.FiscalYear,
		DeclarationDate:    m.DeclarationDate,
		RecordDate:         m.RecordDate,
		PaymentDate:        m.PaymentDate,
		TotalAmount:        m.TotalAmount,
		Currency:           valueobject.Currency(m.Currency),
		WithholdingTaxRate: m.WithholdingTaxRate,
		Status:             m.Status,
		Notes:              m.Notes,
		DeclaredBy:         m.DeclaredBy,
		DeclaredAt:         m.DeclaredAt,
		DistributedAt:      m.DistributedAt,
		CancelReason:       m.CancelReason,
	}
	m.PopulateCompanyAggregateRoot(&d.CompanyAggregateRoot)
	return d
}

// DividendDeclarationModelFromDomain creates a persistence model from a domain Declaration
func DividendDeclarationModelFromDomain(d *dividend.Declaration) *DividendDeclarationModel {
	m := &DividendDeclarationModel{
		FiscalYear:         d.FiscalYear,
		DeclarationDate:    d.DeclarationDate,
		RecordDate:         d.RecordDate,
		PaymentDate:        d.PaymentDate,
		TotalAmount:        d.TotalAmount,
		Currency:           d.Currency.String(),
		WithholdingTaxRate: d.WithholdingTaxRate,
		Status:             d.Status,
		Notes:              d.Notes,
		DeclaredBy:         d.DeclaredBy,
		DeclaredAt:         d.DeclaredAt,
		DistributedAt:      d.DistributedAt,
		CancelReason:       d.CancelReason,
	}
	m.FromDomainCompanyAggregateRoot(d.CompanyAggregateRoot)
	return m
}

// DividendDistributionModel stores one shareholder's share of a declaration
type DividendDistributionModel struct {
	BaseModel
	Version             int                         `gorm:"not null;default:1"`
	CompanyID           uuid.UUID                   `gorm:"type:uuid;not null;index"`
	DeclarationID       uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_distributions_decl_person"`
	PersonID            uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_distributions_decl_person;index"`
	PersonName          string                      `gorm:"type:varchar(200);not null"`
	Shares              int64                       `gorm:"not null"`
	OwnershipPercentage decimal.Decimal             `gorm:"type:decimal(9,4);not null"`
	GrossAmount         decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	WithholdingTax      decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	NetAmount           decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Currency            string                      `gorm:"type:varchar(3);not null"`
	Status              dividend.DistributionStatus `gorm:"type:varchar(20);not null"`
	PaidAt              *time.Time
	PaymentReference    string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DividendDistributionModel) TableName() string {
	return "dividend_distributions"
}

// ToDomain converts the model to a domain Distribution
func (m *DividendDistributionModel) ToDomain() dividend.Distribution {
	return dividend.Distribution{
		ID:                  m.ID,
		CompanyID:           m.CompanyID,
		DeclarationID:       m.DeclarationID,
		PersonID:            m.PersonID,
		PersonName:          m.PersonName,
		Shares:              m.Shares,
		OwnershipPercentage: m.OwnershipPercentage,
		GrossAmount:         m.GrossAmount,
		WithholdingTax:      m.WithholdingTax,
		NetAmount:           m.NetAmount,
		Currency:            valueobject.Currency(m.Currency),
		Status:              m.Status,
		PaidAt:              m.PaidAt,
		PaymentReference:    m.PaymentReference,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		Version:             m.Version,
	}
}

// DividendDistributionModelFromDomain creates a persistence model from a domain Distribution
func DividendDistributionModelFromDomain(d *dividend.Distribution) *DividendDistributionModel {
	return &DividendDistributionModel{
		BaseModel:           BaseModel{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		Version:             d.Version,
		CompanyID:           d.CompanyID,
		DeclarationID:       d.DeclarationID,
		PersonID:            d.PersonID,
		PersonName:          d.PersonName,
		Shares:              d.Shares,
		OwnershipPercentage: d.OwnershipPercentage,
		GrossAmount:         d.GrossAmount,
		WithholdingTax:      d.WithholdingTax,
		NetAmount:           d.NetAmount,
		Currency:            d.Currency.String(),
		Status:              d.Status,
		PaidAt:              d.PaidAt,
		PaymentReference:    d.PaymentReference,
	}
}
