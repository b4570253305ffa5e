package models

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FixedAssetModel is the persistence model for fixed assets
type FixedAssetModel struct {
	CompanyAggregateModel
	Name             string           `gorm:"type:varchar(200);not null"`
	Description      string           `gorm:"type:text"`
	Class            asset.Class      `gorm:"column:asset_class;type:varchar(20);not null;index"`
	AcquisitionDate  time.Time        `gorm:"type:date;not null"`
	Cost             decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	SalvageValue     decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Currency         string           `gorm:"type:varchar(3);not null"`
	UsefulLifeYears  int              `gorm:"not null"`
	Method           asset.Method     `gorm:"type:varchar(20);not null"`
	Rate             decimal.Decimal  `gorm:"type:decimal(7,4);not null;default:0"`
	ProrateFirstYear bool             `gorm:"not null;default:false"`
	Status           asset.Status     `gorm:"type:varchar(20);not null;index"`
	DisposedAt       *time.Time       `gorm:"type:date"`
	DisposalAmount   *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (FixedAssetModel) TableName() string {
	return "fixed_assets"
}

// ToDomain converts the model to a domain FixedAsset
func (m *FixedAssetModel) ToDomain() *asset.FixedAsset {
	a := &asset.FixedAsset{
		Name:             m.Name,
		Description:      m.Description,
		Class:            m.Class,
		AcquisitionDate:  m.AcquisitionDate,
		Cost:             m.Cost,
		SalvageValue:     m.SalvageValue,
		Currency:         valueobject.Currency(m.Currency),
		UsefulLifeYears:  m.UsefulLifeYears,
		Method:           m.Method,
		Rate:             m.Rate,
		ProrateFirstYear: m.ProrateFirstYear,
		Status:           m.Status,
		DisposedAt:       m.DisposedAt,
		DisposalAmount:   m.DisposalAmount,
	}
	m.PopulateCompanyAggregateRoot(&a.CompanyAggregateRoot)
	return a
}

// FixedAssetModelFromDomain creates a persistence model from a domain FixedAsset
func FixedAssetModelFromDomain(a *asset.FixedAsset) *FixedAssetModel {
	m := &FixedAssetModel{
		Name:             a.Name,
		Description:      a.Description,
		Class:            a.Class,
		AcquisitionDate:  a.AcquisitionDate,
		Cost:             a.Cost,
		SalvageValue:     a.SalvageValue,
		Currency:         a.Currency.String(),
		UsefulLifeYears:  a.UsefulLifeYears,
		Method:           a.Method,
		Rate:             a.Rate,
		ProrateFirstYear: a.ProrateFirstYear,
		Status:           a.Status,
		DisposedAt:       a.DisposedAt,
		DisposalAmount:   a.DisposalAmount,
	}
	m.FromDomainCompanyAggregateRoot(a.CompanyAggregateRoot)
	return m
}
