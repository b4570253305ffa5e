package models

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/currency"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExchangeRateModel is the persistence model for exchange rates
type ExchangeRateModel struct {
	CompanyAggregateModel
	BaseCurrency  string          `gorm:"type:varchar(3);not null;index:idx_rates_pair"`
	QuoteCurrency string          `gorm:"type:varchar(3);not null;index:idx_rates_pair"`
	Rate          decimal.Decimal `gorm:"type:decimal(24,12);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;index:idx_rates_pair"`
	Source        string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// ToDomain converts the model to a domain ExchangeRate
func (m *ExchangeRateModel) ToDomain() *currency.ExchangeRate {
	r := &currency.ExchangeRate{
		Base:          valueobject.Currency(m.BaseCurrency),
		Quote:         valueobject.Currency(m.QuoteCurrency),
		Rate:          m.Rate,
		EffectiveDate: m.EffectiveDate,
		Source:        m.Source,
	}
	m.PopulateCompanyAggregateRoot(&r.CompanyAggregateRoot)
	return r
}

// ExchangeRateModelFromDomain creates a persistence model from a domain ExchangeRate
func ExchangeRateModelFromDomain(r *currency.ExchangeRate) *ExchangeRateModel {
	m := &ExchangeRateModel{
		BaseCurrency:  r.Base.String(),
		QuoteCurrency: r.Quote.String(),
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
		Source:        r.Source,
	}
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	return m
}
