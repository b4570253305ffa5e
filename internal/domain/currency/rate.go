package currency

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExchangeRate is the price of one unit of Base in Quote, effective from a date
type ExchangeRate struct {
	shared.CompanyAggregateRoot
	Base          valueobject.Currency
	Quote         valueobject.Currency
	Rate          decimal.Decimal
	EffectiveDate time.Time
	Source        string
}

// NewExchangeRate records a rate for a currency pair
func NewExchangeRate(companyID, createdBy uuid.UUID, base, quote string, rate decimal.Decimal, effective time.Time, source string) (*ExchangeRate, error) {
	b, err := valueobject.ParseCurrency(base)
	if err != nil {
		return nil, shared.InvalidInput("Base currency must be a 3-letter ISO code")
	}
	q, err := valueobject.ParseCurrency(quote)
	if err != nil {
		return nil, shared.InvalidInput("Quote currency must be a 3-letter ISO code")
	}
	if b == q {
		return nil, shared.InvalidInput("Base and quote currencies must differ")
	}
	if !rate.IsPositive() {
		return nil, shared.InvalidInput("Rate must be greater than zero")
	}
	if effective.IsZero() {
		return nil, shared.InvalidInput("Effective date is required")
	}
	y, m, d := effective.Date()
	return &ExchangeRate{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Base:                 b,
		Quote:                q,
		Rate:                 rate,
		EffectiveDate:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Source:               strings.TrimSpace(source),
	}, nil
}
