package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/currency"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExchangeRateRepository implements RateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// FindByID finds a rate within a company
func (r *GormExchangeRateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*currency.ExchangeRate, error) {
	m, err := firstInCompany[models.ExchangeRateModel](ctx, r.db, companyID, id, "Exchange rate")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists rates matching the filter, newest first
func (r *GormExchangeRateRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter currency.Filter) ([]currency.ExchangeRate, int64, error) {
	rows, total, err := findPage[models.ExchangeRateModel](ctx, r.db, filter.Filter,
		rateSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID))
			if filter.Base != "" {
				q = q.Where("base_currency = ?", filter.Base.String())
			}
			if filter.Quote != "" {
				q = q.Where("quote_currency = ?", filter.Quote.String())
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]currency.ExchangeRate, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Lookup binds rate lookups to one company for the converter
func (r *GormExchangeRateRepository) Lookup(companyID uuid.UUID) currency.RateLookup {
	return &companyRates{db: r.db, companyID: companyID}
}

// Save creates or updates a rate
func (r *GormExchangeRateRepository) Save(ctx context.Context, rate *currency.ExchangeRate) error {
	return saveAggregate(ctx, r.db, &rate.BaseAggregateRoot, models.ExchangeRateModelFromDomain(rate))
}

// Delete removes a rate
func (r *GormExchangeRateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.ExchangeRateModel](ctx, r.db, companyID, id, "Exchange rate")
}

type companyRates struct {
	db        *gorm.DB
	companyID uuid.UUID
}

// Latest returns the most recent rate for the pair effective on or before asOf.
// Rates entered later on the same effective date win.
func (c *companyRates) Latest(ctx context.Context, base, quote valueobject.Currency, asOf time.Time) (*currency.ExchangeRate, error) {
	var m models.ExchangeRateModel
	if err := c.db.WithContext(ctx).
		Scopes(companyScope(c.companyID)).
		Where("base_currency = ? AND quote_currency = ? AND effective_date <= ?", base.String(), quote.String(), asOf).
		Order("effective_date DESC").
		Order("created_at DESC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

var _ currency.RateRepository = (*GormExchangeRateRepository)(nil)
