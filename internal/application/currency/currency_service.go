package currency

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/currency"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CurrencyService maintains exchange rates and converts amounts between currencies
type CurrencyService struct {
	rateRepo    currency.RateRepository
	companyRepo company.CompanyRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewCurrencyService creates a new currency service
func NewCurrencyService(rateRepo currency.RateRepository, companyRepo company.CompanyRepository, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{
		rateRepo:    rateRepo,
		companyRepo: companyRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create records an exchange rate
func (s *CurrencyService) Create(ctx context.Context, actor access.Actor, req RateRequest) (*RateResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	rate, err := currency.NewExchangeRate(actor.CompanyID, actor.UserID, req.Base, req.Quote, req.Rate, req.EffectiveDate, req.Source)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Exchange rate recorded",
		zap.String("pair", string(rate.Base)+"/"+string(rate.Quote)),
		zap.String("rate", rate.Rate.String()),
		zap.Time("effective_date", rate.EffectiveDate),
	)
	resp := ToRateResponse(rate)
	return &resp, nil
}

// Get returns an exchange rate
func (s *CurrencyService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// List lists exchange rates, optionally for one pair
func (s *CurrencyService) List(ctx context.Context, actor access.Actor, req ListRatesRequest) ([]RateResponse, int64, error) {
	filter := currency.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}
	if req.Base != "" {
		base, err := parseCurrency(req.Base, "base")
		if err != nil {
			return nil, 0, err
		}
		filter.Base = base
	}
	if req.Quote != "" {
		quote, err := parseCurrency(req.Quote, "quote")
		if err != nil {
			return nil, 0, err
		}
		filter.Quote = quote
	}
	rates, total, err := s.rateRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out, total, nil
}

// Delete removes an exchange rate
func (s *CurrencyService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	return s.rateRepo.Delete(ctx, actor.CompanyID, id)
}

// Convert converts an amount using the company's rates, triangulating
// through its base currency when no direct pair exists
func (s *CurrencyService) Convert(ctx context.Context, actor access.Actor, req ConvertRequest) (*currency.Conversion, error) {
	from, err := parseCurrency(req.From, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseCurrency(req.To, "to")
	if err != nil {
		return nil, err
	}
	comp, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	asOf := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		asOf = *req.Date
	}
	converter := currency.NewConverter(s.rateRepo.Lookup(actor.CompanyID))
	return converter.Convert(ctx, req.Amount, from, to, comp.BaseCurrency.OrDefault(), asOf)
}

func parseCurrency(code, field string) (valueobject.Currency, error) {
	c, err := valueobject.ParseCurrency(code)
	if err != nil {
		return "", shared.InvalidInput("Currency must be a 3-letter ISO code").
			WithDetails(map[string]any{"field": field, "value": code})
	}
	return c, nil
}
