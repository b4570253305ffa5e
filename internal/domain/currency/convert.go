package currency

import (
	"context"
	"errors"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Method describes how a conversion rate was obtained
type Method string

const (
	MethodIdentity      Method = "IDENTITY"
	MethodDirect        Method = "DIRECT"
	MethodInverse       Method = "INVERSE"
	MethodTriangulation Method = "TRIANGULATION"
)

// RateLookup finds the latest rate for an exact pair effective on or before
// a date. It returns shared.ErrNotFound when none exists.
type RateLookup interface {
	Latest(ctx context.Context, base, quote valueobject.Currency, asOf time.Time) (*ExchangeRate, error)
}

// Conversion is the outcome of converting an amount
type Conversion struct {
	Amount    decimal.Decimal      `json:"amount"`
	From      valueobject.Currency `json:"from"`
	To        valueobject.Currency `json:"to"`
	Rate      decimal.Decimal      `json:"rate"`
	Result    decimal.Decimal      `json:"result"`
	Method    Method               `json:"method"`
	Via       valueobject.Currency `json:"via,omitempty"`
	AsOf      time.Time            `json:"as_of"`
	RateDates []time.Time          `json:"rate_dates,omitempty"`
}

// ErrRateNotFound is returned when no path between two currencies exists
var ErrRateNotFound = shared.NewDomainError(shared.CodeNotFound, "Exchange rate not found")

// Converter resolves rates through a lookup
type Converter struct {
	rates RateLookup
}

// NewConverter creates a converter
func NewConverter(rates RateLookup) *Converter {
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another as of a date. It
// tries identity, then a direct rate, then the inverse, then triangulation
// through the base currency. The result is rounded to the target's minor unit.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to, base valueobject.Currency, asOf time.Time) (*Conversion, error) {
	conv := &Conversion{Amount: amount, From: from, To: to, AsOf: asOf}
	if from == to {
		conv.Rate = decimal.NewFromInt(1)
		conv.Method = MethodIdentity
		conv.Result = to.Round(amount)
		return conv, nil
	}

	rate, method, dates, err := c.pairRate(ctx, from, to, asOf)
	if err == nil {
		conv.Rate, conv.Method, conv.RateDates = rate, method, dates
		conv.Result = to.Round(amount.Mul(rate))
		return conv, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if base == "" || base == from || base == to {
		return nil, ErrRateNotFound.WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	leg1, _, d1, err := c.pairRate(ctx, from, base, asOf)
	if err != nil {
		return nil, notFoundOr(err, from, to)
	}
	leg2, _, d2, err := c.pairRate(ctx, base, to, asOf)
	if err != nil {
		return nil, notFoundOr(err, from, to)
	}
	conv.Rate = leg1.Mul(leg2)
	conv.Method = MethodTriangulation
	conv.Via = base
	conv.RateDates = append(d1, d2...)
	conv.Result = to.Round(amount.Mul(leg1).Mul(leg2))
	return conv, nil
}

// pairRate returns the from->to rate from a direct quote or the inverse of the reverse quote
func (c *Converter) pairRate(ctx context.Context, from, to valueobject.Currency, asOf time.Time) (decimal.Decimal, Method, []time.Time, error) {
	direct, err := c.rates.Latest(ctx, from, to, asOf)
	if err == nil {
		return direct.Rate, MethodDirect, []time.Time{direct.EffectiveDate}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return decimal.Zero, "", nil, err
	}
	inverse, err := c.rates.Latest(ctx, to, from, asOf)
	if err != nil {
		return decimal.Zero, "", nil, err
	}
	return decimal.NewFromInt(1).DivRound(inverse.Rate, 12), MethodInverse, []time.Time{inverse.EffectiveDate}, nil
}

func notFoundOr(err error, from, to valueobject.Currency) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ErrRateNotFound.WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return err
}
