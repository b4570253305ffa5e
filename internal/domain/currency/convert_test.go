package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRates []*ExchangeRate

func (m memoryRates) Latest(_ context.Context, base, quote valueobject.Currency, asOf time.Time) (*ExchangeRate, error) {
	var best *ExchangeRate
	for _, r := range m {
		if r.Base != base || r.Quote != quote || r.EffectiveDate.After(asOf) {
			continue
		}
		if best == nil || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
		}
	}
	if best == nil {
		return nil, shared.ErrNotFound
	}
	return best, nil
}

type failingRates struct{}

func (failingRates) Latest(context.Context, valueobject.Currency, valueobject.Currency, time.Time) (*ExchangeRate, error) {
	return nil, errors.New("database down")
}

func rate(t *testing.T, base, quote, value string, day int) *ExchangeRate {
	t.Helper()
	r, err := NewExchangeRate(uuid.New(), uuid.New(), base, quote, decimal.RequireFromString(value),
		time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC), "BNR")
	require.NoError(t, err)
	return r
}

func TestNewExchangeRate_Validation(t *testing.T) {
	_, err := NewExchangeRate(uuid.New(), uuid.New(), "usd", "USD", decimal.NewFromInt(1), time.Now(), "")
	assert.Error(t, err)
	_, err = NewExchangeRate(uuid.New(), uuid.New(), "US", "RWF", decimal.NewFromInt(1), time.Now(), "")
	assert.Error(t, err)
	_, err = NewExchangeRate(uuid.New(), uuid.New(), "USD", "RWF", decimal.Zero, time.Now(), "")
	assert.Error(t, err)

	r, err := NewExchangeRate(uuid.New(), uuid.New(), " usd ", "rwf", decimal.NewFromInt(1300), time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Equal(t, valueobject.USD, r.Base)
	assert.Equal(t, 0, r.EffectiveDate.Hour())
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	rates := memoryRates{
		rate(t, "USD", "RWF", "1300", 1),
		rate(t, "USD", "RWF", "1350", 10),
		rate(t, "USD", "RWF", "1400", 25),
		rate(t, "EUR", "RWF", "1500", 5),
	}
	c := NewConverter(rates)

	t.Run("identity", func(t *testing.T) {
		res, err := c.Convert(ctx, decimal.RequireFromString("10.555"), valueobject.USD, valueobject.USD, valueobject.RWF, asOf)
		require.NoError(t, err)
		assert.Equal(t, MethodIdentity, res.Method)
		assert.Equal(t, "10.56", res.Result.String())
	})

	t.Run("direct uses latest effective rate", func(t *testing.T) {
		res, err := c.Convert(ctx, decimal.NewFromInt(100), valueobject.USD, valueobject.RWF, valueobject.RWF, asOf)
		require.NoError(t, err)
		assert.Equal(t, MethodDirect, res.Method)
		assert.Equal(t, "135000", res.Result.String())
	})

	t.Run("inverse", func(t *testing.T) {
		res, err := c.Convert(ctx, decimal.NewFromInt(135000), valueobject.RWF, valueobject.USD, valueobject.RWF, asOf)
		require.NoError(t, err)
		assert.Equal(t, MethodInverse, res.Method)
		assert.Equal(t, "100", res.Result.String())
	})

	t.Run("triangulation through base", func(t *testing.T) {
		res, err := c.Convert(ctx, decimal.NewFromInt(90), valueobject.USD, valueobject.EUR, valueobject.RWF, asOf)
		require.NoError(t, err)
		assert.Equal(t, MethodTriangulation, res.Method)
		assert.Equal(t, valueobject.RWF, res.Via)
		// 90 USD = 121500 RWF = 81 EUR
		assert.Equal(t, "81", res.Result.String())
	})

	t.Run("missing rate", func(t *testing.T) {
		_, err := c.Convert(ctx, decimal.NewFromInt(1), valueobject.KES, valueobject.USD, valueobject.RWF, asOf)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("no rate before date", func(t *testing.T) {
		_, err := c.Convert(ctx, decimal.NewFromInt(1), valueobject.EUR, valueobject.RWF, valueobject.RWF, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestConvert_PropagatesLookupErrors(t *testing.T) {
	_, err := NewConverter(failingRates{}).Convert(context.Background(), decimal.NewFromInt(1), valueobject.USD, valueobject.RWF, valueobject.RWF, time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, shared.ErrNotFound))
}
