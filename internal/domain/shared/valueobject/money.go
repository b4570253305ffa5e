package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCurrency is returned for malformed currency codes
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO 4217 code")
	// ErrCurrencyMismatch is returned when combining amounts in different currencies
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrZeroWeights is returned when allocating over weights that sum to zero
	ErrZeroWeights = errors.New("allocation weights sum to zero")
)

// Money is an immutable monetary amount in a single currency
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money with the given amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, ErrInvalidCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney creates Money and panics on an invalid currency
func MustMoney(amount decimal.Decimal, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of two amounts in the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of two amounts in the same currency
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a factor without rounding
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Rounded rounds the amount to the currency's minor unit
func (m Money) Rounded() Money {
	return Money{amount: m.currency.Round(m.amount), currency: m.currency}
}

// String formats the amount with its currency, e.g. "RWF 15000"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.StringFixed(m.currency.MinorUnits()))
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// AllocateByWeights splits total across weights proportionally, rounding each
// share down to the given number of decimal places and handing the leftover
// smallest units to the shares with the largest truncated remainders.
// The returned shares always sum exactly to total rounded to places.
func AllocateByWeights(total decimal.Decimal, weights []decimal.Decimal, places int32) ([]decimal.Decimal, error) {
	if len(weights) == 0 {
		return nil, ErrZeroWeights
	}
	sumWeights := decimal.Zero
	for _, w := range weights {
		if w.IsNegative() {
			return nil, errors.New("allocation weights must not be negative")
		}
		sumWeights = sumWeights.Add(w)
	}
	if sumWeights.IsZero() {
		return nil, ErrZeroWeights
	}

	total = total.Round(places)
	shares := make([]decimal.Decimal, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		raw := total.Mul(w).Div(sumWeights)
		floored := raw.Shift(places).Floor().Shift(-places)
		shares[i] = floored
		remainders[i] = raw.Sub(floored)
		allocated = allocated.Add(floored)
	}

	unit := decimal.New(1, -places)
	leftover := total.Sub(allocated).Div(unit).IntPart()
	if leftover <= 0 {
		return shares, nil
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := int64(0); k < leftover; k++ {
		idx := order[int(k)%len(order)]
		shares[idx] = shares[idx].Add(unit)
	}
	return shares, nil
}
