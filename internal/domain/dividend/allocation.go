package dividend

import (
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Holding is a shareholder's position at the record date
type Holding struct {
	PersonID   uuid.UUID
	PersonName string
	Shares     int64
}

// Allocation is one shareholder's share of a dividend pool
type Allocation struct {
	PersonID            uuid.UUID
	PersonName          string
	Shares              int64
	OwnershipPercentage decimal.Decimal
	GrossAmount         decimal.Decimal
	WithholdingTax      decimal.Decimal
	NetAmount           decimal.Decimal
}

// Allocate splits the pool pro rata by shares. Gross amounts are rounded to the
// currency's minor unit and always sum to the pool exactly.
func Allocate(pool decimal.Decimal, currency valueobject.Currency, whtRate decimal.Decimal, holdings []Holding) ([]Allocation, error) {
	eligible := make([]Holding, 0, len(holdings))
	var totalShares int64
	for _, h := range holdings {
		if h.Shares <= 0 {
			continue
		}
		eligible = append(eligible, h)
		totalShares += h.Shares
	}
	if len(eligible) == 0 || totalShares == 0 {
		return nil, shared.InvalidState("No shareholders with shares to distribute to")
	}

	weights := make([]decimal.Decimal, len(eligible))
	for i, h := range eligible {
		weights[i] = decimal.NewFromInt(h.Shares)
	}
	gross, err := valueobject.AllocateByWeights(pool, weights, currency.MinorUnits())
	if err != nil {
		return nil, shared.InvalidState(err.Error())
	}

	total := decimal.NewFromInt(totalShares)
	out := make([]Allocation, len(eligible))
	for i, h := range eligible {
		wht := currency.Round(gross[i].Mul(whtRate))
		out[i] = Allocation{
			PersonID:            h.PersonID,
			PersonName:          h.PersonName,
			Shares:              h.Shares,
			OwnershipPercentage: decimal.NewFromInt(h.Shares).Div(total).Mul(decimal.NewFromInt(100)).Round(4),
			GrossAmount:         gross[i],
			WithholdingTax:      wht,
			NetAmount:           gross[i].Sub(wht),
		}
	}
	return out, nil
}

// Totals sums allocations
func Totals(allocs []Allocation) (gross, wht, net decimal.Decimal) {
	for _, a := range allocs {
		gross = gross.Add(a.GrossAmount)
		wht = wht.Add(a.WithholdingTax)
		net = net.Add(a.NetAmount)
	}
	return gross, wht, net
}
