package dividend

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DistributionStatus tracks payment of a single distribution
type DistributionStatus string

const (
	DistributionPending DistributionStatus = "PENDING"
	DistributionPaid    DistributionStatus = "PAID"
)

// Distribution is the amount owed to one shareholder for a declaration
type Distribution struct {
	ID                  uuid.UUID
	CompanyID           uuid.UUID
	DeclarationID       uuid.UUID
	PersonID            uuid.UUID
	PersonName          string
	Shares              int64
	OwnershipPercentage decimal.Decimal
	GrossAmount         decimal.Decimal
	WithholdingTax      decimal.Decimal
	NetAmount           decimal.Decimal
	Currency            valueobject.Currency
	Status              DistributionStatus
	PaidAt              *time.Time
	PaymentReference    string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

func newDistribution(d *Declaration, a Allocation) Distribution {
	now := time.Now()
	return Distribution{
		ID:                  uuid.New(),
		CompanyID:           d.CompanyID,
		DeclarationID:       d.ID,
		PersonID:            a.PersonID,
		PersonName:          a.PersonName,
		Shares:              a.Shares,
		OwnershipPercentage: a.OwnershipPercentage,
		GrossAmount:         a.GrossAmount,
		WithholdingTax:      a.WithholdingTax,
		NetAmount:           a.NetAmount,
		Currency:            d.Currency,
		Status:              DistributionPending,
		CreatedAt:           now,
		UpdatedAt:           now,
		Version:             1,
	}
}

// MarkPaid records the payment of the net amount
func (d *Distribution) MarkPaid(reference string, at time.Time) error {
	if d.Status == DistributionPaid {
		return shared.InvalidState("Distribution is already paid")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return shared.InvalidInput("Payment reference is required")
	}
	d.Status = DistributionPaid
	d.PaidAt = &at
	d.PaymentReference = reference
	d.UpdatedAt = time.Now()
	d.Version++
	return nil
}
