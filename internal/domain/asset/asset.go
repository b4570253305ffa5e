package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Class is an RRA asset class with its default depreciation rate
type Class string

const (
	ClassBuildings   Class = "BUILDINGS"
	ClassComputers   Class = "COMPUTERS"
	ClassVehicles    Class = "VEHICLES"
	ClassMachinery   Class = "MACHINERY"
	ClassFurniture   Class = "FURNITURE"
	ClassIntangibles Class = "INTANGIBLES"
	ClassOther       Class = "OTHER"
)

var classRates = map[Class]int64{
	ClassBuildings:   5,
	ClassComputers:   50,
	ClassVehicles:    25,
	ClassMachinery:   25,
	ClassFurniture:   25,
	ClassIntangibles: 10,
	ClassOther:       25,
}

// IsValid checks if the class is a known value
func (c Class) IsValid() bool {
	_, ok := classRates[c]
	return ok
}

// DefaultRate returns the class depreciation rate in percent
func (c Class) DefaultRate() decimal.Decimal {
	return decimal.NewFromInt(classRates[c])
}

// Method is the depreciation method
type Method string

const (
	MethodStraightLine     Method = "STRAIGHT_LINE"
	MethodDecliningBalance Method = "DECLINING_BALANCE"
)

// IsValid checks if the method is a known value
func (m Method) IsValid() bool {
	return m == MethodStraightLine || m == MethodDecliningBalance
}

// Status represents whether the asset is still held
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisposed Status = "DISPOSED"
)

// FixedAsset is a depreciable asset owned by a company
type FixedAsset struct {
	shared.CompanyAggregateRoot
	Name             string
	Description      string
	Class            Class
	AcquisitionDate  time.Time
	Cost             decimal.Decimal
	SalvageValue     decimal.Decimal
	Currency         valueobject.Currency
	UsefulLifeYears  int
	Method           Method
	Rate             decimal.Decimal
	ProrateFirstYear bool
	Status           Status
	DisposedAt       *time.Time
	DisposalAmount   *decimal.Decimal
}

// Details carries the editable fields of an asset
type Details struct {
	Name             string
	Description      string
	Class            Class
	AcquisitionDate  time.Time
	Cost             decimal.Decimal
	SalvageValue     decimal.Decimal
	Currency         valueobject.Currency
	UsefulLifeYears  int
	Method           Method
	// Rate is a percentage. Zero means the class default.
	Rate             decimal.Decimal
	ProrateFirstYear bool
}

// NewFixedAsset registers an asset
func NewFixedAsset(companyID, createdBy uuid.UUID, d Details) (*FixedAsset, error) {
	a := &FixedAsset{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               StatusActive,
	}
	if err := a.apply(d); err != nil {
		return nil, err
	}
	return a, nil
}

// Preview validates the details and returns an unsaved asset for schedule previews
func Preview(d Details) (*FixedAsset, error) {
	return NewFixedAsset(uuid.Nil, uuid.Nil, d)
}

// Update changes an active asset
func (a *FixedAsset) Update(d Details) error {
	if a.Status != StatusActive {
		return shared.InvalidState("Disposed assets cannot be updated")
	}
	if err := a.apply(d); err != nil {
		return err
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

func (a *FixedAsset) apply(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.InvalidInput("Asset name is required")
	}
	if !d.Class.IsValid() {
		return shared.InvalidInput("Unknown asset class")
	}
	if d.AcquisitionDate.IsZero() {
		return shared.InvalidInput("Acquisition date is required")
	}
	if !d.Cost.IsPositive() {
		return shared.InvalidInput("Cost must be greater than zero")
	}
	if d.SalvageValue.IsNegative() || !d.SalvageValue.LessThan(d.Cost) {
		return shared.InvalidInput("Salvage value must be at least zero and below cost")
	}
	if d.UsefulLifeYears < 1 || d.UsefulLifeYears > 100 {
		return shared.InvalidInput("Useful life must be between 1 and 100 years")
	}
	method := d.Method
	if method == "" {
		method = MethodStraightLine
	}
	if !method.IsValid() {
		return shared.InvalidInput("Method must be STRAIGHT_LINE or DECLINING_BALANCE")
	}
	rate := d.Rate
	if rate.IsZero() && method == MethodDecliningBalance {
		rate = d.Class.DefaultRate()
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.InvalidInput("Rate must be between 0 and 100 percent")
	}
	cur := d.Currency.OrDefault()
	if !cur.IsValid() {
		return valueobject.ErrInvalidCurrency
	}
	a.Name = name
	a.Description = strings.TrimSpace(d.Description)
	a.Class = d.Class
	a.AcquisitionDate = d.AcquisitionDate
	a.Cost = cur.Round(d.Cost)
	a.SalvageValue = cur.Round(d.SalvageValue)
	a.Currency = cur
	a.UsefulLifeYears = d.UsefulLifeYears
	a.Method = method
	a.Rate = rate
	a.ProrateFirstYear = d.ProrateFirstYear
	return nil
}

// Disposal is the result of selling or scrapping an asset
type Disposal struct {
	BookValue decimal.Decimal `json:"book_value"`
	Proceeds  decimal.Decimal `json:"proceeds"`
	GainLoss  decimal.Decimal `json:"gain_loss"`
}

// Dispose removes the asset from service and computes the gain or loss
// against the book value at the end of the year before disposal
func (a *FixedAsset) Dispose(date time.Time, amount decimal.Decimal) (Disposal, error) {
	if a.Status == StatusDisposed {
		return Disposal{}, shared.InvalidState("Asset is already disposed")
	}
	if amount.IsNegative() {
		return Disposal{}, shared.InvalidInput("Disposal amount cannot be negative")
	}
	if date.Before(a.AcquisitionDate) {
		return Disposal{}, shared.InvalidInput("Disposal date cannot be before acquisition")
	}
	amount = a.Currency.Round(amount)
	book := a.BookValueAt(date.Year() - 1)
	a.Status = StatusDisposed
	a.DisposedAt = &date
	a.DisposalAmount = &amount
	a.Touch()
	a.IncrementVersion()
	return Disposal{BookValue: book, Proceeds: amount, GainLoss: amount.Sub(book)}, nil
}

// Disposal returns the recorded disposal of a disposed asset
func (a *FixedAsset) Disposal() *Disposal {
	if a.DisposedAt == nil || a.DisposalAmount == nil {
		return nil
	}
	book := a.BookValueAt(a.DisposedAt.Year() - 1)
	return &Disposal{BookValue: book, Proceeds: *a.DisposalAmount, GainLoss: a.DisposalAmount.Sub(book)}
}

// CanDepreciateIn reports whether the asset was in service during the year
func (a *FixedAsset) CanDepreciateIn(year int) bool {
	if year < a.AcquisitionDate.Year() {
		return false
	}
	return a.DisposedAt == nil || year < a.DisposedAt.Year()
}
