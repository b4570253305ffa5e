package company

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the registration status of a company
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusDormant      Status = "DORMANT"
	StatusDeregistered Status = "DEREGISTERED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDormant, StatusDeregistered:
		return true
	}
	return false
}

// LegalForm is the RDB legal form of the business
type LegalForm string

const (
	LegalFormLTD         LegalForm = "LTD"
	LegalFormPLC         LegalForm = "PLC"
	LegalFormSole        LegalForm = "SOLE_PROPRIETORSHIP"
	LegalFormCooperative LegalForm = "COOPERATIVE"
	LegalFormPartnership LegalForm = "PARTNERSHIP"
	LegalFormNGO         LegalForm = "NGO"
)

// IsValid checks if the legal form is a known value
func (f LegalForm) IsValid() bool {
	switch f {
	case LegalFormLTD, LegalFormPLC, LegalFormSole, LegalFormCooperative, LegalFormPartnership, LegalFormNGO:
		return true
	}
	return false
}

// tinPattern matches the 9-digit RRA taxpayer identification number
var tinPattern = regexp.MustCompile(`^\d{9}$`)

// ValidateTIN checks the format of an RRA TIN
func ValidateTIN(tin string) error {
	if !tinPattern.MatchString(tin) {
		return shared.NewDomainError("INVALID_TIN", "TIN must be exactly 9 digits")
	}
	return nil
}

// Company is the tenant of the system. Every business record is scoped to one.
type Company struct {
	shared.BaseAggregateRoot
	Name                 string
	TIN                  string
	RDBNumber            string
	RegistrationDate     *time.Time
	LegalForm            LegalForm
	Sector               string
	District             string
	Address              string
	Phone                string
	Email                string
	FiscalYearStartMonth int
	BaseCurrency         valueobject.Currency
	AuthorizedShares     int64
	ShareNominalValue    decimal.Decimal
	VATRegistered        bool
	Status               Status
	CreatedBy            uuid.UUID
}

// Profile carries the editable fields of a company
type Profile struct {
	Name                 string
	TIN                  string
	RDBNumber            string
	RegistrationDate     *time.Time
	LegalForm            LegalForm
	Sector               string
	District             string
	Address              string
	Phone                string
	Email                string
	FiscalYearStartMonth int
	BaseCurrency         valueobject.Currency
	AuthorizedShares     int64
	ShareNominalValue    decimal.Decimal
	VATRegistered        bool
}

// NewCompany registers a new company on behalf of its creator
func NewCompany(createdBy uuid.UUID, p Profile) (*Company, error) {
	c := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            StatusActive,
		CreatedBy:         createdBy,
	}
	if err := c.apply(p); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCompanyCreatedEvent(c))
	return c, nil
}

// Update replaces the company profile
func (c *Company) Update(p Profile) error {
	if c.Status == StatusDeregistered {
		return shared.InvalidState("Cannot update a deregistered company")
	}
	if err := c.apply(p); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

func (c *Company) apply(p Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.InvalidInput("Company name is required")
	}
	if len(name) > 200 {
		return shared.InvalidInput("Company name cannot exceed 200 characters")
	}
	tin := strings.TrimSpace(p.TIN)
	if err := ValidateTIN(tin); err != nil {
		return err
	}
	form := p.LegalForm
	if form == "" {
		form = LegalFormLTD
	}
	if !form.IsValid() {
		return shared.InvalidInput("Unknown legal form")
	}
	month := p.FiscalYearStartMonth
	if month == 0 {
		month = 1
	}
	if month < 1 || month > 12 {
		return shared.InvalidInput("Fiscal year start month must be between 1 and 12")
	}
	currency := p.BaseCurrency.OrDefault()
	if !currency.IsValid() {
		return shared.InvalidInput("Base currency must be a three-letter ISO code")
	}
	if p.AuthorizedShares < 0 {
		return shared.InvalidInput("Authorized shares cannot be negative")
	}
	if p.ShareNominalValue.IsNegative() {
		return shared.InvalidInput("Share nominal value cannot be negative")
	}
	if p.RegistrationDate != nil && p.RegistrationDate.After(time.Now()) {
		return shared.InvalidInput("Registration date cannot be in the future")
	}

	c.Name = name
	c.TIN = tin
	c.RDBNumber = strings.TrimSpace(p.RDBNumber)
	c.RegistrationDate = p.RegistrationDate
	c.LegalForm = form
	c.Sector = strings.TrimSpace(p.Sector)
	c.District = strings.TrimSpace(p.District)
	c.Address = strings.TrimSpace(p.Address)
	c.Phone = strings.TrimSpace(p.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(p.Email))
	c.FiscalYearStartMonth = month
	c.BaseCurrency = currency
	c.AuthorizedShares = p.AuthorizedShares
	c.ShareNominalValue = p.ShareNominalValue
	c.VATRegistered = p.VATRegistered
	return nil
}

// SetStatus moves the company to DORMANT or back to ACTIVE
func (c *Company) SetStatus(status Status) error {
	if !status.IsValid() || status == StatusDeregistered {
		return shared.InvalidInput("Status must be ACTIVE or DORMANT")
	}
	if c.Status == StatusDeregistered {
		return shared.InvalidState("Company is deregistered")
	}
	c.Status = status
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deregister soft-deletes the company
func (c *Company) Deregister() error {
	if c.Status == StatusDeregistered {
		return shared.InvalidState("Company is already deregistered")
	}
	c.Status = StatusDeregistered
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCompanyDeregisteredEvent(c))
	return nil
}

// FiscalYearBounds returns the first and last day of the fiscal year that ends in endYear.
// With a January start the fiscal year equals the calendar year.
func (c *Company) FiscalYearBounds(endYear int) (time.Time, time.Time) {
	return FiscalYearBounds(c.FiscalYearStartMonth, endYear)
}

// FiscalYearBounds returns the bounds of a fiscal year starting on startMonth and ending in endYear
func FiscalYearBounds(startMonth, endYear int) (time.Time, time.Time) {
	if startMonth < 1 || startMonth > 12 {
		startMonth = 1
	}
	startYear := endYear
	if startMonth > 1 {
		startYear = endYear - 1
	}
	start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end
}
