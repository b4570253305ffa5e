package person

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Role is a capacity in which a person relates to a company
type Role string

const (
	RoleShareholder Role = "SHAREHOLDER"
	RoleDirector    Role = "DIRECTOR"
	RoleEmployee    Role = "EMPLOYEE"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleShareholder, RoleDirector, RoleEmployee:
		return true
	}
	return false
}

// EmploymentStatus tracks whether an employee is on payroll
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "ACTIVE"
	EmploymentTerminated EmploymentStatus = "TERMINATED"
)

// NationalityRwandan is the nationality that requires a national ID
const NationalityRwandan = "RW"

// nationalIDPattern matches the 16-digit Rwandan national ID
var nationalIDPattern = regexp.MustCompile(`^\d{16}$`)

// Person is a shareholder, director or employee of a company
type Person struct {
	shared.CompanyAggregateRoot
	FullName    string
	NationalID  string
	Nationality string
	Email       string
	Phone       string
	Address     string
	Roles       []Role
	SharesHeld  int64
	ShareClass  string
	Employment  *Employment
}

// Employment holds payroll data for persons with the EMPLOYEE role
type Employment struct {
	Position           string
	HireDate           *time.Time
	MonthlyGrossSalary decimal.Decimal
	Allowances         decimal.Decimal
	RSSBNumber         string
	BankAccount        string
	Status             EmploymentStatus
}

// Details carries the editable fields of a person
type Details struct {
	FullName    string
	NationalID  string
	Nationality string
	Email       string
	Phone       string
	Address     string
	Roles       []Role
	SharesHeld  int64
	ShareClass  string
	Employment  *Employment
}

// NewPerson creates a person record for a company
func NewPerson(companyID, createdBy uuid.UUID, d Details) (*Person, error) {
	p := &Person{CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy)}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the person's details
func (p *Person) Update(d Details) error {
	sharesBefore := p.SharesHeld
	if err := p.apply(d); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	if sharesBefore != p.SharesHeld {
		p.AddDomainEvent(NewSharesChangedEvent(p, sharesBefore))
	}
	return nil
}

// SetShares changes the number of shares held
func (p *Person) SetShares(shares int64, class string) error {
	if shares < 0 {
		return shared.InvalidInput("Shares held cannot be negative")
	}
	if shares > 0 && !p.HasRole(RoleShareholder) {
		p.Roles = append(p.Roles, RoleShareholder)
	}
	before := p.SharesHeld
	p.SharesHeld = shares
	if class != "" {
		p.ShareClass = strings.TrimSpace(class)
	}
	p.Touch()
	p.IncrementVersion()
	if before != shares {
		p.AddDomainEvent(NewSharesChangedEvent(p, before))
	}
	return nil
}

func (p *Person) apply(d Details) error {
	name := strings.TrimSpace(d.FullName)
	if name == "" {
		return shared.InvalidInput("Full name is required")
	}
	if len(name) > 200 {
		return shared.InvalidInput("Full name cannot exceed 200 characters")
	}
	nationality := strings.ToUpper(strings.TrimSpace(d.Nationality))
	if nationality == "" {
		nationality = NationalityRwandan
	}
	nationalID := strings.ReplaceAll(strings.TrimSpace(d.NationalID), " ", "")
	if nationality == NationalityRwandan && !nationalIDPattern.MatchString(nationalID) {
		return shared.NewDomainError("INVALID_NATIONAL_ID", "Rwandan national ID must be 16 digits")
	}
	if len(d.Roles) == 0 {
		return shared.InvalidInput("At least one role is required")
	}
	roles := make([]Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		if !r.IsValid() {
			return shared.InvalidInput("Unknown person role: " + string(r))
		}
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	if d.SharesHeld < 0 {
		return shared.InvalidInput("Shares held cannot be negative")
	}
	if d.SharesHeld > 0 && !slices.Contains(roles, RoleShareholder) {
		return shared.InvalidInput("Only shareholders can hold shares")
	}

	var employment *Employment
	if slices.Contains(roles, RoleEmployee) {
		if d.Employment == nil {
			return shared.InvalidInput("Employment details are required for employees")
		}
		e := *d.Employment
		if e.MonthlyGrossSalary.IsNegative() || e.Allowances.IsNegative() {
			return shared.InvalidInput("Salary and allowances cannot be negative")
		}
		if e.Status == "" {
			e.Status = EmploymentActive
		}
		if e.Status != EmploymentActive && e.Status != EmploymentTerminated {
			return shared.InvalidInput("Employment status must be ACTIVE or TERMINATED")
		}
		e.Position = strings.TrimSpace(e.Position)
		e.RSSBNumber = strings.TrimSpace(e.RSSBNumber)
		employment = &e
	}

	p.FullName = name
	p.NationalID = nationalID
	p.Nationality = nationality
	p.Email = strings.ToLower(strings.TrimSpace(d.Email))
	p.Phone = strings.TrimSpace(d.Phone)
	p.Address = strings.TrimSpace(d.Address)
	p.Roles = roles
	p.SharesHeld = d.SharesHeld
	p.ShareClass = strings.TrimSpace(d.ShareClass)
	if p.ShareClass == "" && p.SharesHeld > 0 {
		p.ShareClass = "ORDINARY"
	}
	p.Employment = employment
	return nil
}

// HasRole reports whether the person holds the role
func (p *Person) HasRole(role Role) bool {
	return slices.Contains(p.Roles, role)
}

// IsActiveEmployee reports whether the person should be included on payroll
func (p *Person) IsActiveEmployee() bool {
	return p.HasRole(RoleEmployee) && p.Employment != nil && p.Employment.Status == EmploymentActive
}

// Terminate ends the employment of an employee
func (p *Person) Terminate() error {
	if !p.IsActiveEmployee() {
		return shared.InvalidState("Person is not an active employee")
	}
	p.Employment.Status = EmploymentTerminated
	p.Touch()
	p.IncrementVersion()
	return nil
}

// CheckShareCapacity verifies that a company with the given authorized share count
// can accommodate the total held shares. Zero authorized shares means unlimited.
func CheckShareCapacity(authorized, totalHeld int64) error {
	if authorized > 0 && totalHeld > authorized {
		return shared.InvalidInput("Total shares held would exceed the company's authorized shares").
			WithDetails(map[string]any{"authorized": authorized, "requested_total": totalHeld})
	}
	return nil
}
