package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle of a payroll run
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusPaid     Status = "PAID"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusApproved || s == StatusPaid
}

// Employee is the payroll input for one person
type Employee struct {
	PersonID    uuid.UUID
	FullName    string
	RSSBNumber  string
	BaseSalary  decimal.Decimal
	Allowances  decimal.Decimal
	BankAccount string
}

// Payslip is one employee's pay for a run
type Payslip struct {
	ID          uuid.UUID
	RunID       uuid.UUID
	CompanyID   uuid.UUID
	PersonID    uuid.UUID
	FullName    string
	RSSBNumber  string
	BankAccount string
	BaseSalary  decimal.Decimal
	Allowances  decimal.Decimal
	Breakdown
}

// Totals aggregates the payslips of a run
type Totals struct {
	Gross        decimal.Decimal `json:"gross"`
	PAYE         decimal.Decimal `json:"paye"`
	RSSBEmployee decimal.Decimal `json:"rssb_employee"`
	RSSBEmployer decimal.Decimal `json:"rssb_employer"`
	CBHI         decimal.Decimal `json:"cbhi"`
	Net          decimal.Decimal `json:"net"`
	EmployerCost decimal.Decimal `json:"employer_cost"`
}

// Run is the monthly payroll of a company
type Run struct {
	shared.CompanyAggregateRoot
	Year       int
	Month      int
	Status     Status
	Totals     Totals
	Payslips   []Payslip
	ApprovedBy *uuid.UUID
	ApprovedAt *time.Time
	PaidAt     *time.Time
}

// NewRun creates a draft payroll run and computes the payslips
func NewRun(companyID, createdBy uuid.UUID, year, month int, employees []Employee, calc *Calculator) (*Run, error) {
	if year < 2000 || year > 2200 {
		return nil, shared.InvalidInput("Year must be between 2000 and 2200")
	}
	if month < 1 || month > 12 {
		return nil, shared.InvalidInput("Month must be between 1 and 12")
	}
	r := &Run{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Year:                 year,
		Month:                month,
		Status:               StatusDraft,
	}
	if err := r.compute(employees, calc); err != nil {
		return nil, err
	}
	return r, nil
}

// Recalculate rebuilds the payslips of a draft run
func (r *Run) Recalculate(employees []Employee, calc *Calculator) error {
	if r.Status != StatusDraft {
		return shared.InvalidState("Only draft payroll runs can be recalculated")
	}
	if err := r.compute(employees, calc); err != nil {
		return err
	}
	r.Touch()
	r.IncrementVersion()
	return nil
}

func (r *Run) compute(employees []Employee, calc *Calculator) error {
	if len(employees) == 0 {
		return shared.InvalidState("No active employees to pay")
	}
	slips := make([]Payslip, 0, len(employees))
	for _, e := range employees {
		if e.BaseSalary.IsNegative() || e.Allowances.IsNegative() {
			return shared.InvalidInput("Salary and allowances cannot be negative").
				WithDetails(map[string]any{"person_id": e.PersonID.String()})
		}
		b, err := calc.Calculate(e.BaseSalary.Add(e.Allowances))
		if err != nil {
			return err
		}
		slips = append(slips, Payslip{
			ID:          uuid.New(),
			RunID:       r.ID,
			CompanyID:   r.CompanyID,
			PersonID:    e.PersonID,
			FullName:    e.FullName,
			RSSBNumber:  e.RSSBNumber,
			BankAccount: e.BankAccount,
			BaseSalary:  e.BaseSalary,
			Allowances:  e.Allowances,
			Breakdown:   b,
		})
	}
	r.Payslips = slips
	r.Totals = SumPayslips(slips)
	return nil
}

// SumPayslips totals a set of payslips
func SumPayslips(slips []Payslip) Totals {
	t := Totals{
		Gross: decimal.Zero, PAYE: decimal.Zero, RSSBEmployee: decimal.Zero, RSSBEmployer: decimal.Zero,
		CBHI: decimal.Zero, Net: decimal.Zero, EmployerCost: decimal.Zero,
	}
	for _, s := range slips {
		t.Gross = t.Gross.Add(s.Gross)
		t.PAYE = t.PAYE.Add(s.PAYE)
		t.RSSBEmployee = t.RSSBEmployee.Add(s.RSSBEmployee())
		t.RSSBEmployer = t.RSSBEmployer.Add(s.RSSBEmployer())
		t.CBHI = t.CBHI.Add(s.CBHI)
		t.Net = t.Net.Add(s.NetPay)
		t.EmployerCost = t.EmployerCost.Add(s.EmployerCost)
	}
	return t
}

// Approve locks the run for payment
func (r *Run) Approve(by uuid.UUID, now time.Time) error {
	if r.Status != StatusDraft {
		return shared.InvalidState("Only draft payroll runs can be approved")
	}
	r.Status = StatusApproved
	r.ApprovedBy = &by
	r.ApprovedAt = &now
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewPayrollApprovedEvent(r))
	return nil
}

// MarkPaid completes an approved run
func (r *Run) MarkPaid(now time.Time) error {
	if r.Status != StatusApproved {
		return shared.InvalidState("Only approved payroll runs can be marked paid")
	}
	r.Status = StatusPaid
	r.PaidAt = &now
	r.Touch()
	r.IncrementVersion()
	return nil
}

// CanDelete reports whether the run can be deleted
func (r *Run) CanDelete() bool {
	return r.Status == StatusDraft
}

// Period returns the first and last day of the run's month
func (r *Run) Period() (time.Time, time.Time) {
	start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
