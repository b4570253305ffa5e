package payroll

import (
	"sort"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Band is a PAYE bracket. Income above From (and up to the next band's
// From) is taxed at Rate.
type Band struct {
	From decimal.Decimal
	Rate decimal.Decimal
}

// Rates holds statutory payroll rates as fractions (0.06 for 6%)
type Rates struct {
	PAYEBands          []Band
	PensionEmployee    decimal.Decimal
	PensionEmployer    decimal.Decimal
	MaternityEmployee  decimal.Decimal
	MaternityEmployer  decimal.Decimal
	OccupationalHazard decimal.Decimal
	CBHI               decimal.Decimal
}

// DefaultRates returns the current Rwandan statutory rates
func DefaultRates() Rates {
	d := decimal.RequireFromString
	return Rates{
		PAYEBands: []Band{
			{From: decimal.Zero, Rate: decimal.Zero},
			{From: d("60000"), Rate: d("0.10")},
			{From: d("100000"), Rate: d("0.20")},
			{From: d("200000"), Rate: d("0.30")},
		},
		PensionEmployee:    d("0.06"),
		PensionEmployer:    d("0.06"),
		MaternityEmployee:  d("0.003"),
		MaternityEmployer:  d("0.003"),
		OccupationalHazard: d("0.02"),
		CBHI:               d("0.005"),
	}
}

// Validate checks that the rates are usable
func (r Rates) Validate() error {
	if len(r.PAYEBands) == 0 {
		return shared.InvalidInput("At least one PAYE band is required")
	}
	for _, b := range r.PAYEBands {
		if b.From.IsNegative() || b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return shared.InvalidInput("PAYE bands need a non-negative threshold and a rate between 0 and 1")
		}
	}
	for _, rate := range []decimal.Decimal{r.PensionEmployee, r.PensionEmployer, r.MaternityEmployee, r.MaternityEmployer, r.OccupationalHazard, r.CBHI} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return shared.InvalidInput("Contribution rates must be between 0 and 1")
		}
	}
	return nil
}

// Breakdown is the result of a payroll calculation for one employee
type Breakdown struct {
	Gross              decimal.Decimal `json:"gross"`
	PAYE               decimal.Decimal `json:"paye"`
	PensionEmployee    decimal.Decimal `json:"pension_employee"`
	PensionEmployer    decimal.Decimal `json:"pension_employer"`
	MaternityEmployee  decimal.Decimal `json:"maternity_employee"`
	MaternityEmployer  decimal.Decimal `json:"maternity_employer"`
	OccupationalHazard decimal.Decimal `json:"occupational_hazard"`
	CBHI               decimal.Decimal `json:"cbhi"`
	NetPay             decimal.Decimal `json:"net_pay"`
	EmployerCost       decimal.Decimal `json:"employer_cost"`
}

// TotalDeductions returns everything withheld from the employee
func (b Breakdown) TotalDeductions() decimal.Decimal {
	return b.PAYE.Add(b.PensionEmployee).Add(b.MaternityEmployee).Add(b.CBHI)
}

// RSSBEmployee returns the employee share of RSSB contributions
func (b Breakdown) RSSBEmployee() decimal.Decimal {
	return b.PensionEmployee.Add(b.MaternityEmployee)
}

// RSSBEmployer returns the employer share of RSSB contributions
func (b Breakdown) RSSBEmployer() decimal.Decimal {
	return b.PensionEmployer.Add(b.MaternityEmployer).Add(b.OccupationalHazard)
}

// Calculator computes statutory deductions from gross monthly pay
type Calculator struct {
	rates Rates
}

// NewCalculator creates a calculator, sorting the PAYE bands by threshold
func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	bands := append([]Band(nil), rates.PAYEBands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].From.LessThan(bands[j].From) })
	rates.PAYEBands = bands
	return &Calculator{rates: rates}, nil
}

// Rates returns the rates the calculator was built with
func (c *Calculator) Rates() Rates {
	return c.rates
}

// PAYE computes progressive income tax on a monthly gross amount
func (c *Calculator) PAYE(gross decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	bands := c.rates.PAYEBands
	for i, b := range bands {
		if !gross.GreaterThan(b.From) {
			break
		}
		upper := gross
		if i+1 < len(bands) && bands[i+1].From.LessThan(gross) {
			upper = bands[i+1].From
		}
		tax = tax.Add(upper.Sub(b.From).Mul(b.Rate))
	}
	return round(tax)
}

// Calculate computes the full breakdown for a monthly gross amount
func (c *Calculator) Calculate(gross decimal.Decimal) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, shared.InvalidInput("Gross pay cannot be negative")
	}
	gross = round(gross)
	r := c.rates
	b := Breakdown{
		Gross:              gross,
		PAYE:               c.PAYE(gross),
		PensionEmployee:    round(gross.Mul(r.PensionEmployee)),
		PensionEmployer:    round(gross.Mul(r.PensionEmployer)),
		MaternityEmployee:  round(gross.Mul(r.MaternityEmployee)),
		MaternityEmployer:  round(gross.Mul(r.MaternityEmployer)),
		OccupationalHazard: round(gross.Mul(r.OccupationalHazard)),
	}
	netBeforeCBHI := gross.Sub(b.PAYE).Sub(b.PensionEmployee).Sub(b.MaternityEmployee)
	b.CBHI = round(netBeforeCBHI.Mul(r.CBHI))
	b.NetPay = netBeforeCBHI.Sub(b.CBHI)
	b.EmployerCost = gross.Add(b.RSSBEmployer())
	return b, nil
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
