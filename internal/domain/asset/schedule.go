package asset

import (
	"github.com/shopspring/decimal"
)

// ScheduleRow is one year of the depreciation schedule
type ScheduleRow struct {
	Year         int             `json:"year"`
	Opening      decimal.Decimal `json:"opening_value"`
	Depreciation decimal.Decimal `json:"depreciation"`
	Accumulated  decimal.Decimal `json:"accumulated"`
	Closing      decimal.Decimal `json:"closing_value"`
}

var hundred = decimal.NewFromInt(100)

// firstYearFraction returns the share of the first calendar year the asset was in service
func (a *FixedAsset) firstYearFraction() decimal.Decimal {
	if !a.ProrateFirstYear {
		return decimal.NewFromInt(1)
	}
	months := 13 - int(a.AcquisitionDate.Month())
	return decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
}

// Schedule returns the full depreciation schedule by calendar year
func (a *FixedAsset) Schedule() []ScheduleRow {
	if a.UsefulLifeYears < 1 || !a.Cost.GreaterThan(a.SalvageValue) {
		return nil
	}
	if a.Method == MethodDecliningBalance {
		return a.decliningBalance()
	}
	return a.straightLine()
}

func (a *FixedAsset) rowCount() int {
	n := a.UsefulLifeYears
	if a.ProrateFirstYear && a.AcquisitionDate.Month() != 1 {
		n++
	}
	return n
}

func (a *FixedAsset) straightLine() []ScheduleRow {
	annual := a.Cost.Sub(a.SalvageValue).Div(decimal.NewFromInt(int64(a.UsefulLifeYears)))
	return a.build(func(decimal.Decimal) decimal.Decimal { return annual })
}

func (a *FixedAsset) decliningBalance() []ScheduleRow {
	if !a.Rate.IsPositive() {
		return nil
	}
	rate := a.Rate.Div(hundred)
	return a.build(func(opening decimal.Decimal) decimal.Decimal { return opening.Mul(rate) })
}

// build walks the years from cost down to salvage. The last row of the
// useful life, or any row that would cross salvage, writes down to salvage.
func (a *FixedAsset) build(charge func(opening decimal.Decimal) decimal.Decimal) []ScheduleRow {
	n := a.rowCount()
	rows := make([]ScheduleRow, 0, n)
	opening, accumulated := a.Cost, decimal.Zero
	for i := 0; i < n; i++ {
		dep := charge(opening)
		if i == 0 {
			dep = dep.Mul(a.firstYearFraction())
		}
		dep = a.Currency.Round(dep)
		if i == n-1 || opening.Sub(dep).LessThan(a.SalvageValue) {
			dep = opening.Sub(a.SalvageValue)
		}
		accumulated = accumulated.Add(dep)
		closing := opening.Sub(dep)
		rows = append(rows, ScheduleRow{
			Year:         a.AcquisitionDate.Year() + i,
			Opening:      opening,
			Depreciation: dep,
			Accumulated:  accumulated,
			Closing:      closing,
		})
		opening = closing
		if closing.Equal(a.SalvageValue) {
			break
		}
	}
	return rows
}

// DepreciationForYear returns the charge for a calendar year, zero outside
// the schedule or after disposal
func (a *FixedAsset) DepreciationForYear(year int) decimal.Decimal {
	if !a.CanDepreciateIn(year) {
		return decimal.Zero
	}
	for _, r := range a.Schedule() {
		if r.Year == year {
			return r.Depreciation
		}
	}
	return decimal.Zero
}

// BookValueAt returns the closing value at the end of the calendar year
func (a *FixedAsset) BookValueAt(year int) decimal.Decimal {
	if year < a.AcquisitionDate.Year() {
		return a.Cost
	}
	value := a.Cost
	for _, r := range a.Schedule() {
		if r.Year > year {
			break
		}
		value = r.Closing
	}
	return value
}
