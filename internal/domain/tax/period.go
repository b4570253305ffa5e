package tax

import (
	"fmt"
	"sort"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
)

// Period is the span a filing covers and when it falls due
type Period struct {
	Type    Type      `json:"type"`
	Start   time.Time `json:"period_start"`
	End     time.Time `json:"period_end"`
	DueDate time.Time `json:"due_date"`
	Label   string    `json:"label"`
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(t time.Time) time.Time {
	return monthStart(t.Year(), t.Month()).AddDate(0, 1, -1)
}

// fiscalStart returns the first day of the fiscal year that ends in endYear
func fiscalStart(endYear, startMonth int) time.Time {
	if startMonth == 1 {
		return monthStart(endYear, time.January)
	}
	return monthStart(endYear-1, time.Month(startMonth))
}

func validStartMonth(startMonth int) int {
	if startMonth < 1 || startMonth > 12 {
		return 1
	}
	return startMonth
}

// MonthlyPeriod returns the VAT or PAYE period for a calendar month. The
// return is due on the 15th of the following month.
func MonthlyPeriod(t Type, year, month int) (Period, error) {
	if t != TypeVAT && t != TypePAYE {
		return Period{}, shared.InvalidInput("Only VAT and PAYE are filed monthly")
	}
	if month < 1 || month > 12 {
		return Period{}, shared.InvalidInput("Month must be between 1 and 12")
	}
	start := monthStart(year, time.Month(month))
	next := start.AddDate(0, 1, 0)
	return Period{
		Type:    t,
		Start:   start,
		End:     monthEnd(start),
		DueDate: time.Date(next.Year(), next.Month(), 15, 0, 0, 0, 0, time.UTC),
		Label:   fmt.Sprintf("%s %04d-%02d", t, year, month),
	}, nil
}

// QuarterlyPeriod returns the QIT installment period for quarter 1 to 3 of
// the fiscal year ending in endYear. Installments fall due on the last day
// of the 6th, 9th and 12th months of the fiscal year.
func QuarterlyPeriod(endYear, quarter, startMonth int) (Period, error) {
	if quarter < 1 || quarter > 3 {
		return Period{}, shared.InvalidInput("QIT quarter must be 1, 2 or 3")
	}
	fy := fiscalStart(endYear, validStartMonth(startMonth))
	start := fy.AddDate(0, 3*(quarter-1), 0)
	due := monthEnd(fy.AddDate(0, 3*quarter+2, 0))
	return Period{
		Type:    TypeQIT,
		Start:   start,
		End:     start.AddDate(0, 3, -1),
		DueDate: due,
		Label:   fmt.Sprintf("QIT FY%04d Q%d", endYear, quarter),
	}, nil
}

// AnnualPeriod returns the CIT period for the fiscal year ending in endYear.
// CIT is due on the last day of the third month after the year end.
func AnnualPeriod(endYear, startMonth int) Period {
	fy := fiscalStart(endYear, validStartMonth(startMonth))
	end := fy.AddDate(1, 0, -1)
	return Period{
		Type:    TypeCIT,
		Start:   fy,
		End:     end,
		DueDate: monthEnd(monthStart(end.Year(), end.Month()).AddDate(0, 3, 0)),
		Label:   fmt.Sprintf("CIT FY%04d", endYear),
	}
}

// Calendar lists the obligations falling in a calendar year for a company
// with the given fiscal year start month
func Calendar(year, startMonth int, vatRegistered bool) []Period {
	startMonth = validStartMonth(startMonth)
	var out []Period
	for m := 1; m <= 12; m++ {
		// returns due in this year belong to the previous month
		anchor := monthStart(year, time.Month(m)).AddDate(0, -1, 0)
		if vatRegistered {
			p, _ := MonthlyPeriod(TypeVAT, anchor.Year(), int(anchor.Month()))
			out = append(out, p)
		}
		p, _ := MonthlyPeriod(TypePAYE, anchor.Year(), int(anchor.Month()))
		out = append(out, p)
	}
	for _, endYear := range []int{year, year + 1} {
		for q := 1; q <= 3; q++ {
			p, _ := QuarterlyPeriod(endYear, q, startMonth)
			if p.DueDate.Year() == year {
				out = append(out, p)
			}
		}
	}
	for _, endYear := range []int{year - 1, year} {
		if p := AnnualPeriod(endYear, startMonth); p.DueDate.Year() == year {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}
