package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/meeting"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/rwbiz/backend/internal/infrastructure/cache"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardTTL   = 60 * time.Second
	unlockHorizon  = 90 * 24 * time.Hour
	maxNextUnlocks = 5
	pageSize       = 100
)

var hundred = decimal.NewFromInt(100)

// Sources are the repositories the reports read from
type Sources struct {
	Companies     company.CompanyRepository
	Persons       person.PersonRepository
	Documents     document.DocumentRepository
	Meetings      meeting.MeetingRepository
	Capital       capital.LockedCapitalRepository
	Declarations  dividend.DeclarationRepository
	Distributions dividend.DistributionRepository
	Invoices      billing.InvoiceRepository
	Payroll       payroll.RunRepository
	Filings       tax.FilingRepository
	Expenses      expense.ExpenseRepository
}

// ReportService builds the dashboard and the exportable reports
type ReportService struct {
	src     Sources
	cache   cache.Store
	printer Printer
	sheets  SheetWriter
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	src Sources,
	store cache.Store,
	printer Printer,
	sheets SheetWriter,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		src:     src,
		cache:   store,
		printer: printer,
		sheets:  sheets,
		logger:  logger,
		now:     time.Now,
	}
}

func dashboardKey(companyID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", companyID)
}

// Dashboard returns the company overview, served from cache when fresh
func (s *ReportService) Dashboard(ctx context.Context, actor access.Actor) (*DashboardResponse, error) {
	key := dashboardKey(actor.CompanyID)
	if s.cache != nil {
		var cached DashboardResponse
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		} else if err != nil {
			logger.Enrich(ctx, s.logger).Warn("Dashboard cache read failed", zap.Error(err))
		}
	}

	d, err := s.buildDashboard(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, d, dashboardTTL); err != nil {
			logger.Enrich(ctx, s.logger).Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return d, nil
}

// Invalidate drops the cached dashboard of a company
func (s *ReportService) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, dashboardKey(companyID))
}

func (s *ReportService) buildDashboard(ctx context.Context, companyID uuid.UUID) (*DashboardResponse, error) {
	now := s.now()
	comp, err := s.src.Companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	d := &DashboardResponse{
		CompanyID:   companyID,
		Currency:    comp.BaseCurrency.OrDefault().String(),
		GeneratedAt: now,
		Persons:     make(map[string]int64),
	}

	byRole, err := s.src.Persons.CountByRole(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for role, n := range byRole {
		d.Persons[string(role)] = n
	}
	employees, err := s.src.Persons.FindActiveEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}
	d.Employees = len(employees)

	if d.Documents, err = s.src.Documents.Count(ctx, companyID); err != nil {
		return nil, err
	}
	if d.UpcomingMeetings, err = s.src.Meetings.CountUpcoming(ctx, companyID, now); err != nil {
		return nil, err
	}

	totals, err := s.src.Capital.TotalsByStatus(ctx, companyID)
	if err != nil {
		return nil, err
	}
	d.Capital.Locked = []CurrencyTotal{}
	for _, t := range totals {
		if t.Status == capital.StatusLocked {
			d.Capital.Locked = append(d.Capital.Locked, CurrencyTotal{Currency: t.Currency, Count: t.Count, Amount: t.Amount})
		}
	}
	unlocks, err := s.src.Capital.FindUnlockingBetween(ctx, companyID, now, now.Add(unlockHorizon))
	if err != nil {
		return nil, err
	}
	sort.Slice(unlocks, func(i, j int) bool { return unlocks[i].UnlockDate.Before(unlocks[j].UnlockDate) })
	d.Capital.NextUnlocks = []UpcomingUnlock{}
	for i := range unlocks {
		if i == maxNextUnlocks {
			break
		}
		lc := unlocks[i]
		d.Capital.NextUnlocks = append(d.Capital.NextUnlocks, UpcomingUnlock{
			ID:         lc.ID,
			InvestorID: lc.InvestorID,
			Amount:     lc.Amount,
			Currency:   lc.Currency.String(),
			UnlockDate: lc.UnlockDate,
		})
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	d.Dividends.Year = now.Year()
	if d.Dividends.DeclaredYTD, err = s.src.Declarations.SumDeclaredBetween(ctx, companyID, yearStart, now); err != nil {
		return nil, err
	}

	rec, err := s.src.Invoices.Receivables(ctx, companyID)
	if err != nil {
		return nil, err
	}
	d.Receivables = ReceivablesCard{Outstanding: rec.Outstanding, OverdueCount: rec.OverdueCount, OverdueTotal: rec.OverdueTotal}

	if d.Tax.OpenFilings, d.Tax.NextDueDate, err = s.src.Filings.CountOpen(ctx, companyID); err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cats, err := s.src.Expenses.SumByCategory(ctx, companyID, monthStart, now, expense.StatusApproved)
	if err != nil {
		return nil, err
	}
	d.Expenses.Month = monthStart.Format("2006-01")
	for _, c := range cats {
		d.Expenses.Count += c.Count
		d.Expenses.Total = d.Expenses.Total.Add(c.Amount)
	}
	return d, nil
}

// ShareholderRegister returns the cap table with locked capital per shareholder
func (s *ReportService) ShareholderRegister(ctx context.Context, actor access.Actor) (*ShareholderRegisterResponse, error) {
	comp, err := s.src.Companies.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	holders, err := s.src.Persons.FindShareholders(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	locked, err := s.src.Capital.TotalsByInvestor(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := &ShareholderRegisterResponse{
		CompanyName:      comp.Name,
		Currency:         comp.BaseCurrency.OrDefault().String(),
		AuthorizedShares: comp.AuthorizedShares,
		Shareholders:     make([]ShareholderRow, 0, len(holders)),
	}
	for _, p := range holders {
		resp.IssuedShares += p.SharesHeld
	}
	for _, p := range holders {
		pct := decimal.Zero
		if resp.IssuedShares > 0 {
			pct = decimal.NewFromInt(p.SharesHeld).Div(decimal.NewFromInt(resp.IssuedShares)).Mul(hundred).Round(4)
		}
		row := ShareholderRow{
			PersonID:      p.ID,
			FullName:      p.FullName,
			NationalID:    p.NationalID,
			ShareClass:    p.ShareClass,
			Shares:        p.SharesHeld,
			Percentage:    pct,
			LockedCapital: locked[p.ID],
		}
		resp.TotalLocked = resp.TotalLocked.Add(row.LockedCapital)
		resp.Shareholders = append(resp.Shareholders, row)
	}
	if comp.AuthorizedShares > resp.IssuedShares {
		resp.UnissuedShares = comp.AuthorizedShares - resp.IssuedShares
	}
	return resp, nil
}

// CapitalReport lists every lock with its return figures and totals per status
func (s *ReportService) CapitalReport(ctx context.Context, actor access.Actor) (*CapitalReportResponse, error) {
	now := s.now()
	var locks []capital.LockedCapital
	for page := 1; ; page++ {
		batch, total, err := s.src.Capital.FindAll(ctx, actor.CompanyID, capital.Filter{
			Filter: shared.Filter{Page: page, PageSize: pageSize, OrderBy: "lock_date", OrderDir: "asc"},
		})
		if err != nil {
			return nil, err
		}
		locks = append(locks, batch...)
		if len(batch) == 0 || int64(len(locks)) >= total {
			break
		}
	}

	names, err := s.personNames(ctx, actor.CompanyID, locks)
	if err != nil {
		return nil, err
	}
	totals, err := s.src.Capital.TotalsByStatus(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := &CapitalReportResponse{
		AsOf:   now,
		Totals: make([]StatusTotal, 0, len(totals)),
		Rows:   make([]CapitalRow, 0, len(locks)),
	}
	for _, t := range totals {
		resp.Totals = append(resp.Totals, StatusTotal{Status: string(t.Status), Currency: t.Currency, Count: t.Count, Amount: t.Amount})
	}
	for i := range locks {
		lc := &locks[i]
		roi := lc.ComputeROI(now)
		resp.Rows = append(resp.Rows, CapitalRow{
			ID:                 lc.ID,
			InvestorID:         lc.InvestorID,
			InvestorName:       names[lc.InvestorID],
			Amount:             lc.Amount,
			Currency:           lc.Currency.String(),
			LockDate:           lc.LockDate,
			UnlockDate:         lc.UnlockDate,
			LockPeriodMonths:   lc.LockPeriodMonths,
			AnnualInterestRate: lc.AnnualInterestRate,
			Status:             string(lc.Status),
			ExpectedReturn:     roi.ExpectedReturn,
			AccruedInterest:    roi.AccruedInterest,
		})
	}
	return resp, nil
}

func (s *ReportService) personNames(ctx context.Context, companyID uuid.UUID, locks []capital.LockedCapital) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(locks) == 0 {
		return names, nil
	}
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(locks))
	for _, lc := range locks {
		if !seen[lc.InvestorID] {
			seen[lc.InvestorID] = true
			ids = append(ids, lc.InvestorID)
		}
	}
	persons, err := s.src.Persons.FindByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		names[p.ID] = p.FullName
	}
	return names, nil
}

// DividendReport lists the payouts of every declaration in a fiscal year.
// Draft and cancelled declarations are left out.
func (s *ReportService) DividendReport(ctx context.Context, actor access.Actor, year int) (*DividendReportResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, shared.InvalidInput("Year must be between 2000 and 2200")
	}
	decls, _, err := s.src.Declarations.FindAll(ctx, actor.CompanyID, dividend.Filter{
		Filter:     shared.Filter{Page: 1, PageSize: pageSize, OrderBy: "declaration_date", OrderDir: "asc"},
		FiscalYear: year,
	})
	if err != nil {
		return nil, err
	}

	resp := &DividendReportResponse{FiscalYear: year, Rows: []DividendRow{}}
	for _, d := range decls {
		if d.Status != dividend.StatusDeclared && d.Status != dividend.StatusDistributed {
			continue
		}
		resp.Declarations++
		resp.DeclaredTotal = resp.DeclaredTotal.Add(d.TotalAmount)

		dists, err := s.src.Distributions.FindByDeclaration(ctx, actor.CompanyID, d.ID)
		if err != nil {
			return nil, err
		}
		for _, x := range dists {
			resp.GrossTotal = resp.GrossTotal.Add(x.GrossAmount)
			resp.WithholdingTax = resp.WithholdingTax.Add(x.WithholdingTax)
			resp.NetTotal = resp.NetTotal.Add(x.NetAmount)
			resp.Rows = append(resp.Rows, DividendRow{
				DeclarationID:   d.ID,
				DeclarationDate: d.DeclarationDate,
				PersonID:        x.PersonID,
				PersonName:      x.PersonName,
				Shares:          x.Shares,
				Percentage:      x.OwnershipPercentage,
				Gross:           x.GrossAmount,
				WithholdingTax:  x.WithholdingTax,
				Net:             x.NetAmount,
				Currency:        x.Currency.String(),
				Status:          string(x.Status),
			})
		}
	}
	return resp, nil
}

// PayrollReport returns the payslips of one month's run
func (s *ReportService) PayrollReport(ctx context.Context, actor access.Actor, year, month int) (*PayrollReportResponse, error) {
	if month < 1 || month > 12 {
		return nil, shared.InvalidInput("Month must be between 1 and 12")
	}
	full, err := s.src.Payroll.FindByPeriod(ctx, actor.CompanyID, year, month)
	if err != nil {
		return nil, err
	}

	resp := &PayrollReportResponse{
		RunID:  full.ID,
		Year:   full.Year,
		Month:  full.Month,
		Status: string(full.Status),
		Totals: PayrollRow{
			FullName:     "Total",
			Gross:        full.Totals.Gross,
			PAYE:         full.Totals.PAYE,
			RSSBEmployee: full.Totals.RSSBEmployee,
			RSSBEmployer: full.Totals.RSSBEmployer,
			CBHI:         full.Totals.CBHI,
			Net:          full.Totals.Net,
			EmployerCost: full.Totals.EmployerCost,
		},
		Rows: make([]PayrollRow, 0, len(full.Payslips)),
	}
	for _, p := range full.Payslips {
		resp.Rows = append(resp.Rows, PayrollRow{
			PersonID:     p.PersonID,
			FullName:     p.FullName,
			RSSBNumber:   p.RSSBNumber,
			Gross:        p.Gross,
			PAYE:         p.PAYE,
			RSSBEmployee: p.PensionEmployee.Add(p.MaternityEmployee),
			RSSBEmployer: p.PensionEmployer.Add(p.MaternityEmployer).Add(p.OccupationalHazard),
			CBHI:         p.CBHI,
			Net:          p.NetPay,
			EmployerCost: p.EmployerCost,
		})
	}
	return resp, nil
}

// TaxSummary returns the filings of a year with totals per tax type
func (s *ReportService) TaxSummary(ctx context.Context, actor access.Actor, year int) (*TaxSummaryResponse, error) {
	if year < 2000 || year > 2200 {
		return nil, shared.InvalidInput("Year must be between 2000 and 2200")
	}
	filings, _, err := s.src.Filings.FindAll(ctx, actor.CompanyID, tax.Filter{
		Filter: shared.Filter{Page: 1, PageSize: pageSize, OrderBy: "period_start", OrderDir: "asc"},
		Year:   year,
	})
	if err != nil {
		return nil, err
	}

	resp := &TaxSummaryResponse{Year: year, Rows: make([]TaxRow, 0, len(filings))}
	byType := make(map[tax.Type]*TaxTypeTotal)
	for _, f := range filings {
		resp.Rows = append(resp.Rows, TaxRow{
			ID:            f.ID,
			Type:          string(f.Type),
			PeriodStart:   f.PeriodStart,
			PeriodEnd:     f.PeriodEnd,
			DueDate:       f.DueDate,
			TaxableAmount: f.TaxableAmount,
			TaxAmount:     f.TaxAmount,
			AmountDue:     f.AmountDue,
			Status:        string(f.Status),
		})
		t, ok := byType[f.Type]
		if !ok {
			t = &TaxTypeTotal{Type: string(f.Type)}
			byType[f.Type] = t
		}
		t.Filings++
		t.TaxAmount = t.TaxAmount.Add(f.TaxAmount)
		t.AmountDue = t.AmountDue.Add(f.AmountDue)
		if f.Status == tax.StatusPaid {
			t.Paid = t.Paid.Add(f.AmountDue)
		}
	}
	for _, typ := range []tax.Type{tax.TypeVAT, tax.TypePAYE, tax.TypeCIT, tax.TypeQIT} {
		if t, ok := byType[typ]; ok {
			resp.Totals = append(resp.Totals, *t)
		}
	}
	if resp.Totals == nil {
		resp.Totals = []TaxTypeTotal{}
	}
	return resp, nil
}
