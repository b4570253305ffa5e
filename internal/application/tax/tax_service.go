package tax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/asset"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/notification"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/tax"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const calendarPageSize = 100

// Reminder addresses a notification to company roles at most once per entity since a point in time
type Reminder interface {
	NotifyRolesOnce(ctx context.Context, companyID uuid.UUID, roles []company.Role, draft notification.Draft, since time.Time) (int, error)
}

// Sources bundles the repositories tax figures are derived from
type Sources struct {
	Invoices billing.InvoiceRepository
	Expenses expense.ExpenseRepository
	Payroll  payroll.RunRepository
	Assets   asset.AssetRepository
}

// TaxService computes and tracks RRA tax returns
type TaxService struct {
	filingRepo  tax.FilingRepository
	companyRepo company.CompanyRepository
	sources     Sources
	rates       tax.Rates
	reminder    Reminder
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// RatesFromConfig converts configured tax rates, keeping defaults for unset values
func RatesFromConfig(cfg config.TaxConfig) tax.Rates {
	rates := tax.DefaultRates()
	if cfg.VATRate > 0 {
		rates.VAT = decimal.NewFromFloat(cfg.VATRate)
	}
	if cfg.CITRate > 0 {
		rates.CIT = decimal.NewFromFloat(cfg.CITRate)
	}
	if cfg.QITShare > 0 {
		rates.QITShare = decimal.NewFromFloat(cfg.QITShare)
	}
	return rates
}

// NewTaxService creates a new tax service
func NewTaxService(
	filingRepo tax.FilingRepository,
	companyRepo company.CompanyRepository,
	sources Sources,
	cfg config.TaxConfig,
	reminder Reminder,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TaxService {
	return &TaxService{
		filingRepo:  filingRepo,
		companyRepo: companyRepo,
		sources:     sources,
		rates:       RatesFromConfig(cfg),
		reminder:    reminder,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Compute creates a draft filing for a period from the company's books
func (s *TaxService) Compute(ctx context.Context, actor access.Actor, req ComputeRequest) (*FilingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	comp, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	period, err := periodFor(comp, req)
	if err != nil {
		return nil, err
	}
	exists, err := s.filingRepo.ExistsForPeriod(ctx, actor.CompanyID, period.Type, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateFiling(period)
	}
	result, err := s.compute(ctx, comp, period)
	if err != nil {
		return nil, err
	}
	filing, err := tax.NewFiling(actor.CompanyID, actor.UserID, period, comp.BaseCurrency, result)
	if err != nil {
		return nil, err
	}
	if err := s.filingRepo.Save(ctx, filing); err != nil {
		// a concurrent Compute inserted the same period first
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, duplicateFiling(period)
		}
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Tax filing computed",
		zap.String("filing_id", filing.ID.String()),
		zap.String("type", string(filing.Type)),
		zap.String("period", period.Label),
		zap.String("amount_due", filing.AmountDue.String()),
	)
	resp := ToFilingResponse(filing)
	return &resp, nil
}

func duplicateFiling(p tax.Period) error {
	return shared.NewDomainError(shared.CodeAlreadyExists, "A filing already exists for this period").
		WithDetails(map[string]any{"type": string(p.Type), "period": p.Label})
}

// Recompute refreshes the amounts of a draft filing
func (s *TaxService) Recompute(ctx context.Context, actor access.Actor, id uuid.UUID) (*FilingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	filing, err := s.filingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	comp, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	result, err := s.compute(ctx, comp, tax.Period{
		Type:    filing.Type,
		Start:   filing.PeriodStart,
		End:     filing.PeriodEnd,
		DueDate: filing.DueDate,
	})
	if err != nil {
		return nil, err
	}
	if err := filing.Recompute(result); err != nil {
		return nil, err
	}
	if err := s.filingRepo.Save(ctx, filing); err != nil {
		return nil, err
	}
	resp := ToFilingResponse(filing)
	return &resp, nil
}

// Get returns a filing
func (s *TaxService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*FilingResponse, error) {
	filing, err := s.filingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToFilingResponse(filing)
	return &resp, nil
}

// List lists filings
func (s *TaxService) List(ctx context.Context, actor access.Actor, req ListFilingsRequest) ([]FilingResponse, int64, error) {
	filings, total, err := s.filingRepo.FindAll(ctx, actor.CompanyID, tax.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
		Type:   tax.Type(req.Type),
		Status: tax.Status(req.Status),
		Year:   req.Year,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]FilingResponse, len(filings))
	for i := range filings {
		out[i] = ToFilingResponse(&filings[i])
	}
	return out, total, nil
}

// File records that a return was submitted to RRA
func (s *TaxService) File(ctx context.Context, actor access.Actor, id uuid.UUID, req FileRequest) (*FilingResponse, error) {
	return s.mutate(ctx, actor, id, "Tax filing submitted", func(f *tax.Filing) error {
		return f.File(req.Reference, s.now())
	})
}

// MarkPaid records that a return was settled
func (s *TaxService) MarkPaid(ctx context.Context, actor access.Actor, id uuid.UUID, req PayRequest) (*FilingResponse, error) {
	return s.mutate(ctx, actor, id, "Tax filing paid", func(f *tax.Filing) error {
		return f.MarkPaid(req.Reference, s.now())
	})
}

func (s *TaxService) mutate(ctx context.Context, actor access.Actor, id uuid.UUID, msg string, fn func(*tax.Filing) error) (*FilingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	filing, err := s.filingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(filing); err != nil {
		return nil, err
	}
	if err := s.filingRepo.Save(ctx, filing); err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info(msg,
		zap.String("filing_id", filing.ID.String()),
		zap.String("status", string(filing.Status)),
	)
	resp := ToFilingResponse(filing)
	return &resp, nil
}

// Delete removes a draft filing
func (s *TaxService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	filing, err := s.filingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !filing.CanDelete() {
		return shared.InvalidState("Only draft filings can be deleted")
	}
	return s.filingRepo.Delete(ctx, actor.CompanyID, id)
}

// Calendar lists the obligations falling due in a calendar year, with the
// filing already recorded for each where there is one
func (s *TaxService) Calendar(ctx context.Context, actor access.Actor, year int) ([]CalendarEntry, error) {
	comp, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	type key struct {
		t     tax.Type
		start time.Time
	}
	known := make(map[key]*tax.Filing)
	// obligations due in a year cover periods starting in it or the year before
	for _, y := range []int{year - 1, year} {
		filings, _, err := s.filingRepo.FindAll(ctx, actor.CompanyID, tax.Filter{
			Filter: shared.Filter{Page: 1, PageSize: calendarPageSize},
			Year:   y,
		})
		if err != nil {
			return nil, err
		}
		for i := range filings {
			f := &filings[i]
			known[key{f.Type, f.PeriodStart.UTC()}] = f
		}
	}

	periods := tax.Calendar(year, comp.FiscalYearStartMonth, comp.VATRegistered)
	out := make([]CalendarEntry, len(periods))
	for i, p := range periods {
		out[i] = CalendarEntry{Period: p}
		if f, ok := known[key{p.Type, p.Start}]; ok {
			id := f.ID
			out[i].FilingID = &id
			out[i].Status = string(f.Status)
		}
	}
	return out, nil
}

// MarkOverdue flags unpaid filings past their due date across companies
func (s *TaxService) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	due, err := s.filingRepo.FindOverdueCandidates(ctx, asOf, limit)
	if err != nil {
		return 0, err
	}
	log := logger.Enrich(ctx, s.logger)
	marked := 0
	for i := range due {
		f := &due[i]
		if !f.MarkOverdue(asOf) {
			continue
		}
		if err := s.filingRepo.Save(ctx, f); err != nil {
			log.Warn("Failed to mark tax filing overdue",
				zap.String("filing_id", f.ID.String()),
				zap.Error(err))
			continue
		}
		access.PublishEvents(ctx, s.publisher, s.logger, f)
		marked++
	}
	if marked > 0 {
		log.Info("Tax filings marked overdue", zap.Int("count", marked))
	}
	return marked, nil
}

// RemindDue notifies finance roles about unpaid filings due within the window.
// Each filing is reminded once per window.
func (s *TaxService) RemindDue(ctx context.Context, asOf time.Time, window time.Duration, limit int) (int, error) {
	if s.reminder == nil {
		return 0, nil
	}
	due, err := s.filingRepo.FindDueBetween(ctx, asOf, asOf.Add(window), limit)
	if err != nil {
		return 0, err
	}
	log := logger.Enrich(ctx, s.logger)
	sent := 0
	for i := range due {
		f := &due[i]
		id := f.ID
		days := f.DaysUntilDue(asOf)
		n, err := s.reminder.NotifyRolesOnce(ctx, f.CompanyID,
			[]company.Role{company.RoleOwner, company.RoleAdmin, company.RoleAccountant},
			notification.Draft{
				Type:       notification.TypeTaxDueSoon,
				Title:      fmt.Sprintf("%s return due in %d days", f.Type, days),
				Message:    fmt.Sprintf("The %s return for %s is due on %s with %s %s to pay.", f.Type, f.PeriodStart.Format("2006-01"), f.DueDate.Format("2006-01-02"), f.AmountDue.String(), f.Currency),
				EntityType: tax.AggregateTypeFiling,
				EntityID:   &id,
				Priority:   notification.PriorityNormal,
			}, asOf.Add(-window))
		if err != nil {
			log.Warn("Failed to send tax reminder",
				zap.String("filing_id", f.ID.String()),
				zap.Error(err))
			continue
		}
		sent += n
	}
	return sent, nil
}

func periodFor(comp *company.Company, req ComputeRequest) (tax.Period, error) {
	switch t := tax.Type(req.Type); t {
	case tax.TypeVAT:
		if !comp.VATRegistered {
			return tax.Period{}, shared.InvalidState("The company is not registered for VAT")
		}
		return tax.MonthlyPeriod(t, req.Year, req.Month)
	case tax.TypePAYE:
		return tax.MonthlyPeriod(t, req.Year, req.Month)
	case tax.TypeQIT:
		return tax.QuarterlyPeriod(req.Year, req.Quarter, comp.FiscalYearStartMonth)
	case tax.TypeCIT:
		return tax.AnnualPeriod(req.Year, comp.FiscalYearStartMonth), nil
	default:
		return tax.Period{}, shared.InvalidInput("Unknown tax type")
	}
}

func (s *TaxService) compute(ctx context.Context, comp *company.Company, p tax.Period) (tax.Result, error) {
	switch p.Type {
	case tax.TypeVAT:
		return s.computeVAT(ctx, comp.ID, p)
	case tax.TypePAYE:
		return s.computePAYE(ctx, comp.ID, p)
	case tax.TypeCIT:
		return s.computeCIT(ctx, comp.ID, p)
	case tax.TypeQIT:
		return s.computeQIT(ctx, comp, p)
	}
	return tax.Result{}, shared.InvalidInput("Unknown tax type")
}

func (s *TaxService) computeVAT(ctx context.Context, companyID uuid.UUID, p tax.Period) (tax.Result, error) {
	totals, err := s.sources.Invoices.TotalsBetween(ctx, companyID, p.Start, p.End)
	if err != nil {
		return tax.Result{}, err
	}
	expenses, err := s.sources.Expenses.SumByCategory(ctx, companyID, p.Start, p.End, expense.StatusApproved)
	if err != nil {
		return tax.Result{}, err
	}
	input := decimal.Zero
	for _, c := range expenses {
		input = input.Add(c.VATAmount)
	}
	return tax.ComputeVAT(tax.VATInputs{OutputVAT: totals.VATTotal, InputVAT: input, Sales: totals.Subtotal}), nil
}

func (s *TaxService) computePAYE(ctx context.Context, companyID uuid.UUID, p tax.Period) (tax.Result, error) {
	run, err := s.sources.Payroll.FindByPeriod(ctx, companyID, p.Start.Year(), int(p.Start.Month()))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return tax.ComputePAYE(decimal.Zero, decimal.Zero), nil
		}
		return tax.Result{}, err
	}
	if run.Status == payroll.StatusDraft {
		return tax.ComputePAYE(decimal.Zero, decimal.Zero), nil
	}
	return tax.ComputePAYE(run.Totals.Gross, run.Totals.PAYE), nil
}

func (s *TaxService) computeCIT(ctx context.Context, companyID uuid.UUID, p tax.Period) (tax.Result, error) {
	totals, err := s.sources.Invoices.TotalsBetween(ctx, companyID, p.Start, p.End)
	if err != nil {
		return tax.Result{}, err
	}
	expenses, err := s.sources.Expenses.SumByCategory(ctx, companyID, p.Start, p.End, expense.StatusApproved)
	if err != nil {
		return tax.Result{}, err
	}
	deductible := decimal.Zero
	for _, c := range expenses {
		if c.Deductible {
			deductible = deductible.Add(c.Amount)
		}
	}
	year := p.End.Year()
	assets, err := s.sources.Assets.FindInService(ctx, companyID, year)
	if err != nil {
		return tax.Result{}, err
	}
	depreciation := decimal.Zero
	for i := range assets {
		depreciation = depreciation.Add(assets[i].DepreciationForYear(year))
	}
	qitPaid, err := s.filingRepo.SumPaidBetween(ctx, companyID, tax.TypeQIT, p.Start, p.End)
	if err != nil {
		return tax.Result{}, err
	}
	return tax.ComputeCIT(tax.CITInputs{
		Revenue:            totals.Subtotal,
		DeductibleExpenses: deductible,
		Depreciation:       depreciation,
		QITPaid:            qitPaid,
	}, s.rates), nil
}

func (s *TaxService) computeQIT(ctx context.Context, comp *company.Company, p tax.Period) (tax.Result, error) {
	prior := tax.AnnualPeriod(fiscalEndYear(p.Start, comp.FiscalYearStartMonth)-1, comp.FiscalYearStartMonth)
	cit, err := s.filingRepo.FindByPeriod(ctx, comp.ID, tax.TypeCIT, prior.Start, prior.End)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return tax.ComputeQIT(nil, s.rates), nil
		}
		return tax.Result{}, err
	}
	return tax.ComputeQIT(&cit.TaxAmount, s.rates), nil
}

// fiscalEndYear returns the calendar year in which the fiscal year containing t ends
func fiscalEndYear(t time.Time, startMonth int) int {
	if startMonth <= 1 || startMonth > 12 {
		return t.Year()
	}
	if int(t.Month()) >= startMonth {
		return t.Year() + 1
	}
	return t.Year()
}
