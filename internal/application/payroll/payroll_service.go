package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/rwbiz/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RatesFromConfig converts configured statutory rates, falling back to the
// built-in defaults for anything left unset
func RatesFromConfig(cfg config.PayrollConfig) payroll.Rates {
	rates := payroll.DefaultRates()
	set := func(dst *decimal.Decimal, v float64) {
		if v > 0 {
			*dst = decimal.NewFromFloat(v)
		}
	}
	set(&rates.PensionEmployee, cfg.PensionEmployeeRate)
	set(&rates.PensionEmployer, cfg.PensionEmployerRate)
	set(&rates.MaternityEmployee, cfg.MaternityEmployeeRate)
	set(&rates.MaternityEmployer, cfg.MaternityEmployerRate)
	set(&rates.OccupationalHazard, cfg.OccupationalHazardRate)
	set(&rates.CBHI, cfg.CBHIRate)
	if len(cfg.PAYEBands) > 0 {
		bands := make([]payroll.Band, len(cfg.PAYEBands))
		for i, b := range cfg.PAYEBands {
			bands[i] = payroll.Band{From: decimal.NewFromFloat(b.From), Rate: decimal.NewFromFloat(b.Rate)}
		}
		rates.PAYEBands = bands
	}
	return rates
}

// PayrollService runs monthly payroll for the employees of a company
type PayrollService struct {
	runRepo    payroll.RunRepository
	personRepo person.PersonRepository
	calc       *payroll.Calculator
	publisher  shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewPayrollService creates a new payroll service. It fails when the configured rates are unusable.
func NewPayrollService(
	runRepo payroll.RunRepository,
	personRepo person.PersonRepository,
	cfg config.PayrollConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) (*PayrollService, error) {
	calc, err := payroll.NewCalculator(RatesFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &PayrollService{
		runRepo:    runRepo,
		personRepo: personRepo,
		calc:       calc,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Calculate previews the statutory deductions on a gross monthly amount
func (s *PayrollService) Calculate(_ context.Context, req CalculateRequest) (*BreakdownResponse, error) {
	b, err := s.calc.Calculate(req.Gross)
	if err != nil {
		return nil, err
	}
	return &BreakdownResponse{
		Breakdown:       b,
		TotalDeductions: b.TotalDeductions(),
		RSSBEmployee:    b.RSSBEmployee(),
		RSSBEmployer:    b.RSSBEmployer(),
	}, nil
}

// Create opens the payroll of a month for every active employee
func (s *PayrollService) Create(ctx context.Context, actor access.Actor, req CreateRunRequest) (_ *RunResponse, err error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "payroll.create_run",
		attribute.String("company_id", actor.CompanyID.String()),
		attribute.Int("year", req.Year),
		attribute.Int("month", req.Month))
	defer func() { telemetry.EndSpan(span, err) }()

	exists, err := s.runRepo.ExistsForPeriod(ctx, actor.CompanyID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A payroll run already exists for this month").
			WithDetails(map[string]any{"year": req.Year, "month": req.Month})
	}
	employees, err := s.employees(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	run, err := payroll.NewRun(actor.CompanyID, actor.UserID, req.Year, req.Month, employees, s.calc)
	if err != nil {
		return nil, err
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Payroll run created",
		zap.String("run_id", run.ID.String()),
		zap.Int("year", run.Year),
		zap.Int("month", run.Month),
		zap.Int("employees", len(run.Payslips)),
		zap.String("net", run.Totals.Net.String()),
	)
	resp := ToRunResponse(run, true)
	return &resp, nil
}

// Get returns a payroll run with its payslips
func (s *PayrollService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*RunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRunResponse(run, true)
	return &resp, nil
}

// GetByPeriod returns the payroll run of a month
func (s *PayrollService) GetByPeriod(ctx context.Context, actor access.Actor, year, month int) (*RunResponse, error) {
	run, err := s.runRepo.FindByPeriod(ctx, actor.CompanyID, year, month)
	if err != nil {
		return nil, err
	}
	resp := ToRunResponse(run, true)
	return &resp, nil
}

// List returns payroll runs without payslips
func (s *PayrollService) List(ctx context.Context, actor access.Actor, req ListRunsRequest) ([]RunResponse, int64, error) {
	filter := payroll.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
		Year:   req.Year,
		Status: payroll.Status(req.Status),
	}
	runs, total, err := s.runRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RunResponse, len(runs))
	for i := range runs {
		out[i] = ToRunResponse(&runs[i], false)
	}
	return out, total, nil
}

// Recalculate rebuilds a draft run from the current employee records
func (s *PayrollService) Recalculate(ctx context.Context, actor access.Actor, id uuid.UUID) (*RunResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	run, err := s.runRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := run.Recalculate(employees, s.calc); err != nil {
		return nil, err
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToRunResponse(run, true)
	return &resp, nil
}

// Approve locks a draft run for payment
func (s *PayrollService) Approve(ctx context.Context, actor access.Actor, id uuid.UUID) (*RunResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "Payroll run approved", func(run *payroll.Run) error {
		return run.Approve(actor.UserID, s.now())
	})
}

// MarkPaid records that an approved run has been paid out
func (s *PayrollService) MarkPaid(ctx context.Context, actor access.Actor, id uuid.UUID) (*RunResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "Payroll run paid", func(run *payroll.Run) error {
		return run.MarkPaid(s.now())
	})
}

func (s *PayrollService) transition(ctx context.Context, actor access.Actor, id uuid.UUID, msg string, fn func(*payroll.Run) error) (*RunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(run); err != nil {
		return nil, err
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, run)

	logger.Enrich(ctx, s.logger).Info(msg,
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
	)
	resp := ToRunResponse(run, true)
	return &resp, nil
}

// Delete removes a draft run
func (s *PayrollService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	run, err := s.runRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !run.CanDelete() {
		return shared.InvalidState("Only draft payroll runs can be deleted")
	}
	return s.runRepo.Delete(ctx, actor.CompanyID, id)
}

func (s *PayrollService) employees(ctx context.Context, companyID uuid.UUID) ([]payroll.Employee, error) {
	persons, err := s.personRepo.FindActiveEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]payroll.Employee, 0, len(persons))
	for _, p := range persons {
		if p.Employment == nil {
			continue
		}
		out = append(out, payroll.Employee{
			PersonID:    p.ID,
			FullName:    p.FullName,
			RSSBNumber:  p.Employment.RSSBNumber,
			BaseSalary:  p.Employment.MonthlyGrossSalary,
			Allowances:  p.Employment.Allowances,
			BankAccount: p.Employment.BankAccount,
		})
	}
	return out, nil
}
