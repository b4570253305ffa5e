package dividend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DividendService manages dividend declarations and their distribution to shareholders
type DividendService struct {
	declarationRepo  dividend.DeclarationRepository
	distributionRepo dividend.DistributionRepository
	personRepo       person.PersonRepository
	defaultWHT       decimal.Decimal
	publisher        shared.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
}

// NewDividendService creates a new dividend service
func NewDividendService(
	declarationRepo dividend.DeclarationRepository,
	distributionRepo dividend.DistributionRepository,
	personRepo person.PersonRepository,
	cfg config.TaxConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *DividendService {
	wht := dividend.DefaultWithholdingRate
	if cfg.DividendWHTRate > 0 {
		wht = decimal.NewFromFloat(cfg.DividendWHTRate)
	}
	return &DividendService{
		declarationRepo:  declarationRepo,
		distributionRepo: distributionRepo,
		personRepo:       personRepo,
		defaultWHT:       wht,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

// Create records a draft declaration
func (s *DividendService) Create(ctx context.Context, actor access.Actor, req DeclarationRequest) (*DeclarationResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	d, err := dividend.NewDeclaration(actor.CompanyID, actor.UserID, req.toTerms(s.defaultWHT))
	if err != nil {
		return nil, err
	}
	if err := s.declarationRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("Dividend declaration drafted",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("declaration_id", d.ID.String()),
		zap.Int("fiscal_year", d.FiscalYear))
	resp := ToDeclarationResponse(d)
	return &resp, nil
}

// Get returns one declaration
func (s *DividendService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*DeclarationResponse, error) {
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDeclarationResponse(d)
	return &resp, nil
}

// List lists declarations
func (s *DividendService) List(ctx context.Context, actor access.Actor, req ListDeclarationsRequest) ([]DeclarationResponse, int64, error) {
	filter := dividend.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
		Status:     dividend.Status(req.Status),
		FiscalYear: req.FiscalYear,
	}
	items, total, err := s.declarationRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DeclarationResponse, len(items))
	for i := range items {
		out[i] = ToDeclarationResponse(&items[i])
	}
	return out, total, nil
}

// Update changes a draft declaration
func (s *DividendService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req DeclarationRequest) (*DeclarationResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.toTerms(s.defaultWHT)); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDeclarationResponse(d)
	return &resp, nil
}

// Delete removes a draft declaration
func (s *DividendService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if err := d.CanDelete(); err != nil {
		return err
	}
	return s.declarationRepo.Delete(ctx, actor.CompanyID, id)
}

// Declare makes a draft binding. Only OWNER and ADMIN may declare.
func (s *DividendService) Declare(ctx context.Context, actor access.Actor, id uuid.UUID) (*DeclarationResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Declare(actor.UserID, s.now()); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, d)

	s.logger.Info("Dividend declared",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("declaration_id", d.ID.String()),
		zap.String("total_amount", d.TotalAmount.String()))
	resp := ToDeclarationResponse(d)
	return &resp, nil
}

// Preview allocates the pool over the current shareholdings without saving anything
func (s *DividendService) Preview(ctx context.Context, actor access.Actor, id uuid.UUID) (*DistributionSummary, error) {
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	allocs, err := dividend.Allocate(d.TotalAmount, d.Currency, d.WithholdingTaxRate, holdings)
	if err != nil {
		return nil, err
	}
	summary := summarizeAllocations(d.ID, d.Currency, allocs)
	return &summary, nil
}

// Distribute snapshots shareholdings, creates one distribution per shareholder
// and marks the declaration distributed in a single write
func (s *DividendService) Distribute(ctx context.Context, actor access.Actor, id uuid.UUID) (*DistributionSummary, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	distributions, err := d.Distribute(holdings, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveDistributed(ctx, d, distributions); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, d)

	s.logger.Info("Dividend distributed",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("declaration_id", d.ID.String()),
		zap.Int("shareholders", len(distributions)))
	summary := summarizeDistributions(d.ID, d.Currency, distributions)
	return &summary, nil
}

// Cancel abandons a draft or declared dividend
func (s *DividendService) Cancel(ctx context.Context, actor access.Actor, id uuid.UUID, req CancelRequest) (*DeclarationResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDeclarationResponse(d)
	return &resp, nil
}

// Distributions lists the stored distributions of a declaration
func (s *DividendService) Distributions(ctx context.Context, actor access.Actor, id uuid.UUID) (*DistributionSummary, error) {
	d, err := s.declarationRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	distributions, err := s.distributionRepo.FindByDeclaration(ctx, actor.CompanyID, d.ID)
	if err != nil {
		return nil, err
	}
	summary := summarizeDistributions(d.ID, d.Currency, distributions)
	return &summary, nil
}

// DistributionsForPerson lists every distribution a shareholder received
func (s *DividendService) DistributionsForPerson(ctx context.Context, actor access.Actor, personID uuid.UUID) ([]AllocationResponse, error) {
	distributions, err := s.distributionRepo.FindByPerson(ctx, actor.CompanyID, personID)
	if err != nil {
		return nil, err
	}
	out := make([]AllocationResponse, len(distributions))
	for i := range distributions {
		out[i] = ToAllocationResponse(&distributions[i])
	}
	return out, nil
}

// MarkDistributionPaid records payment of one distribution
func (s *DividendService) MarkDistributionPaid(ctx context.Context, actor access.Actor, distributionID uuid.UUID, req MarkPaidRequest) (*AllocationResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	dist, err := s.distributionRepo.FindByID(ctx, actor.CompanyID, distributionID)
	if err != nil {
		return nil, err
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if err := dist.MarkPaid(req.PaymentReference, paidAt); err != nil {
		return nil, err
	}
	if err := s.distributionRepo.Save(ctx, dist); err != nil {
		return nil, err
	}
	resp := ToAllocationResponse(dist)
	return &resp, nil
}

func (s *DividendService) holdings(ctx context.Context, companyID uuid.UUID) ([]dividend.Holding, error) {
	shareholders, err := s.personRepo.FindShareholders(ctx, companyID)
	if err != nil {
		return nil, err
	}
	holdings := make([]dividend.Holding, 0, len(shareholders))
	for i := range shareholders {
		p := &shareholders[i]
		if !p.HasRole(person.RoleShareholder) || p.SharesHeld <= 0 {
			continue
		}
		holdings = append(holdings, dividend.Holding{PersonID: p.ID, PersonName: p.FullName, Shares: p.SharesHeld})
	}
	return holdings, nil
}
