package capital

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/capital"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultUpcomingDays = 30

// CapitalService manages locked investor capital and early withdrawals
type CapitalService struct {
	capitalRepo    capital.LockedCapitalRepository
	withdrawalRepo capital.WithdrawalRepository
	personRepo     person.PersonRepository
	txScope        TransactionScope
	penaltyRate    decimal.Decimal
	upcomingDays   int
	publisher      shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCapitalService creates a new capital service
func NewCapitalService(
	capitalRepo capital.LockedCapitalRepository,
	withdrawalRepo capital.WithdrawalRepository,
	personRepo person.PersonRepository,
	txScope TransactionScope,
	cfg config.CapitalConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CapitalService {
	upcoming := cfg.UpcomingUnlockDays
	if upcoming <= 0 {
		upcoming = defaultUpcomingDays
	}
	return &CapitalService{
		capitalRepo:    capitalRepo,
		withdrawalRepo: withdrawalRepo,
		personRepo:     personRepo,
		txScope:        txScope,
		penaltyRate:    decimal.NewFromFloat(cfg.EarlyWithdrawalPenaltyRate),
		upcomingDays:   upcoming,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// Create records a new capital lock for an investor of the company
func (s *CapitalService) Create(ctx context.Context, actor access.Actor, req LockedCapitalRequest) (*LockedCapitalResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	investor, err := s.personRepo.FindByID(ctx, actor.CompanyID, req.InvestorID)
	if err != nil {
		return nil, err
	}
	lc, err := capital.NewLockedCapital(actor.CompanyID, actor.UserID, req.toTerms())
	if err != nil {
		return nil, err
	}
	if err := s.capitalRepo.Save(ctx, lc); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, lc)

	s.logger.Info("Capital locked",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("locked_capital_id", lc.ID.String()),
		zap.String("amount", lc.Amount.String()),
		zap.Time("unlock_date", lc.UnlockDate))
	resp := s.withROI(lc)
	resp.InvestorName = investor.FullName
	return &resp, nil
}

// Get returns one lock with its ROI as of today
func (s *CapitalService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*LockedCapitalResponse, error) {
	lc, err := s.capitalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := s.withROI(lc)
	s.attachInvestorNames(ctx, actor.CompanyID, []*LockedCapitalResponse{&resp})
	return &resp, nil
}

// List lists the company's locks
func (s *CapitalService) List(ctx context.Context, actor access.Actor, req ListLockedCapitalRequest) ([]LockedCapitalResponse, int64, error) {
	filter := capital.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Status:     capital.Status(req.Status),
		InvestorID: req.InvestorID,
	}
	records, total, err := s.capitalRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := s.toResponses(records)
	refs := make([]*LockedCapitalResponse, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	s.attachInvestorNames(ctx, actor.CompanyID, refs)
	return out, total, nil
}

// Update changes the terms of a lock that is still LOCKED
func (s *CapitalService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req LockedCapitalRequest) (*LockedCapitalResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	lc, err := s.capitalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if req.InvestorID != lc.InvestorID {
		if _, err := s.personRepo.FindByID(ctx, actor.CompanyID, req.InvestorID); err != nil {
			return nil, err
		}
	}
	if err := lc.Update(req.toTerms()); err != nil {
		return nil, err
	}
	if err := s.capitalRepo.Save(ctx, lc); err != nil {
		return nil, err
	}
	resp := s.withROI(lc)
	return &resp, nil
}

// Delete removes a lock. Only LOCKED records without a pending withdrawal qualify.
func (s *CapitalService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	lc, err := s.capitalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if err := lc.CanDelete(); err != nil {
		return err
	}
	pending, err := s.withdrawalRepo.FindPendingForCapital(ctx, actor.CompanyID, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if pending != nil {
		return shared.InvalidState("Capital with a pending withdrawal request cannot be deleted")
	}
	if err := s.capitalRepo.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	s.logger.Info("Locked capital deleted",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("locked_capital_id", id.String()))
	return nil
}

// Unlock releases a matured lock
func (s *CapitalService) Unlock(ctx context.Context, actor access.Actor, id uuid.UUID) (*LockedCapitalResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	lc, err := s.capitalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := lc.Unlock(s.now()); err != nil {
		return nil, err
	}
	if err := s.capitalRepo.Save(ctx, lc); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, lc)
	resp := s.withROI(lc)
	return &resp, nil
}

// ROI computes the return figures of a lock as of the given date, today when zero
func (s *CapitalService) ROI(ctx context.Context, actor access.Actor, id uuid.UUID, at time.Time) (*ROIResponse, error) {
	lc, err := s.capitalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.now()
	}
	resp := toROIResponse(at, lc.ComputeROI(at))
	return &resp, nil
}

// Summary returns totals per status and the locks unlocking within the configured window
func (s *CapitalService) Summary(ctx context.Context, actor access.Actor) (*SummaryResponse, error) {
	totals, err := s.capitalRepo.TotalsByStatus(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	upcoming, err := s.capitalRepo.FindUnlockingBetween(ctx, actor.CompanyID, now, now.AddDate(0, 0, s.upcomingDays))
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{
		Totals:          make([]StatusTotalResponse, len(totals)),
		UpcomingDays:    s.upcomingDays,
		UpcomingUnlocks: s.toResponses(upcoming),
	}
	for i, t := range totals {
		resp.Totals[i] = StatusTotalResponse{
			Status:   string(t.Status),
			Currency: t.Currency,
			Count:    t.Count,
			Amount:   t.Amount,
		}
	}
	return resp, nil
}

// RequestEarlyWithdrawal opens a withdrawal request. The request and the
// status change of the lock are written together.
func (s *CapitalService) RequestEarlyWithdrawal(ctx context.Context, actor access.Actor, id uuid.UUID, req WithdrawalRequest) (*WithdrawalResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	var lc *capital.LockedCapital
	var wr *capital.EarlyWithdrawalRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lc, err = repos.CapitalRepo().FindByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		wr, err = lc.RequestEarlyWithdrawal(actor.UserID, req.Reason, s.penaltyRate, s.now())
		if err != nil {
			return err
		}
		if err := repos.WithdrawalRepo().Save(ctx, wr); err != nil {
			return err
		}
		return repos.CapitalRepo().Save(ctx, lc)
	})
	if err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, lc, wr)

	s.logger.Info("Early withdrawal requested",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("locked_capital_id", lc.ID.String()),
		zap.String("withdrawal_id", wr.ID.String()),
		zap.String("penalty", wr.PenaltyAmount.String()))
	resp := ToWithdrawalResponse(wr)
	return &resp, nil
}

// ReviewWithdrawal approves or rejects a pending request and moves the lock accordingly
func (s *CapitalService) ReviewWithdrawal(ctx context.Context, actor access.Actor, withdrawalID uuid.UUID, req ReviewWithdrawalRequest) (*WithdrawalResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	var lc *capital.LockedCapital
	var wr *capital.EarlyWithdrawalRequest
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		wr, err = repos.WithdrawalRepo().FindByID(ctx, actor.CompanyID, withdrawalID)
		if err != nil {
			return err
		}
		lc, err = repos.CapitalRepo().FindByID(ctx, actor.CompanyID, wr.LockedCapitalID)
		if err != nil {
			return err
		}
		now := s.now()
		if req.Approve {
			err = wr.Approve(actor.UserID, req.Notes, now)
		} else {
			err = wr.Reject(actor.UserID, req.Notes, now)
		}
		if err != nil {
			return err
		}
		if err := lc.ApplyWithdrawalDecision(req.Approve, now); err != nil {
			return err
		}
		if err := repos.WithdrawalRepo().Save(ctx, wr); err != nil {
			return err
		}
		return repos.CapitalRepo().Save(ctx, lc)
	})
	if err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, wr, lc)

	s.logger.Info("Early withdrawal reviewed",
		zap.String("withdrawal_id", wr.ID.String()),
		zap.String("status", string(wr.Status)),
		zap.String("reviewed_by", actor.UserID.String()))
	resp := ToWithdrawalResponse(wr)
	return &resp, nil
}

// GetWithdrawal returns one withdrawal request
func (s *CapitalService) GetWithdrawal(ctx context.Context, actor access.Actor, id uuid.UUID) (*WithdrawalResponse, error) {
	wr, err := s.withdrawalRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWithdrawalResponse(wr)
	return &resp, nil
}

// ListWithdrawals lists withdrawal requests
func (s *CapitalService) ListWithdrawals(ctx context.Context, actor access.Actor, req ListWithdrawalsRequest) ([]WithdrawalResponse, int64, error) {
	filter := capital.WithdrawalFilter{
		Filter:          shared.Filter{Page: req.Page, PageSize: req.PageSize},
		Status:          capital.WithdrawalStatus(req.Status),
		LockedCapitalID: req.LockedCapitalID,
	}
	requests, total, err := s.withdrawalRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WithdrawalResponse, len(requests))
	for i := range requests {
		out[i] = ToWithdrawalResponse(&requests[i])
	}
	return out, total, nil
}

// UnlockMatured unlocks matured locks across all companies. It is run by the
// scheduler; one failing record does not stop the batch.
func (s *CapitalService) UnlockMatured(ctx context.Context, asOf time.Time, limit int) (int, error) {
	matured, err := s.capitalRepo.FindMatured(ctx, asOf, limit)
	if err != nil {
		return 0, err
	}
	log := logger.Enrich(ctx, s.logger)
	unlocked := 0
	for i := range matured {
		lc := &matured[i]
		if err := lc.Unlock(asOf); err != nil {
			log.Warn("Skipping matured capital", zap.String("locked_capital_id", lc.ID.String()), zap.Error(err))
			continue
		}
		if err := s.capitalRepo.Save(ctx, lc); err != nil {
			log.Error("Failed to unlock matured capital", zap.String("locked_capital_id", lc.ID.String()), zap.Error(err))
			continue
		}
		access.PublishEvents(ctx, s.publisher, s.logger, lc)
		unlocked++
	}
	if unlocked > 0 {
		log.Info("Matured capital unlocked", zap.Int("count", unlocked))
	}
	return unlocked, nil
}

func (s *CapitalService) withROI(lc *capital.LockedCapital) LockedCapitalResponse {
	now := s.now()
	resp := ToLockedCapitalResponse(lc)
	roi := toROIResponse(now, lc.ComputeROI(now))
	resp.ROI = &roi
	return resp
}

func (s *CapitalService) toResponses(records []capital.LockedCapital) []LockedCapitalResponse {
	out := make([]LockedCapitalResponse, len(records))
	for i := range records {
		out[i] = s.withROI(&records[i])
	}
	return out
}

// attachInvestorNames fills investor names in one lookup. A failed lookup leaves them blank.
func (s *CapitalService) attachInvestorNames(ctx context.Context, companyID uuid.UUID, responses []*LockedCapitalResponse) {
	if len(responses) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.InvestorID)
	}
	persons, err := s.personRepo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to load investor names", zap.Error(err))
		return
	}
	names := make(map[uuid.UUID]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.FullName
	}
	for _, r := range responses {
		r.InvestorName = names[r.InvestorID]
	}
}
