package expense

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService records business costs and runs their approval workflow
type ExpenseService struct {
	expenseRepo  expense.ExpenseRepository
	documentRepo document.DocumentRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo expense.ExpenseRepository,
	documentRepo document.DocumentRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		documentRepo: documentRepo,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// Categories lists the RRA expense categories with their deductibility
func (s *ExpenseService) Categories() []expense.CategoryInfo {
	return expense.Categories()
}

// Create records a draft expense
func (s *ExpenseService) Create(ctx context.Context, actor access.Actor, req ExpenseRequest) (*ExpenseResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	if err := s.checkReceipt(ctx, actor.CompanyID, req.ReceiptDocumentID); err != nil {
		return nil, err
	}
	e, err := expense.NewExpense(actor.CompanyID, actor.UserID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Expense recorded",
		zap.String("expense_id", e.ID.String()),
		zap.String("category", string(e.Category)),
		zap.String("amount", e.Amount.String()),
	)
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// Get returns an expense
func (s *ExpenseService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*ExpenseResponse, error) {
	e, err := s.expenseRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// List lists expenses
func (s *ExpenseService) List(ctx context.Context, actor access.Actor, req ListExpensesRequest) ([]ExpenseResponse, int64, error) {
	items, total, err := s.expenseRepo.FindAll(ctx, actor.CompanyID, expense.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Category: expense.Category(req.Category),
		Status:   expense.Status(req.Status),
		From:     req.From,
		To:       req.To,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]ExpenseResponse, len(items))
	for i := range items {
		out[i] = ToExpenseResponse(&items[i])
	}
	return out, total, nil
}

// Update replaces the details of a draft or rejected expense
func (s *ExpenseService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	if err := s.checkReceipt(ctx, actor.CompanyID, req.ReceiptDocumentID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "", func(e *expense.Expense) error {
		return e.Update(req.toDetails())
	})
}

// Submit sends a draft expense for approval
func (s *ExpenseService) Submit(ctx context.Context, actor access.Actor, id uuid.UUID) (*ExpenseResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "Expense submitted", func(e *expense.Expense) error {
		return e.Submit(s.now())
	})
}

// Approve accepts a submitted expense
func (s *ExpenseService) Approve(ctx context.Context, actor access.Actor, id uuid.UUID, req ReviewRequest) (*ExpenseResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "Expense approved", func(e *expense.Expense) error {
		return e.Approve(actor.UserID, req.Notes, s.now())
	})
}

// Reject returns a submitted expense to its author with a reason
func (s *ExpenseService) Reject(ctx context.Context, actor access.Actor, id uuid.UUID, req ReviewRequest) (*ExpenseResponse, error) {
	if err := actor.Require(company.ActionApprove); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "Expense rejected", func(e *expense.Expense) error {
		return e.Reject(actor.UserID, req.Notes, s.now())
	})
}

func (s *ExpenseService) mutate(ctx context.Context, actor access.Actor, id uuid.UUID, msg string, fn func(*expense.Expense) error) (*ExpenseResponse, error) {
	e, err := s.expenseRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, e)
	if msg != "" {
		logger.Enrich(ctx, s.logger).Info(msg,
			zap.String("expense_id", e.ID.String()),
			zap.String("status", string(e.Status)),
		)
	}
	resp := ToExpenseResponse(e)
	return &resp, nil
}

// Delete removes a draft expense
func (s *ExpenseService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	e, err := s.expenseRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !e.CanDelete() {
		return shared.InvalidState("Only draft expenses can be deleted")
	}
	return s.expenseRepo.Delete(ctx, actor.CompanyID, id)
}

// Summary totals expenses by category over a period
func (s *ExpenseService) Summary(ctx context.Context, actor access.Actor, req SummaryRequest) (*SummaryResponse, error) {
	if req.To.Before(req.From) {
		return nil, shared.InvalidInput("The end of the period must not be before its start")
	}
	totals, err := s.expenseRepo.SumByCategory(ctx, actor.CompanyID, req.From, req.To, expense.Status(req.Status))
	if err != nil {
		return nil, err
	}
	resp := &SummaryResponse{
		From:            req.From,
		To:              req.To,
		Categories:      totals,
		Total:           decimal.Zero,
		VATTotal:        decimal.Zero,
		DeductibleTotal: decimal.Zero,
	}
	for _, c := range totals {
		resp.Total = resp.Total.Add(c.Amount)
		resp.VATTotal = resp.VATTotal.Add(c.VATAmount)
		if c.Deductible {
			resp.DeductibleTotal = resp.DeductibleTotal.Add(c.Amount)
		}
	}
	return resp, nil
}

func (s *ExpenseService) checkReceipt(ctx context.Context, companyID uuid.UUID, id *uuid.UUID) error {
	if id == nil || s.documentRepo == nil {
		return nil
	}
	if _, err := s.documentRepo.FindByID(ctx, companyID, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("Receipt document does not exist").
				WithDetails(map[string]any{"receipt_document_id": id.String()})
		}
		return err
	}
	return nil
}
