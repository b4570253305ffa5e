package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// sequencer hands out the next number of a PREFIX-YYYYMM- stem
type sequencer interface {
	NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error)
}

// InvoiceService issues invoices and records the receipts paid against them
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	receiptRepo billing.ReceiptRepository
	companyRepo company.CompanyRepository
	txScope     TransactionScope
	printer     Printer
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	receiptRepo billing.ReceiptRepository,
	companyRepo company.CompanyRepository,
	txScope TransactionScope,
	printer Printer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		companyRepo: companyRepo,
		txScope:     txScope,
		printer:     printer,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Create numbers and saves a draft invoice
func (s *InvoiceService) Create(ctx context.Context, actor access.Actor, req InvoiceRequest) (*InvoiceResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	var inv *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := s.nextNumber(ctx, repos.InvoiceRepo(), actor.CompanyID, billing.PrefixInvoice)
		if err != nil {
			return err
		}
		inv, err = billing.NewInvoice(actor.CompanyID, actor.UserID, number, req.toDraft())
		if err != nil {
			return err
		}
		return repos.InvoiceRepo().Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Invoice drafted",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) nextNumber(ctx context.Context, seq sequencer, companyID uuid.UUID, prefix string) (string, error) {
	at := s.now()
	n, err := seq.NextSequence(ctx, companyID, billing.NumberPeriod(prefix, at))
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}
	return billing.FormatNumber(prefix, at, n), nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List lists invoices
func (s *InvoiceService) List(ctx context.Context, actor access.Actor, req ListInvoicesRequest) ([]InvoiceResponse, int64, error) {
	filter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Status: billing.Status(req.Status),
		From:   req.From,
		To:     req.To,
	}
	items, total, err := s.invoiceRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceResponse, len(items))
	for i := range items {
		out[i] = ToInvoiceResponse(&items[i])
	}
	return out, total, nil
}

// Update replaces the content of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req InvoiceRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, actor, id, func(inv *billing.Invoice) error {
		return inv.Update(req.toDraft())
	})
}

// Issue finalises a draft invoice
func (s *InvoiceService) Issue(ctx context.Context, actor access.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, actor, id, func(inv *billing.Invoice) error {
		return inv.Issue(s.now())
	})
}

// Cancel voids an invoice on which nothing has been paid
func (s *InvoiceService) Cancel(ctx context.Context, actor access.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, actor, id, (*billing.Invoice).Cancel)
}

func (s *InvoiceService) mutate(ctx context.Context, actor access.Actor, id uuid.UUID, apply func(*billing.Invoice) error) (*InvoiceResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, inv)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !inv.CanDelete() {
		return shared.InvalidState("Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, actor.CompanyID, id)
}

// RecordPayment writes a receipt and updates the invoice balance in one transaction
func (s *InvoiceService) RecordPayment(ctx context.Context, actor access.Actor, invoiceID uuid.UUID, req ReceiptRequest) (*PaymentResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	var (
		inv     *billing.Invoice
		receipt *billing.Receipt
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByID(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}
		number, err := s.nextNumber(ctx, repos.ReceiptRepo(), actor.CompanyID, billing.PrefixReceipt)
		if err != nil {
			return err
		}
		receipt, err = billing.NewReceipt(inv, actor.UserID, number, req.toPayment())
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		return repos.ReceiptRepo().Save(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	access.PublishEvents(ctx, s.publisher, s.logger, inv)

	s.logger.Info("Payment recorded",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("receipt", receipt.Number),
		zap.String("amount", receipt.Amount.String()),
		zap.String("status", string(inv.Status)))
	return &PaymentResponse{Invoice: ToInvoiceResponse(inv), Receipt: ToReceiptResponse(receipt)}, nil
}

// GetReceipt returns one receipt
func (s *InvoiceService) GetReceipt(ctx context.Context, actor access.Actor, id uuid.UUID) (*ReceiptResponse, error) {
	r, err := s.receiptRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(r)
	return &resp, nil
}

// ListReceipts lists receipts, optionally those of one invoice
func (s *InvoiceService) ListReceipts(ctx context.Context, actor access.Actor, req ListReceiptsRequest) ([]ReceiptResponse, int64, error) {
	filter := billing.ReceiptFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
		InvoiceID: req.InvoiceID,
	}
	items, total, err := s.receiptRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReceiptResponse, len(items))
	for i := range items {
		out[i] = ToReceiptResponse(&items[i])
	}
	return out, total, nil
}

// Receivables summarises what the company is owed
func (s *InvoiceService) Receivables(ctx context.Context, actor access.Actor) (*ReceivablesResponse, error) {
	r, err := s.invoiceRepo.Receivables(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return &ReceivablesResponse{
		Outstanding:  r.Outstanding,
		OverdueCount: r.OverdueCount,
		OverdueTotal: r.OverdueTotal,
	}, nil
}

// ExportPDF renders the invoice through the print template and returns the
// PDF with a suggested file name
func (s *InvoiceService) ExportPDF(ctx context.Context, actor access.Actor, id uuid.UUID) ([]byte, string, error) {
	if s.printer == nil {
		return nil, "", shared.NewDomainError("EXPORT_UNAVAILABLE", "PDF export is not configured")
	}
	inv, err := s.invoiceRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, "", err
	}
	c, err := s.companyRepo.FindByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, "", err
	}
	data := InvoicePrint{
		Company: toCompanyPrint(c),
		Invoice: ToInvoiceResponse(inv),
		Printed: s.now(),
	}
	pdf, err := s.printer.RenderPDF(ctx, TemplateInvoice, inv.Number, data)
	if err != nil {
		return nil, "", fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return pdf, inv.Number + ".pdf", nil
}

// MarkOverdue flags open invoices of every company whose due date has passed.
// Failures are logged and skipped so one bad row does not stall the batch.
func (s *InvoiceService) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	due, err := s.invoiceRepo.FindDueForOverdue(ctx, asOf, limit)
	if err != nil {
		return 0, err
	}
	log := logger.Enrich(ctx, s.logger)
	marked := 0
	for i := range due {
		inv := &due[i]
		if !inv.MarkOverdue(asOf) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			log.Warn("Failed to mark invoice overdue",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
			continue
		}
		access.PublishEvents(ctx, s.publisher, s.logger, inv)
		marked++
	}
	if marked > 0 {
		log.Info("Invoices marked overdue", zap.Int("count", marked))
	}
	return marked, nil
}
