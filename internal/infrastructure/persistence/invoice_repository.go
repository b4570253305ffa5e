package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var openInvoiceStatuses = []billing.Status{billing.StatusIssued, billing.StatusPartiallyPaid, billing.StatusOverdue}

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(q *gorm.DB) *gorm.DB {
		return q.Order("position ASC")
	})
}

// FindByID loads an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID), preloadItems).
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Invoice")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists invoice headers matching the filter; items are not loaded
func (r *GormInvoiceRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	rows, total, err := findPage[models.InvoiceModel](ctx, r.db, filter.Filter,
		invoiceSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "number", "customer_name", "customer_tin"))
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.From != nil {
				q = q.Where("issue_date >= ?", *filter.From)
			}
			if filter.To != nil {
				q = q.Where("issue_date <= ?", *filter.To)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return invoicesToDomain(rows), total, nil
}

// NextSequence returns one past the highest sequence used under the stem
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error) {
	return nextSequence(ctx, r.db, &models.InvoiceModel{}, companyID, stem)
}

// FindDueForOverdue returns issued or partially paid invoices of every company due before asOf
func (r *GormInvoiceRepository) FindDueForOverdue(ctx context.Context, asOf time.Time, limit int) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?", []billing.Status{billing.StatusIssued, billing.StatusPartiallyPaid}, asOf).
		Order("due_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// TotalsBetween aggregates invoices issued in [from, to], ignoring drafts and cancelled invoices
func (r *GormInvoiceRepository) TotalsBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (billing.PeriodTotals, error) {
	var out billing.PeriodTotals
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(companyScope(companyID)).
		Where("status NOT IN ?", []billing.Status{billing.StatusDraft, billing.StatusCancelled}).
		Where("issue_date >= ? AND issue_date <= ?", from, to).
		Select("COALESCE(SUM(subtotal), 0) AS subtotal, COALESCE(SUM(vat_total), 0) AS vat_total, " +
			"COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Scan(&out).Error
	return out, err
}

// Receivables summarises what customers still owe
func (r *GormInvoiceRepository) Receivables(ctx context.Context, companyID uuid.UUID) (billing.Receivables, error) {
	var out billing.Receivables
	outstanding, err := scanSum(r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(companyScope(companyID)).
		Where("status IN ?", openInvoiceStatuses), "total - amount_paid")
	if err != nil {
		return out, err
	}
	out.Outstanding = outstanding

	var overdue struct {
		Count int64
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(companyScope(companyID)).
		Where("status = ?", billing.StatusOverdue).
		Select("COUNT(*) AS count, COALESCE(SUM(total - amount_paid), 0) AS total").
		Scan(&overdue).Error; err != nil {
		return out, err
	}
	out.OverdueCount = overdue.Count
	out.OverdueTotal = overdue.Total
	return out, nil
}

// Save persists the invoice header and replaces its items in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	m := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(ctx, tx, &inv.BaseAggregateRoot, m); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if len(m.Items) == 0 {
			return nil
		}
		return tx.Create(&m.Items).Error
	})
}

// Delete removes an invoice and its items
func (r *GormInvoiceRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteInCompany[models.InvoiceModel](ctx, tx, companyID, id, "Invoice"); err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error
	})
}

func invoicesToDomain(rows []models.InvoiceModel) []billing.Invoice {
	out := make([]billing.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// nextSequence reads the highest number under a PREFIX-YYYYMM- stem. Numbers
// are zero padded, so the lexical maximum is the numeric one.
func nextSequence(ctx context.Context, db *gorm.DB, model any, companyID uuid.UUID, stem string) (int64, error) {
	var numbers []string
	if err := db.WithContext(ctx).
		Model(model).
		Scopes(companyScope(companyID)).
		Where("number LIKE ?", stem+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 1, nil
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(numbers[0], stem), 10, 64)
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt within a company
func (r *GormReceiptRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Receipt, error) {
	m, err := firstInCompany[models.ReceiptModel](ctx, r.db, companyID, id, "Receipt")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists receipts matching the filter
func (r *GormReceiptRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.ReceiptFilter) ([]billing.Receipt, int64, error) {
	rows, total, err := findPage[models.ReceiptModel](ctx, r.db, filter.Filter,
		receiptSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "number", "reference"))
			if filter.InvoiceID != nil {
				q = q.Where("invoice_id = ?", *filter.InvoiceID)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]billing.Receipt, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// NextSequence returns one past the highest receipt sequence under the stem
func (r *GormReceiptRepository) NextSequence(ctx context.Context, companyID uuid.UUID, stem string) (int64, error) {
	return nextSequence(ctx, r.db, &models.ReceiptModel{}, companyID, stem)
}

// Save creates a receipt; receipts are immutable once written
func (r *GormReceiptRepository) Save(ctx context.Context, rc *billing.Receipt) error {
	return saveAggregate(ctx, r.db, &rc.BaseAggregateRoot, models.ReceiptModelFromDomain(rc))
}

var (
	_ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ billing.ReceiptRepository = (*GormReceiptRepository)(nil)
)
