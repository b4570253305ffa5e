package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseRequest creates or replaces an expense
type ExpenseRequest struct {
	Category          string          `json:"category" binding:"required" example:"RENT"`
	Description       string          `json:"description" binding:"required,max=500" example:"Office rent June"`
	Amount            decimal.Decimal `json:"amount" binding:"required" example:"250000"`
	VATAmount         decimal.Decimal `json:"vat_amount" example:"45000"`
	Currency          string          `json:"currency" binding:"omitempty,len=3" example:"RWF"`
	SupplierName      string          `json:"supplier_name" binding:"omitempty,max=200"`
	SupplierTIN       string          `json:"supplier_tin" binding:"omitempty,len=9,numeric" example:"100234567"`
	ExpenseDate       time.Time       `json:"expense_date" binding:"required" example:"2025-06-01T00:00:00Z"`
	ReceiptDocumentID *uuid.UUID      `json:"receipt_document_id"`
}

func (r ExpenseRequest) toDetails() expense.Details {
	return expense.Details{
		Category:          expense.Category(r.Category),
		Description:       r.Description,
		Amount:            r.Amount,
		VATAmount:         r.VATAmount,
		Currency:          valueobject.Currency(r.Currency),
		SupplierName:      r.SupplierName,
		SupplierTIN:       r.SupplierTIN,
		ExpenseDate:       r.ExpenseDate,
		ReceiptDocumentID: r.ReceiptDocumentID,
	}
}

// ReviewRequest approves or rejects a submitted expense
type ReviewRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=1000"`
}

// ListExpensesRequest represents the query of an expense listing
type ListExpensesRequest struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string     `form:"search"`
	Category string     `form:"category"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// SummaryRequest selects the period of a category summary
type SummaryRequest struct {
	From   time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To     time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	Status string    `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED APPROVED REJECTED"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID                uuid.UUID       `json:"id"`
	CompanyID         uuid.UUID       `json:"company_id"`
	Category          string          `json:"category"`
	Deductible        bool            `json:"deductible"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	VATAmount         decimal.Decimal `json:"vat_amount"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	SupplierTIN       string          `json:"supplier_tin,omitempty"`
	ExpenseDate       time.Time       `json:"expense_date"`
	ReceiptDocumentID *uuid.UUID      `json:"receipt_document_id,omitempty"`
	Status            string          `json:"status"`
	SubmittedAt       *time.Time      `json:"submitted_at,omitempty"`
	ReviewedBy        *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes       string          `json:"review_notes,omitempty"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToExpenseResponse converts an expense to its response
func ToExpenseResponse(e *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                e.ID,
		CompanyID:         e.CompanyID,
		Category:          string(e.Category),
		Deductible:        e.Category.IsDeductible(),
		Description:       e.Description,
		Amount:            e.Amount,
		VATAmount:         e.VATAmount,
		Total:             e.Total(),
		Currency:          string(e.Currency),
		SupplierName:      e.SupplierName,
		SupplierTIN:       e.SupplierTIN,
		ExpenseDate:       e.ExpenseDate,
		ReceiptDocumentID: e.ReceiptDocumentID,
		Status:            string(e.Status),
		SubmittedAt:       e.SubmittedAt,
		ReviewedBy:        e.ReviewedBy,
		ReviewedAt:        e.ReviewedAt,
		ReviewNotes:       e.ReviewNotes,
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		Version:           e.Version,
	}
}

// SummaryResponse totals expenses by category for a period
type SummaryResponse struct {
	From            time.Time               `json:"from"`
	To              time.Time               `json:"to"`
	Categories      []expense.CategoryTotal `json:"categories"`
	Total           decimal.Decimal         `json:"total"`
	VATTotal        decimal.Decimal         `json:"vat_total"`
	DeductibleTotal decimal.Decimal         `json:"deductible_total"`
}
