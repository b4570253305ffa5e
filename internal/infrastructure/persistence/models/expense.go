package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/expense"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for expenses
type ExpenseModel struct {
	CompanyAggregateModel
	Category          expense.Category `gorm:"type:varchar(30);not null;index"`
	Description       string           `gorm:"type:varchar(500);not null"`
	Amount            decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	VATAmount         decimal.Decimal  `gorm:"column:vat_amount;type:decimal(18,2);not null;default:0"`
	Currency          string           `gorm:"type:varchar(3);not null"`
	SupplierName      string           `gorm:"type:varchar(200)"`
	SupplierTIN       string           `gorm:"column:supplier_tin;type:varchar(9)"`
	ExpenseDate       time.Time        `gorm:"type:date;not null;index"`
	ReceiptDocumentID *uuid.UUID       `gorm:"type:uuid"`
	Status            expense.Status   `gorm:"type:varchar(20);not null;index"`
	SubmittedAt       *time.Time
	ReviewedBy        *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt        *time.Time
	ReviewNotes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain Expense
func (m *ExpenseModel) ToDomain() *expense.Expense {
	e := &expense.Expense{
		Category:          m.Category,
		Description:       m.Description,
		Amount:            m.Amount,
		VATAmount:         m.VATAmount,
		Currency:          valueobject.Currency(m.Currency),
		SupplierName:      m.SupplierName,
		SupplierTIN:       m.SupplierTIN,
		ExpenseDate:       m.ExpenseDate,
		ReceiptDocumentID: m.ReceiptDocumentID,
		Status:            m.Status,
		SubmittedAt:       m.SubmittedAt,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		ReviewNotes:       m.ReviewNotes,
	}
	m.PopulateCompanyAggregateRoot(&e.CompanyAggregateRoot)
	return e
}

// ExpenseModelFromDomain creates a persistence model from a domain Expense
func ExpenseModelFromDomain(e *expense.Expense) *ExpenseModel {
	m := &ExpenseModel{
		Category:          e.Category,
		Description:       e.Description,
		Amount:            e.Amount,
		VATAmount:         e.VATAmount,
		Currency:          e.Currency.String(),
		SupplierName:      e.SupplierName,
		SupplierTIN:       e.SupplierTIN,
		ExpenseDate:       e.ExpenseDate,
		ReceiptDocumentID: e.ReceiptDocumentID,
		Status:            e.Status,
		SubmittedAt:       e.SubmittedAt,
		ReviewedBy:        e.ReviewedBy,
		ReviewedAt:        e.ReviewedAt,
		ReviewNotes:       e.ReviewNotes,
	}
	m.FromDomainCompanyAggregateRoot(e.CompanyAggregateRoot)
	return m
}
