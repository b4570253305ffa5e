package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoices. Items live in invoice_items.
type InvoiceModel struct {
	CompanyAggregateModel
	Number        string             `gorm:"type:varchar(20);not null;index"`
	CustomerName  string             `gorm:"type:varchar(200);not null"`
	CustomerTIN   string             `gorm:"column:customer_tin;type:varchar(9)"`
	CustomerEmail string             `gorm:"type:varchar(254)"`
	IssueDate     time.Time          `gorm:"type:date;not null;index"`
	DueDate       time.Time          `gorm:"type:date;not null;index"`
	Currency      string             `gorm:"type:varchar(3);not null"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	VATTotal      decimal.Decimal    `gorm:"column:vat_total;type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Status        billing.Status     `gorm:"type:varchar(20);not null;index"`
	Notes         string             `gorm:"type:text"`
	IssuedAt      *time.Time
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one invoice line
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATRate     decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,2);not null"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATAmount   decimal.Decimal `gorm:"column:vat_amount;type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the model, with any preloaded items, to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		Number:     m.Number,
		Customer:   billing.Customer{Name: m.CustomerName, TIN: m.CustomerTIN, Email: m.CustomerEmail},
		IssueDate:  m.IssueDate,
		DueDate:    m.DueDate,
		Currency:   valueobject.Currency(m.Currency),
		Subtotal:   m.Subtotal,
		VATTotal:   m.VATTotal,
		Total:      m.Total,
		AmountPaid: m.AmountPaid,
		Status:     m.Status,
		Notes:      m.Notes,
		IssuedAt:   m.IssuedAt,
		Items:      make([]billing.Item, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = billing.Item{
			ID:          it.ID,
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
			NetAmount:   it.NetAmount,
			VATAmount:   it.VATAmount,
		}
	}
	m.PopulateCompanyAggregateRoot(&inv.CompanyAggregateRoot)
	return inv
}

// InvoiceModelFromDomain creates a persistence model, items included, from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Number:        inv.Number,
		CustomerName:  inv.Customer.Name,
		CustomerTIN:   inv.Customer.TIN,
		CustomerEmail: inv.Customer.Email,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency.String(),
		Subtotal:      inv.Subtotal,
		VATTotal:      inv.VATTotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		Status:        inv.Status,
		Notes:         inv.Notes,
		IssuedAt:      inv.IssuedAt,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
			NetAmount:   it.NetAmount,
			VATAmount:   it.VATAmount,
		}
	}
	m.FromDomainCompanyAggregateRoot(inv.CompanyAggregateRoot)
	return m
}

// ReceiptModel is the persistence model for payment receipts
type ReceiptModel struct {
	CompanyAggregateModel
	InvoiceID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Number        string                `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Currency      string                `gorm:"type:varchar(3);not null"`
	PaymentMethod billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference     string                `gorm:"type:varchar(100)"`
	PaidAt        time.Time             `gorm:"not null;index"`
	Notes         string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the model to a domain Receipt
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	r := &billing.Receipt{
		InvoiceID:     m.InvoiceID,
		Number:        m.Number,
		Amount:        m.Amount,
		Currency:      valueobject.Currency(m.Currency),
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		PaidAt:        m.PaidAt,
		Notes:         m.Notes,
	}
	m.PopulateCompanyAggregateRoot(&r.CompanyAggregateRoot)
	return r
}

// ReceiptModelFromDomain creates a persistence model from a domain Receipt
func ReceiptModelFromDomain(r *billing.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		InvoiceID:     r.InvoiceID,
		Number:        r.Number,
		Amount:        r.Amount,
		Currency:      r.Currency.String(),
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		PaidAt:        r.PaidAt,
		Notes:         r.Notes,
	}
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	return m
}
