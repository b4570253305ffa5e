package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/billing"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ItemRequest is one invoice line
type ItemRequest struct {
	Description string          `json:"description" binding:"required,max=500" example:"Consulting, June"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" example:"50000"`
	VATRate     decimal.Decimal `json:"vat_rate" example:"18"`
}

// InvoiceRequest represents a request to create or update a draft invoice
type InvoiceRequest struct {
	CustomerName  string        `json:"customer_name" binding:"required,max=200" example:"Inzozi Traders Ltd"`
	CustomerTIN   string        `json:"customer_tin" binding:"omitempty,len=9,numeric" example:"123456789"`
	CustomerEmail string        `json:"customer_email" binding:"omitempty,email,max=255"`
	IssueDate     time.Time     `json:"issue_date" binding:"required"`
	DueDate       *time.Time    `json:"due_date"`
	Currency      string        `json:"currency" binding:"omitempty,len=3" example:"RWF"`
	Items         []ItemRequest `json:"items" binding:"required,min=1,max=200,dive"`
	Notes         string        `json:"notes" binding:"max=2000"`
}

func (r InvoiceRequest) toDraft() billing.Draft {
	items := make([]billing.ItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = billing.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
		}
	}
	d := billing.Draft{
		Customer:  billing.Customer{Name: r.CustomerName, TIN: r.CustomerTIN, Email: r.CustomerEmail},
		IssueDate: r.IssueDate,
		Currency:  valueobject.Currency(r.Currency),
		Items:     items,
		Notes:     r.Notes,
	}
	if r.DueDate != nil {
		d.DueDate = *r.DueDate
	}
	return d
}

// ListInvoicesRequest represents the query of an invoice listing
type ListInvoicesRequest struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=DRAFT ISSUED PARTIALLY_PAID PAID OVERDUE CANCELLED"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// ReceiptRequest records a payment against an invoice
type ReceiptRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required" example:"59000"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY CHEQUE CARD" example:"MOBILE_MONEY"`
	Reference     string          `json:"reference" binding:"max=100" example:"MP240612.1533.C12345"`
	PaidAt        *time.Time      `json:"paid_at"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

func (r ReceiptRequest) toPayment() billing.Payment {
	p := billing.Payment{
		Amount:        r.Amount,
		PaymentMethod: billing.PaymentMethod(r.PaymentMethod),
		Reference:     r.Reference,
		Notes:         r.Notes,
	}
	if r.PaidAt != nil {
		p.PaidAt = *r.PaidAt
	}
	return p
}

// ListReceiptsRequest represents the query of a receipt listing
type ListReceiptsRequest struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	InvoiceID *uuid.UUID `form:"invoice_id"`
}

// ItemResponse is an invoice line in API responses
type ItemResponse struct {
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Number        string          `json:"number"`
	CustomerName  string          `json:"customer_name"`
	CustomerTIN   string          `json:"customer_tin,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Currency      string          `json:"currency"`
	Items         []ItemResponse  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VATTotal      decimal.Decimal `json:"vat_total"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	IssuedAt      *time.Time      `json:"issued_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToInvoiceResponse converts an invoice to its response
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]ItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = ItemResponse{
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
			NetAmount:   it.NetAmount,
			VATAmount:   it.VATAmount,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		Number:        inv.Number,
		CustomerName:  inv.Customer.Name,
		CustomerTIN:   inv.Customer.TIN,
		CustomerEmail: inv.Customer.Email,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency.String(),
		Items:         items,
		Subtotal:      inv.Subtotal,
		VATTotal:      inv.VATTotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		Balance:       inv.Balance(),
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		IssuedAt:      inv.IssuedAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Number        string          `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToReceiptResponse converts a receipt to its response
func ToReceiptResponse(r *billing.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		InvoiceID:     r.InvoiceID,
		Number:        r.Number,
		Amount:        r.Amount,
		Currency:      r.Currency.String(),
		PaymentMethod: string(r.PaymentMethod),
		Reference:     r.Reference,
		PaidAt:        r.PaidAt,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// PaymentResponse is the result of recording a receipt
type PaymentResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Receipt ReceiptResponse `json:"receipt"`
}

// ReceivablesResponse summarises money owed to the company
type ReceivablesResponse struct {
	Outstanding  decimal.Decimal `json:"outstanding"`
	OverdueCount int64           `json:"overdue_count"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
}

// InvoicePrint is the data handed to the invoice print template
type InvoicePrint struct {
	Company CompanyPrint
	Invoice InvoiceResponse
	Printed time.Time
}

// CompanyPrint is the issuer block of a printed invoice
type CompanyPrint struct {
	Name          string
	TIN           string
	Address       string
	District      string
	Phone         string
	Email         string
	VATRegistered bool
}

func toCompanyPrint(c *company.Company) CompanyPrint {
	return CompanyPrint{
		Name:          c.Name,
		TIN:           c.TIN,
		Address:       c.Address,
		District:      c.District,
		Phone:         c.Phone,
		Email:         c.Email,
		VATRegistered: c.VATRegistered,
	}
}
