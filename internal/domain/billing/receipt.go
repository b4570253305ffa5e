package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a receipt was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentCheque       PaymentMethod = "CHEQUE"
	PaymentCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is a known value
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentBankTransfer, PaymentMobileMoney, PaymentCheque, PaymentCard:
		return true
	}
	return false
}

// Receipt records money received against an invoice
type Receipt struct {
	shared.CompanyAggregateRoot
	InvoiceID     uuid.UUID
	Number        string
	Amount        decimal.Decimal
	Currency      valueobject.Currency
	PaymentMethod PaymentMethod
	Reference     string
	PaidAt        time.Time
	Notes         string
}

// Payment carries the caller-supplied receipt fields
type Payment struct {
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Reference     string
	PaidAt        time.Time
	Notes         string
}

// NewReceipt applies the payment to the invoice and returns the receipt
func NewReceipt(inv *Invoice, createdBy uuid.UUID, number string, p Payment) (*Receipt, error) {
	if !p.PaymentMethod.IsValid() {
		return nil, shared.InvalidInput("Payment method must be CASH, BANK_TRANSFER, MOBILE_MONEY, CHEQUE or CARD")
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	amount := inv.Currency.Round(p.Amount)
	if err := inv.RecordPayment(amount); err != nil {
		return nil, err
	}
	r := &Receipt{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(inv.CompanyID, createdBy),
		InvoiceID:            inv.ID,
		Number:               number,
		Amount:               amount,
		Currency:             inv.Currency,
		PaymentMethod:        p.PaymentMethod,
		Reference:            strings.TrimSpace(p.Reference),
		PaidAt:               p.PaidAt,
		Notes:                strings.TrimSpace(p.Notes),
	}
	inv.AddDomainEvent(NewPaymentReceivedEvent(inv, r))
	return r, nil
}
