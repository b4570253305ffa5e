package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issueDate = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newDraftInvoice(t *testing.T, items ...ItemInput) *Invoice {
	t.Helper()
	if len(items) == 0 {
		items = []ItemInput{
			{Description: "Consulting", Quantity: dec("3"), UnitPrice: dec("50000"), VATRate: dec("18")},
			{Description: "Books", Quantity: dec("2"), UnitPrice: dec("7500"), VATRate: decimal.Zero},
		}
	}
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-202503-00001", Draft{
		Customer:  Customer{Name: "Kigali Traders", TIN: "123456789"},
		IssueDate: issueDate,
		DueDate:   issueDate.AddDate(0, 0, 30),
		Items:     items,
	})
	require.NoError(t, err)
	return inv
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-202501-00042", FormatNumber(PrefixInvoice, time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), 42))
	assert.Equal(t, "RCT-202512-", NumberPeriod(PrefixReceipt, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNewInvoice_Totals(t *testing.T) {
	inv := newDraftInvoice(t)

	assert.Equal(t, valueobject.RWF, inv.Currency)
	assert.Equal(t, "165000", inv.Subtotal.String())
	assert.Equal(t, "27000", inv.VATTotal.String())
	assert.Equal(t, "192000", inv.Total.String())
	assert.Equal(t, 2, inv.Items[1].Position)
}

func TestNewInvoice_RoundsPerLine(t *testing.T) {
	inv := newDraftInvoice(t, ItemInput{Description: "Sugar", Quantity: dec("1.5"), UnitPrice: dec("333"), VATRate: dec("18")})

	// 1.5 x 333 = 499.5 -> 500, VAT 90
	assert.Equal(t, "500", inv.Subtotal.String())
	assert.Equal(t, "90", inv.VATTotal.String())
}

func TestNewInvoice_Validation(t *testing.T) {
	base := Draft{Customer: Customer{Name: "A"}, IssueDate: issueDate, Items: []ItemInput{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}}}

	tests := []struct {
		name   string
		mutate func(d *Draft)
	}{
		{"missing customer", func(d *Draft) { d.Customer.Name = "" }},
		{"bad tin", func(d *Draft) { d.Customer.TIN = "12" }},
		{"due before issue", func(d *Draft) { d.DueDate = issueDate.AddDate(0, 0, -1) }},
		{"no items", func(d *Draft) { d.Items = nil }},
		{"zero quantity", func(d *Draft) { d.Items = []ItemInput{{Description: "x", Quantity: decimal.Zero, UnitPrice: dec("1")}} }},
		{"odd vat rate", func(d *Draft) {
			d.Items = []ItemInput{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1"), VATRate: dec("5")}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			_, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", d)
			assert.Error(t, err)
		})
	}
}

func TestInvoiceLifecycle_Payments(t *testing.T) {
	inv := newDraftInvoice(t)
	_, err := NewReceipt(inv, uuid.New(), "RCT-1", Payment{Amount: dec("1000"), PaymentMethod: PaymentCash})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, inv.Issue(time.Now()))
	assert.Error(t, inv.Update(Draft{}))

	r, err := NewReceipt(inv, uuid.New(), "RCT-202503-00001", Payment{Amount: dec("92000"), PaymentMethod: PaymentMobileMoney})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, r.InvoiceID)
	assert.Equal(t, StatusPartiallyPaid, inv.Status)
	assert.Equal(t, "100000", inv.Balance().String())

	_, err = NewReceipt(inv, uuid.New(), "RCT-2", Payment{Amount: dec("100001"), PaymentMethod: PaymentCash})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.ErrorIs(t, inv.Cancel(), shared.ErrInvalidState)

	_, err = NewReceipt(inv, uuid.New(), "RCT-3", Payment{Amount: dec("100000"), PaymentMethod: PaymentBankTransfer})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.Balance().IsZero())
}

func TestMarkOverdue(t *testing.T) {
	inv := newDraftInvoice(t)
	assert.False(t, inv.MarkOverdue(issueDate.AddDate(1, 0, 0)))

	require.NoError(t, inv.Issue(issueDate))
	assert.False(t, inv.MarkOverdue(inv.DueDate.Add(12*time.Hour)))
	assert.True(t, inv.MarkOverdue(inv.DueDate.AddDate(0, 0, 1)))
	assert.Equal(t, StatusOverdue, inv.Status)

	// overdue invoices still accept payment and keep their status while partially paid
	_, err := NewReceipt(inv, uuid.New(), "RCT-1", Payment{Amount: dec("1000"), PaymentMethod: PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, inv.Status)
}

func TestCancelDraft(t *testing.T) {
	inv := newDraftInvoice(t)
	assert.True(t, inv.CanDelete())
	require.NoError(t, inv.Cancel())
	assert.Equal(t, StatusCancelled, inv.Status)
	assert.False(t, inv.CanDelete())
}
