package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows expense listings
type Filter struct {
	shared.Filter
	Category Category
	Status   Status
	From     *time.Time
	To       *time.Time
}

// CategoryTotal is the sum of expenses in one category
type CategoryTotal struct {
	Category   Category        `json:"category"`
	Deductible bool            `json:"deductible"`
	Amount     decimal.Decimal `json:"amount"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	Count      int64           `json:"count"`
}

// ExpenseRepository defines persistence for expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Expense, int64, error)
	// SumByCategory totals expenses dated in [from, to], optionally restricted to a status
	SumByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time, status Status) ([]CategoryTotal, error)
	Save(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
