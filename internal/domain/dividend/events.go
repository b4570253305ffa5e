package dividend

import (
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeDeclaration is the aggregate type name for declarations
const AggregateTypeDeclaration = "DividendDeclaration"

// Dividend domain event types
const (
	EventTypeDividendDeclared    = "DividendDeclared"
	EventTypeDividendDistributed = "DividendDistributed"
)

// DividendDeclaredEvent is published when a dividend becomes binding
type DividendDeclaredEvent struct {
	shared.EventHeader
	FiscalYear  int             `json:"fiscal_year"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewDividendDeclaredEvent creates a new DividendDeclaredEvent
func NewDividendDeclaredEvent(d *Declaration) *DividendDeclaredEvent {
	return &DividendDeclaredEvent{
		EventHeader: shared.NewEventHeader(EventTypeDividendDeclared, AggregateTypeDeclaration, d.ID, d.CompanyID),
		FiscalYear:  d.FiscalYear,
		TotalAmount: d.TotalAmount,
		Currency:    d.Currency.String(),
	}
}

// DividendDistributedEvent is published when a pool is split among shareholders
type DividendDistributedEvent struct {
	shared.EventHeader
	FiscalYear    int `json:"fiscal_year"`
	Distributions int `json:"distributions"`
}

// NewDividendDistributedEvent creates a new DividendDistributedEvent
func NewDividendDistributedEvent(d *Declaration, count int) *DividendDistributedEvent {
	return &DividendDistributedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeDividendDistributed, AggregateTypeDeclaration, d.ID, d.CompanyID),
		FiscalYear:    d.FiscalYear,
		Distributions: count,
	}
}
