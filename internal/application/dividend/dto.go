package dividend

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/dividend"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DeclarationRequest represents a request to create or update a dividend declaration
type DeclarationRequest struct {
	FiscalYear         int              `json:"fiscal_year" binding:"required,min=1990,max=2200" example:"2024"`
	DeclarationDate    time.Time        `json:"declaration_date" binding:"required"`
	RecordDate         *time.Time       `json:"record_date"`
	PaymentDate        *time.Time       `json:"payment_date"`
	TotalAmount        decimal.Decimal  `json:"total_amount" binding:"required" example:"10000000"`
	Currency           string           `json:"currency" binding:"omitempty,len=3" example:"RWF"`
	WithholdingTaxRate *decimal.Decimal `json:"withholding_tax_rate" example:"0.15"`
	Notes              string           `json:"notes" binding:"max=2000"`
}

func (r DeclarationRequest) toTerms(defaultWHT decimal.Decimal) dividend.Terms {
	rate := r.WithholdingTaxRate
	if rate == nil {
		rate = &defaultWHT
	}
	return dividend.Terms{
		FiscalYear:         r.FiscalYear,
		DeclarationDate:    r.DeclarationDate,
		RecordDate:         r.RecordDate,
		PaymentDate:        r.PaymentDate,
		TotalAmount:        r.TotalAmount,
		Currency:           valueobject.Currency(r.Currency),
		WithholdingTaxRate: rate,
		Notes:              r.Notes,
	}
}

// ListDeclarationsRequest represents the query of a declaration listing
type ListDeclarationsRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT DECLARED DISTRIBUTED CANCELLED"`
	FiscalYear int    `form:"fiscal_year" binding:"omitempty,min=1990,max=2200"`
}

// CancelRequest carries the reason for cancelling a declaration
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// MarkPaidRequest records payment of a distribution
type MarkPaidRequest struct {
	PaymentReference string     `json:"payment_reference" binding:"required,max=100"`
	PaidAt           *time.Time `json:"paid_at"`
}

// DeclarationResponse represents a declaration in API responses
type DeclarationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	FiscalYear         int             `json:"fiscal_year"`
	DeclarationDate    time.Time       `json:"declaration_date"`
	RecordDate         *time.Time      `json:"record_date,omitempty"`
	PaymentDate        *time.Time      `json:"payment_date,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Currency           string          `json:"currency"`
	WithholdingTaxRate decimal.Decimal `json:"withholding_tax_rate"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes"`
	DeclaredBy         *uuid.UUID      `json:"declared_by,omitempty"`
	DeclaredAt         *time.Time      `json:"declared_at,omitempty"`
	DistributedAt      *time.Time      `json:"distributed_at,omitempty"`
	CancelReason       string          `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToDeclarationResponse converts a domain declaration to a response
func ToDeclarationResponse(d *dividend.Declaration) DeclarationResponse {
	return DeclarationResponse{
		ID:                 d.ID,
		CompanyID:          d.CompanyID,
		FiscalYear:         d.FiscalYear,
		DeclarationDate:    d.DeclarationDate,
		RecordDate:         d.RecordDate,
		PaymentDate:        d.PaymentDate,
		TotalAmount:        d.TotalAmount,
		Currency:           d.Currency.String(),
		WithholdingTaxRate: d.WithholdingTaxRate,
		Status:             string(d.Status),
		Notes:              d.Notes,
		DeclaredBy:         d.DeclaredBy,
		DeclaredAt:         d.DeclaredAt,
		DistributedAt:      d.DistributedAt,
		CancelReason:       d.CancelReason,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Version:            d.Version,
	}
}

// AllocationResponse is one shareholder's line in a preview or distribution
type AllocationResponse struct {
	ID                  *uuid.UUID      `json:"id,omitempty"`
	PersonID            uuid.UUID       `json:"person_id"`
	PersonName          string          `json:"person_name"`
	Shares              int64           `json:"shares"`
	OwnershipPercentage decimal.Decimal `json:"ownership_percentage"`
	GrossAmount         decimal.Decimal `json:"gross_amount"`
	WithholdingTax      decimal.Decimal `json:"withholding_tax"`
	NetAmount           decimal.Decimal `json:"net_amount"`
	Status              string          `json:"status,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	PaymentReference    string          `json:"payment_reference,omitempty"`
}

// DistributionSummary is the allocation of a declaration with its totals
type DistributionSummary struct {
	DeclarationID  uuid.UUID            `json:"declaration_id"`
	Currency       string               `json:"currency"`
	TotalShares    int64                `json:"total_shares"`
	GrossTotal     decimal.Decimal      `json:"gross_total"`
	WithholdingTax decimal.Decimal      `json:"withholding_tax_total"`
	NetTotal       decimal.Decimal      `json:"net_total"`
	Lines          []AllocationResponse `json:"lines"`
}

func summarizeAllocations(declarationID uuid.UUID, currency valueobject.Currency, allocs []dividend.Allocation) DistributionSummary {
	gross, wht, net := dividend.Totals(allocs)
	s := DistributionSummary{
		DeclarationID:  declarationID,
		Currency:       currency.String(),
		GrossTotal:     gross,
		WithholdingTax: wht,
		NetTotal:       net,
		Lines:          make([]AllocationResponse, len(allocs)),
	}
	for i, a := range allocs {
		s.TotalShares += a.Shares
		s.Lines[i] = AllocationResponse{
			PersonID:            a.PersonID,
			PersonName:          a.PersonName,
			Shares:              a.Shares,
			OwnershipPercentage: a.OwnershipPercentage,
			GrossAmount:         a.GrossAmount,
			WithholdingTax:      a.WithholdingTax,
			NetAmount:           a.NetAmount,
		}
	}
	return s
}

func summarizeDistributions(declarationID uuid.UUID, currency valueobject.Currency, distributions []dividend.Distribution) DistributionSummary {
	s := DistributionSummary{
		DeclarationID: declarationID,
		Currency:      currency.String(),
		Lines:         make([]AllocationResponse, len(distributions)),
	}
	for i := range distributions {
		d := &distributions[i]
		s.TotalShares += d.Shares
		s.GrossTotal = s.GrossTotal.Add(d.GrossAmount)
		s.WithholdingTax = s.WithholdingTax.Add(d.WithholdingTax)
		s.NetTotal = s.NetTotal.Add(d.NetAmount)
		s.Lines[i] = ToAllocationResponse(d)
	}
	return s
}

// ToAllocationResponse converts a stored distribution to a response line
func ToAllocationResponse(d *dividend.Distribution) AllocationResponse {
	id := d.ID
	return AllocationResponse{
		ID:                  &id,
		PersonID:            d.PersonID,
		PersonName:          d.PersonName,
		Shares:              d.Shares,
		OwnershipPercentage: d.OwnershipPercentage,
		GrossAmount:         d.GrossAmount,
		WithholdingTax:      d.WithholdingTax,
		NetAmount:           d.NetAmount,
		Status:              string(d.Status),
		PaidAt:              d.PaidAt,
		PaymentReference:    d.PaymentReference,
	}
}
