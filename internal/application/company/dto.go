package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CompanyRequest represents a request to create or update a company
type CompanyRequest struct {
	Name                 string          `json:"name" binding:"required,min=1,max=200" example:"Kigali Coffee Ltd"`
	TIN                  string          `json:"tin" binding:"required,len=9,numeric" example:"102345678"`
	RDBNumber            string          `json:"rdb_number" binding:"max=50"`
	RegistrationDate     *time.Time      `json:"registration_date"`
	LegalForm            string          `json:"legal_form" binding:"omitempty,oneof=LTD PLC SOLE_PROPRIETORSHIP COOPERATIVE PARTNERSHIP NGO" example:"LTD"`
	Sector               string          `json:"sector" binding:"max=100"`
	District             string          `json:"district" binding:"max=100" example:"Gasabo"`
	Address              string          `json:"address" binding:"max=500"`
	Phone                string          `json:"phone" binding:"max=30"`
	Email                string          `json:"email" binding:"omitempty,email"`
	FiscalYearStartMonth int             `json:"fiscal_year_start_month" binding:"omitempty,min=1,max=12" example:"1"`
	BaseCurrency         string          `json:"base_currency" binding:"omitempty,len=3" example:"RWF"`
	AuthorizedShares     int64           `json:"authorized_shares" binding:"min=0"`
	ShareNominalValue    decimal.Decimal `json:"share_nominal_value"`
	VATRegistered        bool            `json:"vat_registered"`
}

func (r CompanyRequest) toProfile() company.Profile {
	return company.Profile{
		Name:                 r.Name,
		TIN:                  r.TIN,
		RDBNumber:            r.RDBNumber,
		RegistrationDate:     r.RegistrationDate,
		LegalForm:            company.LegalForm(r.LegalForm),
		Sector:               r.Sector,
		District:             r.District,
		Address:              r.Address,
		Phone:                r.Phone,
		Email:                r.Email,
		FiscalYearStartMonth: r.FiscalYearStartMonth,
		BaseCurrency:         valueobject.Currency(r.BaseCurrency),
		AuthorizedShares:     r.AuthorizedShares,
		ShareNominalValue:    r.ShareNominalValue,
		VATRegistered:        r.VATRegistered,
	}
}

// SetStatusRequest moves a company between ACTIVE and DORMANT
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE DORMANT"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	TIN                  string          `json:"tin"`
	RDBNumber            string          `json:"rdb_number"`
	RegistrationDate     *time.Time      `json:"registration_date,omitempty"`
	LegalForm            string          `json:"legal_form"`
	Sector               string          `json:"sector"`
	District             string          `json:"district"`
	Address              string          `json:"address"`
	Phone                string          `json:"phone"`
	Email                string          `json:"email"`
	FiscalYearStartMonth int             `json:"fiscal_year_start_month"`
	BaseCurrency         string          `json:"base_currency"`
	AuthorizedShares     int64           `json:"authorized_shares"`
	ShareNominalValue    decimal.Decimal `json:"share_nominal_value"`
	VATRegistered        bool            `json:"vat_registered"`
	Status               string          `json:"status"`
	MyRole               string          `json:"my_role,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	Version              int             `json:"version"`
}

// ToCompanyResponse converts a domain company to a response
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		TIN:                  c.TIN,
		RDBNumber:            c.RDBNumber,
		RegistrationDate:     c.RegistrationDate,
		LegalForm:            string(c.LegalForm),
		Sector:               c.Sector,
		District:             c.District,
		Address:              c.Address,
		Phone:                c.Phone,
		Email:                c.Email,
		FiscalYearStartMonth: c.FiscalYearStartMonth,
		BaseCurrency:         c.BaseCurrency.String(),
		AuthorizedShares:     c.AuthorizedShares,
		ShareNominalValue:    c.ShareNominalValue,
		VATRegistered:        c.VATRegistered,
		Status:               string(c.Status),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		Version:              c.Version,
	}
}

// AddMemberRequest invites an existing user into the company
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email" example:"accountant@example.rw"`
	Role  string `json:"role" binding:"required,oneof=OWNER ADMIN ACCOUNTANT VIEWER" example:"ACCOUNTANT"`
}

// ChangeRoleRequest changes a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=OWNER ADMIN ACCOUNTANT VIEWER"`
}

// MemberResponse represents a membership with the member's profile
type MemberResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	InvitedBy *uuid.UUID `json:"invited_by,omitempty"`
	JoinedAt  time.Time  `json:"joined_at"`
}

// MemberAccess is the cached result of a membership check
type MemberAccess struct {
	CompanyID     uuid.UUID      `json:"company_id"`
	UserID        uuid.UUID      `json:"user_id"`
	Role          company.Role   `json:"role"`
	CompanyStatus company.Status `json:"company_status"`
}
