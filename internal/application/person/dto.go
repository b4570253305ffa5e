package person

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/shopspring/decimal"
)

// EmploymentRequest carries the employee fields of a person
type EmploymentRequest struct {
	Position           string          `json:"position" binding:"max=100" example:"Accountant"`
	HireDate           *time.Time      `json:"hire_date"`
	MonthlyGrossSalary decimal.Decimal `json:"monthly_gross_salary" example:"450000"`
	Allowances         decimal.Decimal `json:"allowances" example:"50000"`
	RSSBNumber         string          `json:"rssb_number" binding:"max=30"`
	BankAccount        string          `json:"bank_account" binding:"max=50"`
	Status             string          `json:"status" binding:"omitempty,oneof=ACTIVE TERMINATED"`
}

// PersonRequest represents a request to create or update a person
type PersonRequest struct {
	FullName    string             `json:"full_name" binding:"required,min=1,max=200" example:"Aline Uwase"`
	NationalID  string             `json:"national_id" binding:"max=20" example:"1199080012345678"`
	Nationality string             `json:"nationality" binding:"omitempty,len=2" example:"RW"`
	Email       string             `json:"email" binding:"omitempty,email"`
	Phone       string             `json:"phone" binding:"max=30"`
	Address     string             `json:"address" binding:"max=500"`
	Roles       []string           `json:"roles" binding:"required,min=1,dive,oneof=SHAREHOLDER DIRECTOR EMPLOYEE"`
	SharesHeld  int64              `json:"shares_held" binding:"min=0"`
	ShareClass  string             `json:"share_class" binding:"max=30"`
	Employment  *EmploymentRequest `json:"employment"`
}

func (r PersonRequest) toDetails() person.Details {
	roles := make([]person.Role, len(r.Roles))
	for i, role := range r.Roles {
		roles[i] = person.Role(role)
	}
	d := person.Details{
		FullName:    r.FullName,
		NationalID:  r.NationalID,
		Nationality: r.Nationality,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		Roles:       roles,
		SharesHeld:  r.SharesHeld,
		ShareClass:  r.ShareClass,
	}
	if r.Employment != nil {
		d.Employment = &person.Employment{
			Position:           r.Employment.Position,
			HireDate:           r.Employment.HireDate,
			MonthlyGrossSalary: r.Employment.MonthlyGrossSalary,
			Allowances:         r.Employment.Allowances,
			RSSBNumber:         r.Employment.RSSBNumber,
			BankAccount:        r.Employment.BankAccount,
			Status:             person.EmploymentStatus(r.Employment.Status),
		}
	}
	return d
}

// UpdateSharesRequest changes a shareholder's holding
type UpdateSharesRequest struct {
	SharesHeld int64  `json:"shares_held" binding:"min=0" example:"1000"`
	ShareClass string `json:"share_class" binding:"max=30" example:"ORDINARY"`
}

// ListPersonsRequest represents the query of a person listing
type ListPersonsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=SHAREHOLDER DIRECTOR EMPLOYEE"`
}

// EmploymentResponse represents employment details in API responses
type EmploymentResponse struct {
	Position           string          `json:"position"`
	HireDate           *time.Time      `json:"hire_date,omitempty"`
	MonthlyGrossSalary decimal.Decimal `json:"monthly_gross_salary"`
	Allowances         decimal.Decimal `json:"allowances"`
	RSSBNumber         string          `json:"rssb_number"`
	BankAccount        string          `json:"bank_account"`
	Status             string          `json:"status"`
}

// PersonResponse represents a person in API responses
type PersonResponse struct {
	ID          uuid.UUID           `json:"id"`
	CompanyID   uuid.UUID           `json:"company_id"`
	FullName    string              `json:"full_name"`
	NationalID  string              `json:"national_id"`
	Nationality string              `json:"nationality"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Roles       []string            `json:"roles"`
	SharesHeld  int64               `json:"shares_held"`
	ShareClass  string              `json:"share_class,omitempty"`
	Employment  *EmploymentResponse `json:"employment,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToPersonResponse converts a domain person to a response
func ToPersonResponse(p *person.Person) PersonResponse {
	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}
	resp := PersonResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		FullName:    p.FullName,
		NationalID:  p.NationalID,
		Nationality: p.Nationality,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		Roles:       roles,
		SharesHeld:  p.SharesHeld,
		ShareClass:  p.ShareClass,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
	if e := p.Employment; e != nil {
		resp.Employment = &EmploymentResponse{
			Position:           e.Position,
			HireDate:           e.HireDate,
			MonthlyGrossSalary: e.MonthlyGrossSalary,
			Allowances:         e.Allowances,
			RSSBNumber:         e.RSSBNumber,
			BankAccount:        e.BankAccount,
			Status:             string(e.Status),
		}
	}
	return resp
}
