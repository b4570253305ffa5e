package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate
type CompanyModel struct {
	AggregateModel
	Name                 string            `gorm:"type:varchar(200);not null"`
	TIN                  string            `gorm:"column:tin;type:varchar(9);not null;uniqueIndex"`
	RDBNumber            string            `gorm:"column:rdb_number;type:varchar(50)"`
	RegistrationDate     *time.Time        `gorm:"type:date"`
	LegalForm            company.LegalForm `gorm:"type:varchar(30);not null"`
	Sector               string            `gorm:"type:varchar(100)"`
	District             string            `gorm:"type:varchar(100)"`
	Address              string            `gorm:"type:varchar(500)"`
	Phone                string            `gorm:"type:varchar(30)"`
	Email                string            `gorm:"type:varchar(254)"`
	FiscalYearStartMonth int               `gorm:"not null;default:1"`
	BaseCurrency         string            `gorm:"type:varchar(3);not null;default:'RWF'"`
	AuthorizedShares     int64             `gorm:"not null;default:0"`
	ShareNominalValue    decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	VATRegistered        bool              `gorm:"column:vat_registered;not null;default:false"`
	Status               company.Status    `gorm:"type:varchar(20);not null;index"`
	CreatedBy            uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the model to a domain Company
func (m *CompanyModel) ToDomain() *company.Company {
	c := &company.Company{
		Name:                 m.Name,
		TIN:                  m.TIN,
		RDBNumber:            m.RDBNumber,
		RegistrationDate:     m.RegistrationDate,
		LegalForm:            m.LegalForm,
		Sector:               m.Sector,
		District:             m.District,
		Address:              m.Address,
		Phone:                m.Phone,
		Email:                m.Email,
		FiscalYearStartMonth: m.FiscalYearStartMonth,
		BaseCurrency:         valueobject.Currency(m.BaseCurrency),
		AuthorizedShares:     m.AuthorizedShares,
		ShareNominalValue:    m.ShareNominalValue,
		VATRegistered:        m.VATRegistered,
		Status:               m.Status,
		CreatedBy:            m.CreatedBy,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// CompanyModelFromDomain creates a persistence model from a domain Company
func CompanyModelFromDomain(c *company.Company) *CompanyModel {
	m := &CompanyModel{
		Name:                 c.Name,
		TIN:                  c.TIN,
		RDBNumber:            c.RDBNumber,
		RegistrationDate:     c.RegistrationDate,
		LegalForm:            c.LegalForm,
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
		Status:               c.Status,
		CreatedBy:            c.CreatedBy,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// MembershipModel links users to companies
type MembershipModel struct {
	BaseModel
	CompanyID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_company_user"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_company_user;index"`
	Role      company.Role `gorm:"type:varchar(20);not null"`
	InvitedBy *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the model to a domain Membership
func (m *MembershipModel) ToDomain() *company.Membership {
	return &company.Membership{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		UserID:    m.UserID,
		Role:      m.Role,
		InvitedBy: m.InvitedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MembershipModelFromDomain creates a persistence model from a domain Membership
func MembershipModelFromDomain(ms *company.Membership) *MembershipModel {
	return &MembershipModel{
		BaseModel: BaseModel{ID: ms.ID, CreatedAt: ms.CreatedAt, UpdatedAt: ms.UpdatedAt},
		CompanyID: ms.CompanyID,
		UserID:    ms.UserID,
		Role:      ms.Role,
		InvitedBy: ms.InvitedBy,
	}
}
