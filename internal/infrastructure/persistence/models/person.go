package models

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/shopspring/decimal"
)

// PersonModel is the persistence model for the Person aggregate.
// Employment columns are NULL-able and only populated for employees.
type PersonModel struct {
	CompanyAggregateModel
	FullName    string        `gorm:"type:varchar(200);not null"`
	NationalID  string        `gorm:"type:varchar(16);index"`
	Nationality string        `gorm:"type:varchar(2);not null;default:'RW'"`
	Email       string        `gorm:"type:varchar(254)"`
	Phone       string        `gorm:"type:varchar(30)"`
	Address     string        `gorm:"type:varchar(500)"`
	Roles       []person.Role `gorm:"type:text;serializer:json"`
	SharesHeld  int64         `gorm:"not null;default:0"`
	ShareClass  string        `gorm:"type:varchar(50)"`

	Position           string                   `gorm:"type:varchar(100)"`
	HireDate           *time.Time               `gorm:"type:date"`
	MonthlyGrossSalary *decimal.Decimal         `gorm:"type:decimal(18,2)"`
	Allowances         *decimal.Decimal         `gorm:"type:decimal(18,2)"`
	RSSBNumber         string                   `gorm:"column:rssb_number;type:varchar(50)"`
	BankAccount        string                   `gorm:"type:varchar(100)"`
	EmploymentStatus   *person.EmploymentStatus `gorm:"type:varchar(20);index"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "persons"
}

// ToDomain converts the model to a domain Person
func (m *PersonModel) ToDomain() *person.Person {
	p := &person.Person{
		FullName:    m.FullName,
		NationalID:  m.NationalID,
		Nationality: m.Nationality,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		Roles:       m.Roles,
		SharesHeld:  m.SharesHeld,
		ShareClass:  m.ShareClass,
	}
	if m.EmploymentStatus != nil {
		p.Employment = &person.Employment{
			Position:           m.Position,
			HireDate:           m.HireDate,
			MonthlyGrossSalary: decimalOrZero(m.MonthlyGrossSalary),
			Allowances:         decimalOrZero(m.Allowances),
			RSSBNumber:         m.RSSBNumber,
			BankAccount:        m.BankAccount,
			Status:             *m.EmploymentStatus,
		}
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	return p
}

// PersonModelFromDomain creates a persistence model from a domain Person
func PersonModelFromDomain(p *person.Person) *PersonModel {
	m := &PersonModel{
		FullName:    p.FullName,
		NationalID:  p.NationalID,
		Nationality: p.Nationality,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		Roles:       p.Roles,
		SharesHeld:  p.SharesHeld,
		ShareClass:  p.ShareClass,
	}
	if e := p.Employment; e != nil {
		status := e.Status
		salary := e.MonthlyGrossSalary
		allowances := e.Allowances
		m.Position = e.Position
		m.HireDate = e.HireDate
		m.MonthlyGrossSalary = &salary
		m.Allowances = &allowances
		m.RSSBNumber = e.RSSBNumber
		m.BankAccount = e.BankAccount
		m.EmploymentStatus = &status
	}
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	return m
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
