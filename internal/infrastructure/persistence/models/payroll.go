package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// PayrollRunModel is the persistence model for a monthly payroll run
type PayrollRunModel struct {
	CompanyAggregateModel
	Year         int             `gorm:"not null"`
	Month        int             `gorm:"not null"`
	Status       payroll.Status  `gorm:"type:varchar(20);not null;index"`
	TotalGross   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPAYE    decimal.Decimal `gorm:"column:total_paye;type:decimal(18,2);not null;default:0"`
	TotalRSSBEe  decimal.Decimal `gorm:"column:total_rssb_employee;type:decimal(18,2);not null;default:0"`
	TotalRSSBEr  decimal.Decimal `gorm:"column:total_rssb_employer;type:decimal(18,2);not null;default:0"`
	TotalCBHI    decimal.Decimal `gorm:"column:total_cbhi;type:decimal(18,2);not null;default:0"`
	TotalNet     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	EmployerCost decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ApprovedBy   *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	PaidAt       *time.Time
	Payslips     []PayslipModel `gorm:"foreignKey:RunID"`
}

// TableName returns the table name for GORM
func (PayrollRunModel) TableName() string {
	return "payroll_runs"
}

// PayslipModel is one employee's line in a payroll run
type PayslipModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RunID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	PersonID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	FullName           string          `gorm:"type:varchar(200);not null"`
	RSSBNumber         string          `gorm:"column:rssb_number;type:varchar(50)"`
	BankAccount        string          `gorm:"type:varchar(100)"`
	BaseSalary         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Allowances         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Gross              decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PAYE               decimal.Decimal `gorm:"column:paye;type:decimal(18,2);not null"`
	PensionEmployee    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PensionEmployer    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MaternityEmployee  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MaternityEmployer  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	OccupationalHazard decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CBHI               decimal.Decimal `gorm:"column:cbhi;type:decimal(18,2);not null"`
	NetPay             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EmployerCost       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PayslipModel) TableName() string {
	return "payslips"
}

// ToDomain converts the model, with any preloaded payslips, to a domain Run
func (m *PayrollRunModel) ToDomain() *payroll.Run {
	r := &payroll.Run{
		Year:   m.Year,
		Month:  m.Month,
		Status: m.Status,
		Totals: payroll.Totals{
			Gross:        m.TotalGross,
			PAYE:         m.TotalPAYE,
			RSSBEmployee: m.TotalRSSBEe,
			RSSBEmployer: m.TotalRSSBEr,
			CBHI:         m.TotalCBHI,
			Net:          m.TotalNet,
			EmployerCost: m.EmployerCost,
		},
		ApprovedBy: m.ApprovedBy,
		ApprovedAt: m.ApprovedAt,
		PaidAt:     m.PaidAt,
		Payslips:   make([]payroll.Payslip, len(m.Payslips)),
	}
	for i := range m.Payslips {
		r.Payslips[i] = m.Payslips[i].ToDomain()
	}
	m.PopulateCompanyAggregateRoot(&r.CompanyAggregateRoot)
	return r
}

// ToDomain converts the model to a domain Payslip
func (m *PayslipModel) ToDomain() payroll.Payslip {
	return payroll.Payslip{
		ID:          m.ID,
		RunID:       m.RunID,
		CompanyID:   m.CompanyID,
		PersonID:    m.PersonID,
		FullName:    m.FullName,
		RSSBNumber:  m.RSSBNumber,
		BankAccount: m.BankAccount,
		BaseSalary:  m.BaseSalary,
		Allowances:  m.Allowances,
		Breakdown: payroll.Breakdown{
			Gross:              m.Gross,
			PAYE:               m.PAYE,
			PensionEmployee:    m.PensionEmployee,
			PensionEmployer:    m.PensionEmployer,
			MaternityEmployee:  m.MaternityEmployee,
			MaternityEmployer:  m.MaternityEmployer,
			OccupationalHazard: m.OccupationalHazard,
			CBHI:               m.CBHI,
			NetPay:             m.NetPay,
			EmployerCost:       m.EmployerCost,
		},
	}
}

// PayrollRunModelFromDomain creates a persistence model, payslips included, from a domain Run
func PayrollRunModelFromDomain(r *payroll.Run) *PayrollRunModel {
	m := &PayrollRunModel{
		Year:         r.Year,
		Month:        r.Month,
		Status:       r.Status,
		TotalGross:   r.Totals.Gross,
		TotalPAYE:    r.Totals.PAYE,
		TotalRSSBEe:  r.Totals.RSSBEmployee,
		TotalRSSBEr:  r.Totals.RSSBEmployer,
		TotalCBHI:    r.Totals.CBHI,
		TotalNet:     r.Totals.Net,
		EmployerCost: r.Totals.EmployerCost,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		PaidAt:       r.PaidAt,
		Payslips:     make([]PayslipModel, len(r.Payslips)),
	}
	for i, p := range r.Payslips {
		m.Payslips[i] = PayslipModel{
			ID:                 p.ID,
			RunID:              r.ID,
			CompanyID:          r.CompanyID,
			PersonID:           p.PersonID,
			FullName:           p.FullName,
			RSSBNumber:         p.RSSBNumber,
			BankAccount:        p.BankAccount,
			BaseSalary:         p.BaseSalary,
			Allowances:         p.Allowances,
			Gross:              p.Gross,
			PAYE:               p.PAYE,
			PensionEmployee:    p.PensionEmployee,
			PensionEmployer:    p.PensionEmployer,
			MaternityEmployee:  p.MaternityEmployee,
			MaternityEmployer:  p.MaternityEmployer,
			OccupationalHazard: p.OccupationalHazard,
			CBHI:               p.CBHI,
			NetPay:             p.NetPay,
			EmployerCost:       p.EmployerCost,
		}
	}
	m.FromDomainCompanyAggregateRoot(r.CompanyAggregateRoot)
	return m
}
