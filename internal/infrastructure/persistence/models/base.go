package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with the optimistic-locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from a domain aggregate root
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// PopulateAggregateRoot fills a domain aggregate root and marks it persisted
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	a.MarkPersisted(m.Version)
}

// CompanyAggregateModel provides the fields of company-scoped aggregate roots
type CompanyAggregateModel struct {
	AggregateModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainCompanyAggregateRoot populates the model from a CompanyAggregateRoot
func (m *CompanyAggregateModel) FromDomainCompanyAggregateRoot(c shared.CompanyAggregateRoot) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyID = c.CompanyID
	m.CreatedBy = c.CreatedBy
}

// PopulateCompanyAggregateRoot fills a domain CompanyAggregateRoot from the model
func (m *CompanyAggregateModel) PopulateCompanyAggregateRoot(c *shared.CompanyAggregateRoot) {
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	c.CompanyID = m.CompanyID
	c.CreatedBy = m.CreatedBy
}

// All lists every model, in dependency order, for AutoMigrate in tests and sqlite dev mode
func All() []any {
	return []any{
		&UserModel{},
		&CompanyModel{},
		&MembershipModel{},
		&PersonModel{},
		&LockedCapitalModel{},
		&WithdrawalRequestModel{},
		&DividendDeclarationModel{},
		&DividendDistributionModel{},
		&DocumentCategoryModel{},
		&DocumentModel{},
		&DocumentAccessModel{},
		&DocumentActivityModel{},
		&MeetingModel{},
		&NotificationModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&ReceiptModel{},
		&PayrollRunModel{},
		&PayslipModel{},
		&TaxFilingModel{},
		&ExpenseModel{},
		&FixedAssetModel{},
		&ExchangeRateModel{},
	}
}

// SetVersion overwrites the version column value before an update
func (m *AggregateModel) SetVersion(v int) {
	m.Version = v
}
