package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/document"
	"gorm.io/gorm"
)

// DocumentCategoryModel is the persistence model for document categories
type DocumentCategoryModel struct {
	CompanyAggregateModel
	Name            string `gorm:"type:varchar(100);not null"`
	Description     string `gorm:"type:varchar(500)"`
	Color           string `gorm:"type:varchar(7)"`
	RetentionMonths int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentCategoryModel) TableName() string {
	return "document_categories"
}

// ToDomain converts the model to a domain Category
func (m *DocumentCategoryModel) ToDomain() *document.Category {
	c := &document.Category{
		Name:            m.Name,
		Description:     m.Description,
		Color:           m.Color,
		RetentionMonths: m.RetentionMonths,
	}
	m.PopulateCompanyAggregateRoot(&c.CompanyAggregateRoot)
	return c
}

// DocumentCategoryModelFromDomain creates a persistence model from a domain Category
func DocumentCategoryModelFromDomain(c *document.Category) *DocumentCategoryModel {
	m := &DocumentCategoryModel{
		Name:            c.Name,
		Description:     c.Description,
		Color:           c.Color,
		RetentionMonths: c.RetentionMonths,
	}
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	return m
}

// DocumentModel stores document metadata. The binary lives in object storage
// under StorageKey. Rows are soft-deleted so the activity trail keeps its target.
type DocumentModel struct {
	CompanyAggregateModel
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	Title        string          `gorm:"type:varchar(255);not null"`
	Description  string          `gorm:"type:text"`
	FileName     string          `gorm:"type:varchar(255);not null"`
	MimeType     string          `gorm:"type:varchar(150);not null"`
	SizeBytes    int64           `gorm:"not null"`
	Checksum     string          `gorm:"type:varchar(64);not null"`
	StorageKey   string          `gorm:"type:varchar(500);not null"`
	Tags         []string        `gorm:"type:text;serializer:json"`
	Confidential bool            `gorm:"not null;default:false"`
	ExpiryDate   *time.Time      `gorm:"type:date"`
	Status       document.Status `gorm:"type:varchar(20);not null;index"`
	UploadedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	DeletedAt    gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	d := &document.Document{
		CategoryID:   m.CategoryID,
		Title:        m.Title,
		Description:  m.Description,
		FileName:     m.FileName,
		MimeType:     m.MimeType,
		SizeBytes:    m.SizeBytes,
		Checksum:     m.Checksum,
		StorageKey:   m.StorageKey,
		Tags:         m.Tags,
		Confidential: m.Confidential,
		ExpiryDate:   m.ExpiryDate,
		Status:       m.Status,
		UploadedBy:   m.UploadedBy,
	}
	m.PopulateCompanyAggregateRoot(&d.CompanyAggregateRoot)
	return d
}

// DocumentModelFromDomain creates a persistence model from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{
		CategoryID:   d.CategoryID,
		Title:        d.Title,
		Description:  d.Description,
		FileName:     d.FileName,
		MimeType:     d.MimeType,
		SizeBytes:    d.SizeBytes,
		Checksum:     d.Checksum,
		StorageKey:   d.StorageKey,
		Tags:         d.Tags,
		Confidential: d.Confidential,
		ExpiryDate:   d.ExpiryDate,
		Status:       d.Status,
		UploadedBy:   d.UploadedBy,
	}
	m.FromDomainCompanyAggregateRoot(d.CompanyAggregateRoot)
	return m
}

// DocumentAccessModel is an explicit per-user grant on a document
type DocumentAccessModel struct {
	BaseModel
	CompanyID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	DocumentID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_document_access_doc_user"`
	UserID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_document_access_doc_user;index"`
	Permission document.Permission `gorm:"type:varchar(10);not null"`
	GrantedBy  uuid.UUID           `gorm:"type:uuid;not null"`
	ExpiresAt  *time.Time
}

// TableName returns the table name for GORM
func (DocumentAccessModel) TableName() string {
	return "document_access"
}

// ToDomain converts the model to a domain Access
func (m *DocumentAccessModel) ToDomain() *document.Access {
	return &document.Access{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		DocumentID: m.DocumentID,
		UserID:     m.UserID,
		Permission: m.Permission,
		GrantedBy:  m.GrantedBy,
		ExpiresAt:  m.ExpiresAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// DocumentAccessModelFromDomain creates a persistence model from a domain Access
func DocumentAccessModelFromDomain(a *document.Access) *DocumentAccessModel {
	return &DocumentAccessModel{
		BaseModel:  BaseModel{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
		CompanyID:  a.CompanyID,
		DocumentID: a.DocumentID,
		UserID:     a.UserID,
		Permission: a.Permission,
		GrantedBy:  a.GrantedBy,
		ExpiresAt:  a.ExpiresAt,
	}
}

// DocumentActivityModel is one append-only audit entry
type DocumentActivityModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null"`
	Action     document.Action `gorm:"type:varchar(20);not null"`
	Details    string          `gorm:"type:text"`
	IPAddress  string          `gorm:"type:varchar(45)"`
	UserAgent  string          `gorm:"type:varchar(500)"`
	OccurredAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DocumentActivityModel) TableName() string {
	return "document_activities"
}

// ToDomain converts the model to a domain Activity
func (m *DocumentActivityModel) ToDomain() document.Activity {
	return document.Activity{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		DocumentID: m.DocumentID,
		UserID:     m.UserID,
		Action:     m.Action,
		Details:    m.Details,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		OccurredAt: m.OccurredAt,
	}
}

// DocumentActivityModelFromDomain creates a persistence model from a domain Activity
func DocumentActivityModelFromDomain(a *document.Activity) *DocumentActivityModel {
	return &DocumentActivityModel{
		ID:         a.ID,
		CompanyID:  a.CompanyID,
		DocumentID: a.DocumentID,
		UserID:     a.UserID,
		Action:     a.Action,
		Details:    a.Details,
		IPAddress:  a.IPAddress,
		UserAgent:  a.UserAgent,
		OccurredAt: a.OccurredAt,
	}
}
