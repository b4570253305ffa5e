package document

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/document"
)

// CategoryRequest represents a request to create or update a document category
type CategoryRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=100" example:"Statutory"`
	Description     string `json:"description" binding:"max=500"`
	Color           string `json:"color" binding:"omitempty,hexcolor" example:"#1f6feb"`
	RetentionMonths int    `json:"retention_months" binding:"min=0,max=1200" example:"120"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Color           string    `json:"color"`
	RetentionMonths int       `json:"retention_months"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *document.Category) CategoryResponse {
	return CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Color:           c.Color,
		RetentionMonths: c.RetentionMonths,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// MetadataRequest carries the descriptive fields of a document
type MetadataRequest struct {
	CategoryID   *uuid.UUID `json:"category_id" form:"category_id"`
	Title        string     `json:"title" form:"title" binding:"max=255"`
	Description  string     `json:"description" form:"description" binding:"max=2000"`
	Tags         []string   `json:"tags" form:"tags" binding:"max=20,dive,max=50"`
	Confidential bool       `json:"confidential" form:"confidential"`
	ExpiryDate   *time.Time `json:"expiry_date" form:"expiry_date" time_format:"2006-01-02"`
}

func (r MetadataRequest) toMetadata() document.Metadata {
	return document.Metadata{
		CategoryID:   r.CategoryID,
		Title:        r.Title,
		Description:  r.Description,
		Tags:         r.Tags,
		Confidential: r.Confidential,
		ExpiryDate:   r.ExpiryDate,
	}
}

// UploadInput is a file received from a multipart form
type UploadInput struct {
	FileName string
	Size     int64
	Content  io.Reader
	Metadata MetadataRequest
}

// ListDocumentsRequest represents the query of a document listing
type ListDocumentsRequest struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=ACTIVE ARCHIVED"`
	Tag        string     `form:"tag"`
}

// GrantAccessRequest shares a document with a member
type GrantAccessRequest struct {
	UserID     uuid.UUID  `json:"user_id" binding:"required"`
	Permission string     `json:"permission" binding:"required,oneof=VIEW EDIT MANAGE"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// ListActivitiesRequest pages the audit trail
type ListActivitiesRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	FileName     string     `json:"file_name"`
	MimeType     string     `json:"mime_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Checksum     string     `json:"checksum"`
	Tags         []string   `json:"tags"`
	Confidential bool       `json:"confidential"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Expired      bool       `json:"expired"`
	Status       string     `json:"status"`
	UploadedBy   uuid.UUID  `json:"uploaded_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// ToDocumentResponse converts a domain document to a response
func ToDocumentResponse(d *document.Document, now time.Time) DocumentResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentResponse{
		ID:           d.ID,
		CompanyID:    d.CompanyID,
		CategoryID:   d.CategoryID,
		Title:        d.Title,
		Description:  d.Description,
		FileName:     d.FileName,
		MimeType:     d.MimeType,
		SizeBytes:    d.SizeBytes,
		Checksum:     d.Checksum,
		Tags:         tags,
		Confidential: d.Confidential,
		ExpiryDate:   d.ExpiryDate,
		Expired:      d.IsExpired(now),
		Status:       string(d.Status),
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}
}

// AccessResponse represents an access grant in API responses
type AccessResponse struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Permission string     `json:"permission"`
	GrantedBy  uuid.UUID  `json:"granted_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToAccessResponse converts a domain grant to a response
func ToAccessResponse(a *document.Access) AccessResponse {
	return AccessResponse{
		ID:         a.ID,
		DocumentID: a.DocumentID,
		UserID:     a.UserID,
		Permission: string(a.Permission),
		GrantedBy:  a.GrantedBy,
		ExpiresAt:  a.ExpiresAt,
		CreatedAt:  a.CreatedAt,
	}
}

// ActivityResponse represents an audit entry in API responses
type ActivityResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToActivityResponse converts a domain activity to a response
func ToActivityResponse(a *document.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Action:     string(a.Action),
		Details:    a.Details,
		IPAddress:  a.IPAddress,
		UserAgent:  a.UserAgent,
		OccurredAt: a.OccurredAt,
	}
}

// Download is an opened document ready to stream, or a redirect target
type Download struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
	RedirectURL string
	ExpiresAt   time.Time
}
