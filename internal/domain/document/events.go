package document

import (
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// AggregateTypeDocument is the aggregate type name for documents
const AggregateTypeDocument = "Document"

// Document domain event types
const (
	EventTypeDocumentUploaded = "DocumentUploaded"
	EventTypeDocumentShared   = "DocumentShared"
)

// DocumentUploadedEvent is published when a file is added to the vault
type DocumentUploadedEvent struct {
	shared.EventHeader
	Title      string    `json:"title"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	SizeBytes  int64     `json:"size_bytes"`
}

// NewDocumentUploadedEvent creates a new DocumentUploadedEvent
func NewDocumentUploadedEvent(d *Document) *DocumentUploadedEvent {
	return &DocumentUploadedEvent{
		EventHeader: shared.NewEventHeader(EventTypeDocumentUploaded, AggregateTypeDocument, d.ID, d.CompanyID),
		Title:       d.Title,
		UploadedBy:  d.UploadedBy,
		SizeBytes:   d.SizeBytes,
	}
}

// DocumentSharedEvent is published when a user is granted access to a document
type DocumentSharedEvent struct {
	shared.EventHeader
	Title      string     `json:"title"`
	UserID     uuid.UUID  `json:"user_id"`
	Permission Permission `json:"permission"`
	GrantedBy  uuid.UUID  `json:"granted_by"`
}

// NewDocumentSharedEvent creates a new DocumentSharedEvent
func NewDocumentSharedEvent(d *Document, a *Access) *DocumentSharedEvent {
	return &DocumentSharedEvent{
		EventHeader: shared.NewEventHeader(EventTypeDocumentShared, AggregateTypeDocument, d.ID, d.CompanyID),
		Title:       d.Title,
		UserID:      a.UserID,
		Permission:  a.Permission,
		GrantedBy:   a.GrantedBy,
	}
}
