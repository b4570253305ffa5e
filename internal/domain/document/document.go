package document

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Status represents the lifecycle of a document
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// MaxTags bounds the number of tags on a document
const MaxTags = 20

// Document is a file stored in the company vault
type Document struct {
	shared.CompanyAggregateRoot
	CategoryID   *uuid.UUID
	Title        string
	Description  string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Checksum     string
	StorageKey   string
	Tags         []string
	Confidential bool
	ExpiryDate   *time.Time
	Status       Status
	UploadedBy   uuid.UUID
}

// Metadata carries the editable fields of a document
type Metadata struct {
	CategoryID   *uuid.UUID
	Title        string
	Description  string
	Tags         []string
	Confidential bool
	ExpiryDate   *time.Time
}

// StoredFile describes the uploaded object backing a document
type StoredFile struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	Checksum   string
	StorageKey string
}

// NewDocument creates a document record for an uploaded file
func NewDocument(companyID, uploadedBy uuid.UUID, file StoredFile, meta Metadata) (*Document, error) {
	if file.StorageKey == "" {
		return nil, shared.InvalidInput("Storage key is required")
	}
	if file.SizeBytes <= 0 {
		return nil, shared.InvalidInput("File is empty")
	}
	d := &Document{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, uploadedBy),
		FileName:             SanitizeFileName(file.FileName),
		MimeType:             file.MimeType,
		SizeBytes:            file.SizeBytes,
		Checksum:             file.Checksum,
		StorageKey:           file.StorageKey,
		Status:               StatusActive,
		UploadedBy:           uploadedBy,
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = strings.TrimSuffix(d.FileName, filepath.Ext(d.FileName))
	}
	if err := d.apply(meta); err != nil {
		return nil, err
	}
	d.AddDomainEvent(NewDocumentUploadedEvent(d))
	return d, nil
}

// UpdateMetadata changes the descriptive fields of an active document
func (d *Document) UpdateMetadata(meta Metadata) error {
	if d.Status != StatusActive {
		return shared.InvalidState("Archived documents cannot be edited")
	}
	if err := d.apply(meta); err != nil {
		return err
	}
	d.Touch()
	d.IncrementVersion()
	return nil
}

func (d *Document) apply(m Metadata) error {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		return shared.InvalidInput("Title is required")
	}
	if len(title) > 255 {
		return shared.InvalidInput("Title cannot exceed 255 characters")
	}
	if len(m.Tags) > MaxTags {
		return shared.InvalidInput("A document can have at most 20 tags")
	}
	tags := make([]string, 0, len(m.Tags))
	seen := make(map[string]bool, len(m.Tags))
	for _, tag := range m.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	d.CategoryID = m.CategoryID
	d.Title = title
	d.Description = strings.TrimSpace(m.Description)
	d.Tags = tags
	d.Confidential = m.Confidential
	d.ExpiryDate = m.ExpiryDate
	return nil
}

// Archive hides the document from active listings
func (d *Document) Archive() error {
	if d.Status == StatusArchived {
		return shared.InvalidState("Document is already archived")
	}
	d.Status = StatusArchived
	d.Touch()
	d.IncrementVersion()
	return nil
}

// Restore brings an archived document back
func (d *Document) Restore() error {
	if d.Status != StatusArchived {
		return shared.InvalidState("Document is not archived")
	}
	d.Status = StatusActive
	d.Touch()
	d.IncrementVersion()
	return nil
}

// IsExpired reports whether the document's expiry date has passed
func (d *Document) IsExpired(now time.Time) bool {
	return d.ExpiryDate != nil && now.After(*d.ExpiryDate)
}

// SanitizeFileName strips directories and control characters from a client file name
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 || r == '"' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	if len(name) > 255 {
		ext := filepath.Ext(name)
		name = name[:255-len(ext)] + ext
	}
	return name
}
