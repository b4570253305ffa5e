package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// CategoryRepository defines persistence for document categories
type CategoryRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, companyID uuid.UUID) ([]Category, error)
	ExistsByName(ctx context.Context, companyID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	CountDocuments(ctx context.Context, companyID, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// Filter narrows document listings
type Filter struct {
	shared.Filter
	CategoryID *uuid.UUID
	Status     Status
	Tag        string
	// VisibleTo restricts confidential documents to those uploaded by or
	// explicitly granted to this user. Nil means no restriction.
	VisibleTo *uuid.UUID
}

// DocumentRepository defines persistence for documents
type DocumentRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Document, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Document, int64, error)
	Count(ctx context.Context, companyID uuid.UUID) (int64, error)
	Save(ctx context.Context, d *Document) error
	// Delete soft-deletes the document record
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// AccessRepository defines persistence for access grants
type AccessRepository interface {
	Find(ctx context.Context, companyID, documentID, userID uuid.UUID) (*Access, error)
	FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]Access, error)
	Save(ctx context.Context, a *Access) error
	Delete(ctx context.Context, companyID, documentID, userID uuid.UUID) error
}

// ActivityRepository defines persistence for the document audit trail
type ActivityRepository interface {
	Append(ctx context.Context, a *Activity) error
	FindByDocument(ctx context.Context, companyID, documentID uuid.UUID, filter shared.Filter) ([]Activity, int64, error)
}
