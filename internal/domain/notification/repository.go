package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Filter narrows a recipient's notification listing
type Filter struct {
	shared.Filter
	UnreadOnly bool
}

// NotificationRepository defines persistence for notifications. Every
// query is scoped to a company and a recipient.
type NotificationRepository interface {
	FindByID(ctx context.Context, companyID, userID, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, companyID, userID uuid.UUID, filter Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, companyID, userID uuid.UUID) (int64, error)
	SaveBatch(ctx context.Context, items []*Notification) error
	MarkRead(ctx context.Context, companyID, userID, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, companyID, userID uuid.UUID, at time.Time) (int64, error)
	Delete(ctx context.Context, companyID, userID, id uuid.UUID) error
	// ExistsSince reports whether a notification of the given type for the
	// entity was already created after the given time
	ExistsSince(ctx context.Context, companyID uuid.UUID, typ Type, entityID uuid.UUID, since time.Time) (bool, error)
}
