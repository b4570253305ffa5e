package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Filter narrows meeting listings
type Filter struct {
	shared.Filter
	Type   Type
	Status Status
	From   *time.Time
	To     *time.Time
}

// MeetingRepository defines persistence for meetings
type MeetingRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Meeting, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter Filter) ([]Meeting, int64, error)
	FindUpcoming(ctx context.Context, companyID uuid.UUID, from time.Time, limit int) ([]Meeting, error)
	CountUpcoming(ctx context.Context, companyID uuid.UUID, from time.Time) (int64, error)
	Save(ctx context.Context, m *Meeting) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
