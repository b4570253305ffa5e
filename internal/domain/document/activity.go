package document

import (
	"time"

	"github.com/google/uuid"
)

// Action is a kind of document activity
type Action string

const (
	ActionUploaded   Action = "UPLOADED"
	ActionViewed     Action = "VIEWED"
	ActionDownloaded Action = "DOWNLOADED"
	ActionUpdated    Action = "UPDATED"
	ActionArchived   Action = "ARCHIVED"
	ActionRestored   Action = "RESTORED"
	ActionShared     Action = "SHARED"
	ActionRevoked    Action = "REVOKED"
	ActionDeleted    Action = "DELETED"
)

// Activity is an append-only audit entry for a document
type Activity struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Action     Action
	Details    string
	IPAddress  string
	UserAgent  string
	OccurredAt time.Time
}

// Actor identifies who performed an action and from where
type Actor struct {
	UserID    uuid.UUID
	IPAddress string
	UserAgent string
}

// NewActivity records an action on a document
func NewActivity(doc *Document, actor Actor, action Action, details string) *Activity {
	ua := actor.UserAgent
	if len(ua) > 500 {
		ua = ua[:500]
	}
	return &Activity{
		ID:         uuid.New(),
		CompanyID:  doc.CompanyID,
		DocumentID: doc.ID,
		UserID:     actor.UserID,
		Action:     action,
		Details:    details,
		IPAddress:  actor.IPAddress,
		UserAgent:  ua,
		OccurredAt: time.Now(),
	}
}
