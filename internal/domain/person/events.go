package person

import "github.com/rwbiz/backend/internal/domain/shared"

// AggregateTypePerson is the aggregate type name for persons
const AggregateTypePerson = "Person"

// EventTypeSharesChanged is published when a shareholder's holding changes
const EventTypeSharesChanged = "SharesChanged"

// SharesChangedEvent is published when a shareholder's holding changes
type SharesChangedEvent struct {
	shared.EventHeader
	PersonName string `json:"person_name"`
	Before     int64  `json:"before"`
	After      int64  `json:"after"`
}

// NewSharesChangedEvent creates a new SharesChangedEvent
func NewSharesChangedEvent(p *Person, before int64) *SharesChangedEvent {
	return &SharesChangedEvent{
		EventHeader: shared.NewEventHeader(EventTypeSharesChanged, AggregateTypePerson, p.ID, p.CompanyID),
		PersonName:  p.FullName,
		Before:      before,
		After:       p.SharesHeld,
	}
}
