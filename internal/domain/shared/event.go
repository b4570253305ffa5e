package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Every event belongs to
// exactly one company so handlers never cross tenants.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	CompanyID() uuid.UUID
}

// EventHeader carries the metadata common to all events. Concrete events
// embed it and add their payload fields.
type EventHeader struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"type"`
	At        time.Time `json:"timestamp"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Company   uuid.UUID `json:"company_id"`
}

// NewEventHeader stamps a fresh id and the current UTC time
func NewEventHeader(eventType, aggregateType string, aggregateID, companyID uuid.UUID) EventHeader {
	return EventHeader{
		ID:        uuid.New(),
		Name:      eventType,
		At:        time.Now().UTC(),
		Aggregate: aggregateID,
		Kind:      aggregateType,
		Company:   companyID,
	}
}

func (h *EventHeader) EventID() uuid.UUID     { return h.ID }
func (h *EventHeader) EventType() string      { return h.Name }
func (h *EventHeader) OccurredAt() time.Time  { return h.At }
func (h *EventHeader) AggregateID() uuid.UUID { return h.Aggregate }
func (h *EventHeader) AggregateType() string  { return h.Kind }
func (h *EventHeader) CompanyID() uuid.UUID   { return h.Company }
