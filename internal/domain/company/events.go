package company

import "github.com/rwbiz/backend/internal/domain/shared"

// AggregateTypeCompany is the aggregate type name for companies
const AggregateTypeCompany = "Company"

// Company domain event types
const (
	EventTypeCompanyCreated      = "CompanyCreated"
	EventTypeCompanyDeregistered = "CompanyDeregistered"
)

// CompanyCreatedEvent is published when a company is registered
type CompanyCreatedEvent struct {
	shared.EventHeader
	Name string `json:"name"`
	TIN  string `json:"tin"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(c *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeCompanyCreated, AggregateTypeCompany, c.ID, c.ID),
		Name:        c.Name,
		TIN:         c.TIN,
	}
}

// CompanyDeregisteredEvent is published when a company is soft-deleted
type CompanyDeregisteredEvent struct {
	shared.EventHeader
	Name string `json:"name"`
}

// NewCompanyDeregisteredEvent creates a new CompanyDeregisteredEvent
func NewCompanyDeregisteredEvent(c *Company) *CompanyDeregisteredEvent {
	return &CompanyDeregisteredEvent{
		EventHeader: shared.NewEventHeader(EventTypeCompanyDeregistered, AggregateTypeCompany, c.ID, c.ID),
		Name:        c.Name,
	}
}
