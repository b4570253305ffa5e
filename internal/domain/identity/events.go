package identity

import (
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type name for users
const AggregateTypeUser = "User"

// EventTypeUserRegistered is published when a new account signs up
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is published when a new account signs up
type UserRegisteredEvent struct {
	shared.EventHeader
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		EventHeader: shared.NewEventHeader(EventTypeUserRegistered, AggregateTypeUser, user.ID, uuid.Nil),
		Email:       user.Email,
		FullName:    user.FullName,
	}
}
