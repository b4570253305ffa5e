// Package access carries the caller identity and company role into application services.
package access

import (
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Actor is the authenticated user acting inside one company
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      company.Role
	IPAddress string
	UserAgent string
}

// Require returns FORBIDDEN unless the actor's role allows the action
func (a Actor) Require(action company.Action) error {
	if a.Role.Can(action) {
		return nil
	}
	return shared.Forbidden(forbiddenMessage(action))
}

// IsPrivileged reports whether the actor is an OWNER or ADMIN
func (a Actor) IsPrivileged() bool {
	return a.Role.IsPrivileged()
}

// CreatorID returns a pointer to the actor's user id for audit fields
func (a Actor) CreatorID() *uuid.UUID {
	id := a.UserID
	return &id
}

func forbiddenMessage(action company.Action) string {
	switch action {
	case company.ActionWrite:
		return "Your role has read-only access to this company"
	case company.ActionApprove:
		return "Only an owner or admin can approve this"
	case company.ActionManageMembers:
		return "Only an owner or admin can manage members"
	case company.ActionDeleteCompany:
		return "Only an owner can delete the company"
	case company.ActionManageDocument:
		return "Only an owner or admin can manage document access"
	}
	return "You do not have access to this company"
}
