package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Role is the role a user holds within a company
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleViewer     Role = "VIEWER"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleAccountant, RoleViewer:
		return true
	}
	return false
}

// Action is a coarse permission checked against a role
type Action string

const (
	ActionRead           Action = "read"
	ActionWrite          Action = "write"
	ActionApprove        Action = "approve"
	ActionManageMembers  Action = "manage_members"
	ActionDeleteCompany  Action = "delete_company"
	ActionManageDocument Action = "manage_documents"
)

// Can reports whether the role allows the action
func (r Role) Can(action Action) bool {
	switch action {
	case ActionRead:
		return r.IsValid()
	case ActionWrite:
		return r == RoleOwner || r == RoleAdmin || r == RoleAccountant
	case ActionApprove, ActionManageMembers, ActionManageDocument:
		return r == RoleOwner || r == RoleAdmin
	case ActionDeleteCompany:
		return r == RoleOwner
	}
	return false
}

// IsPrivileged reports whether the role is OWNER or ADMIN
func (r Role) IsPrivileged() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Membership links a user to a company with a role
type Membership struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Role      Role
	InvitedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMembership creates a membership
func NewMembership(companyID, userID uuid.UUID, role Role, invitedBy *uuid.UUID) (*Membership, error) {
	if !role.IsValid() {
		return nil, shared.InvalidInput("Unknown role")
	}
	if userID == uuid.Nil || companyID == uuid.Nil {
		return nil, shared.InvalidInput("Company and user are required")
	}
	now := time.Now()
	return &Membership{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		InvitedBy: invitedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeRole updates the role. ownerCount is the number of owners in the company,
// used to keep at least one owner.
func (m *Membership) ChangeRole(role Role, ownerCount int64) error {
	if !role.IsValid() {
		return shared.InvalidInput("Unknown role")
	}
	if m.Role == RoleOwner && role != RoleOwner && ownerCount <= 1 {
		return shared.InvalidState("A company must keep at least one owner")
	}
	m.Role = role
	m.UpdatedAt = time.Now()
	return nil
}

// CanBeRemoved checks that removing the membership keeps at least one owner
func (m *Membership) CanBeRemoved(ownerCount int64) error {
	if m.Role == RoleOwner && ownerCount <= 1 {
		return shared.InvalidState("Cannot remove the last owner of a company")
	}
	return nil
}
