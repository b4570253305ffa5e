package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Permission is the level of access granted on a document
type Permission string

const (
	PermissionView   Permission = "VIEW"
	PermissionEdit   Permission = "EDIT"
	PermissionManage Permission = "MANAGE"
)

// IsValid checks if the permission is a known value
func (p Permission) IsValid() bool {
	return p == PermissionView || p == PermissionEdit || p == PermissionManage
}

func (p Permission) rank() int {
	switch p {
	case PermissionView:
		return 1
	case PermissionEdit:
		return 2
	case PermissionManage:
		return 3
	}
	return 0
}

// Includes reports whether p grants at least the other permission
func (p Permission) Includes(other Permission) bool {
	return p.rank() >= other.rank() && other.rank() > 0
}

// Access is an explicit grant of a permission on a document to a user
type Access struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Permission Permission
	GrantedBy  uuid.UUID
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewAccess creates an access grant
func NewAccess(doc *Document, userID, grantedBy uuid.UUID, permission Permission, expiresAt *time.Time) (*Access, error) {
	if !permission.IsValid() {
		return nil, shared.InvalidInput("Permission must be VIEW, EDIT or MANAGE")
	}
	if userID == uuid.Nil {
		return nil, shared.InvalidInput("User is required")
	}
	now := time.Now()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, shared.InvalidInput("Expiry must be in the future")
	}
	return &Access{
		ID:         uuid.New(),
		CompanyID:  doc.CompanyID,
		DocumentID: doc.ID,
		UserID:     userID,
		Permission: permission,
		GrantedBy:  grantedBy,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsActive reports whether the grant is still in effect
func (a *Access) IsActive(now time.Time) bool {
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

// Policy decides what a member may do with a document
type Policy struct {
	Role   company.Role
	UserID uuid.UUID
	// Grant is the caller's explicit grant on the document, if any
	Grant *Access
}

func (p Policy) granted(now time.Time, need Permission) bool {
	return p.Grant != nil && p.Grant.UserID == p.UserID && p.Grant.IsActive(now) && p.Grant.Permission.Includes(need)
}

// CanView reports whether the caller may see and download the document
func (p Policy) CanView(doc *Document, now time.Time) bool {
	if p.Role.IsPrivileged() {
		return true
	}
	if !p.Role.IsValid() {
		return false
	}
	if !doc.Confidential || doc.UploadedBy == p.UserID {
		return true
	}
	return p.granted(now, PermissionView)
}

// CanEdit reports whether the caller may change metadata, archive or restore
func (p Policy) CanEdit(doc *Document, now time.Time) bool {
	if p.Role.IsPrivileged() {
		return true
	}
	if p.Role.Can(company.ActionWrite) && doc.UploadedBy == p.UserID {
		return true
	}
	return p.CanView(doc, now) && p.granted(now, PermissionEdit)
}

// CanManage reports whether the caller may share, revoke or delete
func (p Policy) CanManage(doc *Document, now time.Time) bool {
	if p.Role.IsPrivileged() {
		return true
	}
	return p.granted(now, PermissionManage)
}
