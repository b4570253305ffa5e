package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/identity"
)

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// LoginInput carries the client IP for the login audit log
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo is a user without credentials
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput revokes the access token TokenJTI for the rest of its
// lifetime, and RefreshToken too when one is sent
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	TokenTTL     time.Duration
	RefreshToken string
}

// UpdateProfileInput replaces both fields, an empty Phone clears it
type UpdateProfileInput struct {
	UserID   uuid.UUID
	FullName string
	Phone    string
}

type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
