package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// IsValid checks if the status is a known value
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusDisabled
}

// Password cost for bcrypt
var bcryptCost = 12

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// User is a global account. Access to company data is granted through memberships.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	Status       UserStatus
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, password, fullName string) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.InvalidInput("Full name is required")
	}
	if len(fullName) > 200 {
		return nil, shared.InvalidInput("Full name cannot exceed 200 characters")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          fullName,
		PasswordHash:      hash,
		Status:            UserStatusActive,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// UpdateProfile changes the display fields of the user
func (u *User) UpdateProfile(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.InvalidInput("Full name is required")
	}
	if len(phone) > 30 {
		return shared.InvalidInput("Phone cannot exceed 30 characters")
	}
	u.FullName = fullName
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword reports whether the given password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError(shared.CodeUnauthorized, "Current password is incorrect")
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// Disable prevents the user from logging in
func (u *User) Disable() error {
	if u.Status == UserStatusDisabled {
		return shared.InvalidState("User is already disabled")
	}
	u.Status = UserStatusDisabled
	u.Touch()
	u.IncrementVersion()
	return nil
}

// Enable re-activates a disabled user
func (u *User) Enable() {
	u.Status = UserStatusActive
	u.Touch()
	u.IncrementVersion()
}

// IsActive reports whether the user may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// NormalizeEmail lowercases and validates an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.InvalidInput("Email is required")
	}
	if len(email) > 254 {
		return "", shared.InvalidInput("Email cannot exceed 254 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.InvalidInput("Email is not valid")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", shared.InvalidInput("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", shared.InvalidInput("Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
