package models

import (
	"time"

	"github.com/rwbiz/backend/internal/domain/identity"
)

// UserModel maps the users table. Accounts are not company scoped; the
// unique index on email backs the case-insensitive registration check.
type UserModel struct {
	AggregateModel
	Email        string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	FullName     string              `gorm:"type:varchar(200);not null"`
	Phone        string              `gorm:"type:varchar(30)"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	LastLoginAt  *time.Time
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:        m.Email,
		FullName:     m.FullName,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Status:       m.Status,
		LastLoginAt:  m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Status:       u.Status,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
