package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notifications
type NotificationModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID             `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	UserID     uuid.UUID             `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	Type       notification.Type     `gorm:"type:varchar(40);not null"`
	Title      string                `gorm:"type:varchar(255);not null"`
	Message    string                `gorm:"type:text"`
	EntityType string                `gorm:"type:varchar(50)"`
	EntityID   *uuid.UUID            `gorm:"type:uuid;index"`
	Priority   notification.Priority `gorm:"type:varchar(10);not null"`
	ReadAt     *time.Time
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() notification.Notification {
	return notification.Notification{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		UserID:     m.UserID,
		Type:       m.Type,
		Title:      m.Title,
		Message:    m.Message,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Priority:   m.Priority,
		ReadAt:     m.ReadAt,
		CreatedAt:  m.CreatedAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:         n.ID,
		CompanyID:  n.CompanyID,
		UserID:     n.UserID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Priority:   n.Priority,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
