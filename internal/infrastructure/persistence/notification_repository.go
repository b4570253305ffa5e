package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/notification"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func recipientScope(companyID, userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ? AND user_id = ?", companyID, userID)
	}
}

// FindByID loads one of the recipient's notifications
func (r *GormNotificationRepository) FindByID(ctx context.Context, companyID, userID, id uuid.UUID) (*notification.Notification, error) {
	var m models.NotificationModel
	if err := r.db.WithContext(ctx).
		Scopes(recipientScope(companyID, userID)).
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Notification")
		}
		return nil, err
	}
	n := m.ToDomain()
	return &n, nil
}

// FindAll pages through the recipient's notifications, newest first
func (r *GormNotificationRepository) FindAll(ctx context.Context, companyID, userID uuid.UUID, filter notification.Filter) ([]notification.Notification, int64, error) {
	rows, total, err := findPage[models.NotificationModel](ctx, r.db, filter.Filter,
		notificationSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(recipientScope(companyID, userID))
			if filter.UnreadOnly {
				q = q.Where("read_at IS NULL")
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// CountUnread counts the recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(recipientScope(companyID, userID)).
		Where("read_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveBatch inserts notifications for several recipients at once
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, items []*notification.Notification) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, len(items))
	for i, n := range items {
		rows[i] = models.NotificationModelFromDomain(n)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 200).Error
}

// MarkRead marks one notification read. Marking an already read
// notification keeps its original read time.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(recipientScope(companyID, userID)).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	_, err := r.FindByID(ctx, companyID, userID, id)
	return err
}

// MarkAllRead marks every unread notification of the recipient read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(recipientScope(companyID, userID)).
		Where("read_at IS NULL").
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

// Delete removes one of the recipient's notifications
func (r *GormNotificationRepository) Delete(ctx context.Context, companyID, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(recipientScope(companyID, userID)).
		Where("id = ?", id).
		Delete(&models.NotificationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Notification")
	}
	return nil
}

// ExistsSince reports whether the entity already produced a notification of the type after since
func (r *GormNotificationRepository) ExistsSince(ctx context.Context, companyID uuid.UUID, typ notification.Type, entityID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(companyScope(companyID)).
		Where("type = ? AND entity_id = ? AND created_at >= ?", typ, entityID, since).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
