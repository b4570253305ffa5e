package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/notification"
	"github.com/rwbiz/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService serves a member's inbox and addresses new notifications
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	membershipRepo   company.MembershipRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo notification.NotificationRepository,
	membershipRepo company.MembershipRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		membershipRepo:   membershipRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// List lists the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor access.Actor, req ListNotificationsRequest) ([]NotificationResponse, int64, error) {
	filter := notification.Filter{
		Filter:     shared.Filter{Page: req.Page, PageSize: req.PageSize},
		UnreadOnly: req.UnreadOnly,
	}
	items, total, err := s.notificationRepo.FindAll(ctx, actor.CompanyID, actor.UserID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return out, total, nil
}

// UnreadCount returns how many of the caller's notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, actor access.Actor) (*UnreadCountResponse, error) {
	n, err := s.notificationRepo.CountUnread(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: n}, nil
}

// MarkRead marks one of the caller's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, actor access.Actor, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, actor.CompanyID, actor.UserID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead() {
		at := s.now()
		if err := s.notificationRepo.MarkRead(ctx, actor.CompanyID, actor.UserID, id, at); err != nil {
			return nil, err
		}
		n.MarkRead(at)
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the caller read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor access.Actor) (*MarkAllReadResponse, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, actor.CompanyID, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: n}, nil
}

// Delete removes one of the caller's notifications
func (s *NotificationService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if _, err := s.notificationRepo.FindByID(ctx, actor.CompanyID, actor.UserID, id); err != nil {
		return err
	}
	return s.notificationRepo.Delete(ctx, actor.CompanyID, actor.UserID, id)
}

// NotifyRoles addresses a draft to every member holding one of the roles,
// plus any extra users, and returns the number of notifications created
func (s *NotificationService) NotifyRoles(ctx context.Context, companyID uuid.UUID, roles []company.Role, draft notification.Draft, extra ...uuid.UUID) (int, error) {
	var recipients []uuid.UUID
	if len(roles) > 0 {
		members, err := s.membershipRepo.FindByCompanyAndRoles(ctx, companyID, roles...)
		if err != nil {
			return 0, err
		}
		for _, m := range members {
			recipients = append(recipients, m.UserID)
		}
	}
	for _, id := range extra {
		if id != uuid.Nil {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return 0, nil
	}
	items, err := notification.Fanout(companyID, recipients, draft)
	if err != nil {
		return 0, err
	}
	if err := s.notificationRepo.SaveBatch(ctx, items); err != nil {
		return 0, err
	}
	s.logger.Debug("Notifications created",
		zap.String("company_id", companyID.String()),
		zap.String("type", string(draft.Type)),
		zap.Int("recipients", len(items)))
	return len(items), nil
}

// NotifyRolesOnce is NotifyRoles skipped when a notification of the same type
// for the same entity was already created since the given time
func (s *NotificationService) NotifyRolesOnce(ctx context.Context, companyID uuid.UUID, roles []company.Role, draft notification.Draft, since time.Time) (int, error) {
	if draft.EntityID != nil {
		exists, err := s.notificationRepo.ExistsSince(ctx, companyID, draft.Type, *draft.EntityID, since)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, nil
		}
	}
	return s.NotifyRoles(ctx, companyID, roles, draft)
}
