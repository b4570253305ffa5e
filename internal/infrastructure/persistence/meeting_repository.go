package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/meeting"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMeetingRepository implements MeetingRepository using GORM
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewGormMeetingRepository creates a new GormMeetingRepository
func NewGormMeetingRepository(db *gorm.DB) *GormMeetingRepository {
	return &GormMeetingRepository{db: db}
}

// FindByID finds a meeting within a company
func (r *GormMeetingRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*meeting.Meeting, error) {
	m, err := firstInCompany[models.MeetingModel](ctx, r.db, companyID, id, "Meeting")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists meetings matching the filter
func (r *GormMeetingRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter meeting.Filter) ([]meeting.Meeting, int64, error) {
	rows, total, err := findPage[models.MeetingModel](ctx, r.db, filter.Filter,
		meetingSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "title", "location"))
			if filter.Type != "" {
				q = q.Where("type = ?", filter.Type)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if filter.From != nil {
				q = q.Where("scheduled_at >= ?", *filter.From)
			}
			if filter.To != nil {
				q = q.Where("scheduled_at <= ?", *filter.To)
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	return meetingsToDomain(rows), total, nil
}

// FindUpcoming lists scheduled meetings from the given time, soonest first
func (r *GormMeetingRepository) FindUpcoming(ctx context.Context, companyID uuid.UUID, from time.Time, limit int) ([]meeting.Meeting, error) {
	var rows []models.MeetingModel
	if err := r.upcoming(ctx, companyID, from).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return meetingsToDomain(rows), nil
}

// CountUpcoming counts scheduled meetings from the given time
func (r *GormMeetingRepository) CountUpcoming(ctx context.Context, companyID uuid.UUID, from time.Time) (int64, error) {
	var count int64
	if err := r.upcoming(ctx, companyID, from).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMeetingRepository) upcoming(ctx context.Context, companyID uuid.UUID, from time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.MeetingModel{}).
		Scopes(companyScope(companyID)).
		Where("status = ? AND scheduled_at >= ?", meeting.StatusScheduled, from)
}

// Save creates or updates a meeting
func (r *GormMeetingRepository) Save(ctx context.Context, m *meeting.Meeting) error {
	return saveAggregate(ctx, r.db, &m.BaseAggregateRoot, models.MeetingModelFromDomain(m))
}

// Delete removes a meeting
func (r *GormMeetingRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.MeetingModel](ctx, r.db, companyID, id, "Meeting")
}

func meetingsToDomain(rows []models.MeetingModel) []meeting.Meeting {
	out := make([]meeting.Meeting, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ meeting.MeetingRepository = (*GormMeetingRepository)(nil)
