package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/meeting"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const defaultUpcomingLimit = 10

// MeetingService schedules company meetings and records their outcome
type MeetingService struct {
	meetingRepo meeting.MeetingRepository
	personRepo  person.PersonRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewMeetingService creates a new meeting service
func NewMeetingService(
	meetingRepo meeting.MeetingRepository,
	personRepo person.PersonRepository,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		personRepo:  personRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create schedules a meeting
func (s *MeetingService) Create(ctx context.Context, actor access.Actor, req MeetingRequest) (*MeetingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	names, err := s.attendeeNames(ctx, actor.CompanyID, req.Attendees)
	if err != nil {
		return nil, err
	}
	m, err := meeting.NewMeeting(actor.CompanyID, actor.UserID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Meeting scheduled",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("meeting_id", m.ID.String()),
		zap.String("type", string(m.Type)),
		zap.Time("scheduled_at", m.ScheduledAt))
	resp := ToMeetingResponse(m, names)
	return &resp, nil
}

// Get returns one meeting
func (s *MeetingService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*MeetingResponse, error) {
	m, err := s.meetingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMeetingResponse(m, s.lookupNames(ctx, actor.CompanyID, m.Attendees))
	return &resp, nil
}

// List lists meetings
func (s *MeetingService) List(ctx context.Context, actor access.Actor, req ListMeetingsRequest) ([]MeetingResponse, int64, error) {
	filter := meeting.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		Type:   meeting.Type(req.Type),
		Status: meeting.Status(req.Status),
		From:   req.From,
		To:     req.To,
	}
	items, total, err := s.meetingRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.toResponses(ctx, actor.CompanyID, items), total, nil
}

// Upcoming lists scheduled meetings that have not started yet, soonest first
func (s *MeetingService) Upcoming(ctx context.Context, actor access.Actor, req UpcomingRequest) ([]MeetingResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	items, err := s.meetingRepo.FindUpcoming(ctx, actor.CompanyID, s.now(), limit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, actor.CompanyID, items), nil
}

// Update reschedules a meeting that has not been held or cancelled
func (s *MeetingService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req MeetingRequest) (*MeetingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	m, err := s.meetingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	names, err := s.attendeeNames(ctx, actor.CompanyID, req.Attendees)
	if err != nil {
		return nil, err
	}
	if err := m.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMeetingResponse(m, names)
	return &resp, nil
}

// Complete records minutes and resolutions and marks the meeting held
func (s *MeetingService) Complete(ctx context.Context, actor access.Actor, id uuid.UUID, req CompleteRequest) (*MeetingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	m, err := s.meetingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if req.Attendees != nil {
		if _, err := s.attendeeNames(ctx, actor.CompanyID, req.Attendees); err != nil {
			return nil, err
		}
	}
	if err := m.Complete(req.Minutes, req.Resolutions, req.Attendees, s.now()); err != nil {
		return nil, err
	}
	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("Meeting held",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("meeting_id", m.ID.String()),
		zap.Int("resolutions", len(m.Resolutions)))
	resp := ToMeetingResponse(m, s.lookupNames(ctx, actor.CompanyID, m.Attendees))
	return &resp, nil
}

// Cancel calls off a scheduled meeting
func (s *MeetingService) Cancel(ctx context.Context, actor access.Actor, id uuid.UUID, req CancelRequest) (*MeetingResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	m, err := s.meetingRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := m.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMeetingResponse(m, s.lookupNames(ctx, actor.CompanyID, m.Attendees))
	return &resp, nil
}

// Delete removes a meeting
func (s *MeetingService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionWrite); err != nil {
		return err
	}
	if _, err := s.meetingRepo.FindByID(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	return s.meetingRepo.Delete(ctx, actor.CompanyID, id)
}

// attendeeNames resolves attendee ids to names and fails when any of them is
// not a person of the company
func (s *MeetingService) attendeeNames(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	persons, err := s.personRepo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.FullName
	}
	var unknown []string
	for _, id := range ids {
		if _, ok := names[id]; !ok && id != uuid.Nil {
			unknown = append(unknown, id.String())
		}
	}
	if len(unknown) > 0 {
		return nil, shared.InvalidInput("Attendees must be persons of this company").
			WithDetails(map[string]any{"unknown_attendees": unknown})
	}
	return names, nil
}

// lookupNames is the lenient variant used for display
func (s *MeetingService) lookupNames(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) map[uuid.UUID]string {
	if len(ids) == 0 {
		return nil
	}
	persons, err := s.personRepo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to load attendee names", zap.Error(err))
		return nil
	}
	names := make(map[uuid.UUID]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.FullName
	}
	return names
}

func (s *MeetingService) toResponses(ctx context.Context, companyID uuid.UUID, items []meeting.Meeting) []MeetingResponse {
	var ids []uuid.UUID
	for i := range items {
		ids = append(ids, items[i].Attendees...)
	}
	names := s.lookupNames(ctx, companyID, ids)
	out := make([]MeetingResponse, len(items))
	for i := range items {
		out[i] = ToMeetingResponse(&items[i], names)
	}
	return out
}
