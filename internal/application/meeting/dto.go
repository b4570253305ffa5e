package meeting

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/meeting"
)

// MeetingRequest represents a request to schedule or reschedule a meeting
type MeetingRequest struct {
	Title           string      `json:"title" binding:"required,max=200" example:"Q3 board meeting"`
	Type            string      `json:"type" binding:"required,oneof=BOARD AGM EGM MANAGEMENT" example:"BOARD"`
	ScheduledAt     time.Time   `json:"scheduled_at" binding:"required" example:"2025-09-30T09:00:00Z"`
	DurationMinutes int         `json:"duration_minutes" binding:"omitempty,min=0,max=1440" example:"90"`
	Location        string      `json:"location" binding:"max=255" example:"Kigali Heights, 4th floor"`
	Agenda          string      `json:"agenda" binding:"max=10000"`
	Attendees       []uuid.UUID `json:"attendees"`
}

func (r MeetingRequest) toDetails() meeting.Details {
	return meeting.Details{
		Title:           r.Title,
		Type:            meeting.Type(r.Type),
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Agenda:          r.Agenda,
		Attendees:       r.Attendees,
	}
}

// CompleteRequest records the outcome of a meeting
type CompleteRequest struct {
	Minutes     string      `json:"minutes" binding:"max=50000"`
	Resolutions []string    `json:"resolutions" binding:"max=100,dive,max=2000"`
	Attendees   []uuid.UUID `json:"attendees"`
}

// CancelRequest carries the reason for cancelling a meeting
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListMeetingsRequest represents the query of a meeting listing
type ListMeetingsRequest struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string     `form:"search"`
	Type     string     `form:"type" binding:"omitempty,oneof=BOARD AGM EGM MANAGEMENT"`
	Status   string     `form:"status" binding:"omitempty,oneof=SCHEDULED HELD CANCELLED"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// UpcomingRequest limits the upcoming meeting listing
type UpcomingRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// AttendeeResponse is an attendee with the person's display name
type AttendeeResponse struct {
	PersonID uuid.UUID `json:"person_id"`
	Name     string    `json:"name,omitempty"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	Title           string             `json:"title"`
	Type            string             `json:"type"`
	ScheduledAt     time.Time          `json:"scheduled_at"`
	EndsAt          time.Time          `json:"ends_at"`
	DurationMinutes int                `json:"duration_minutes"`
	Location        string             `json:"location"`
	Agenda          string             `json:"agenda"`
	Attendees       []AttendeeResponse `json:"attendees"`
	Minutes         string             `json:"minutes,omitempty"`
	Resolutions     []string           `json:"resolutions"`
	Status          string             `json:"status"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	HeldAt          *time.Time         `json:"held_at,omitempty"`
	CreatedBy       *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// ToMeetingResponse converts a meeting to its response. names maps attendee
// ids to display names and may be nil.
func ToMeetingResponse(m *meeting.Meeting, names map[uuid.UUID]string) MeetingResponse {
	attendees := make([]AttendeeResponse, len(m.Attendees))
	for i, id := range m.Attendees {
		attendees[i] = AttendeeResponse{PersonID: id, Name: names[id]}
	}
	resolutions := m.Resolutions
	if resolutions == nil {
		resolutions = []string{}
	}
	return MeetingResponse{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		Title:           m.Title,
		Type:            string(m.Type),
		ScheduledAt:     m.ScheduledAt,
		EndsAt:          m.EndsAt(),
		DurationMinutes: m.DurationMinutes,
		Location:        m.Location,
		Agenda:          m.Agenda,
		Attendees:       attendees,
		Minutes:         m.Minutes,
		Resolutions:     resolutions,
		Status:          string(m.Status),
		CancelReason:    m.CancelReason,
		HeldAt:          m.HeldAt,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Version:         m.Version,
	}
}
