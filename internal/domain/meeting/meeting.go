package meeting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
)

// Type is the kind of meeting
type Type string

const (
	TypeBoard      Type = "BOARD"
	TypeAGM        Type = "AGM"
	TypeEGM        Type = "EGM"
	TypeManagement Type = "MANAGEMENT"
)

// IsValid checks if the meeting type is a known value
func (t Type) IsValid() bool {
	switch t {
	case TypeBoard, TypeAGM, TypeEGM, TypeManagement:
		return true
	}
	return false
}

// Status represents the lifecycle of a meeting
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusHeld      Status = "HELD"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusScheduled || s == StatusHeld || s == StatusCancelled
}

const maxDurationMinutes = 24 * 60

// Meeting is a board, general or management meeting of a company
type Meeting struct {
	shared.CompanyAggregateRoot
	Title           string
	Type            Type
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
	Agenda          string
	Attendees       []uuid.UUID
	Minutes         string
	Resolutions     []string
	Status          Status
	CancelReason    string
	HeldAt          *time.Time
}

// Details carries the schedulable fields of a meeting
type Details struct {
	Title           string
	Type            Type
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
	Agenda          string
	Attendees       []uuid.UUID
}

// NewMeeting schedules a meeting
func NewMeeting(companyID, createdBy uuid.UUID, d Details) (*Meeting, error) {
	m := &Meeting{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               StatusScheduled,
	}
	if err := m.apply(d); err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes a scheduled meeting
func (m *Meeting) Update(d Details) error {
	if m.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled meetings can be updated")
	}
	if err := m.apply(d); err != nil {
		return err
	}
	m.Touch()
	m.IncrementVersion()
	return nil
}

func (m *Meeting) apply(d Details) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.InvalidInput("Title is required")
	}
	if len(title) > 200 {
		return shared.InvalidInput("Title cannot exceed 200 characters")
	}
	if !d.Type.IsValid() {
		return shared.InvalidInput("Meeting type must be BOARD, AGM, EGM or MANAGEMENT")
	}
	if d.ScheduledAt.IsZero() {
		return shared.InvalidInput("Scheduled time is required")
	}
	if d.DurationMinutes < 0 || d.DurationMinutes > maxDurationMinutes {
		return shared.InvalidInput("Duration must be between 0 and 1440 minutes")
	}
	m.Title = title
	m.Type = d.Type
	m.ScheduledAt = d.ScheduledAt
	m.DurationMinutes = d.DurationMinutes
	m.Location = strings.TrimSpace(d.Location)
	m.Agenda = strings.TrimSpace(d.Agenda)
	m.Attendees = uniqueIDs(d.Attendees)
	return nil
}

// Complete records the outcome of the meeting. A nil attendees slice keeps
// the invited list.
func (m *Meeting) Complete(minutes string, resolutions []string, attendees []uuid.UUID, now time.Time) error {
	if m.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled meetings can be completed")
	}
	m.Minutes = strings.TrimSpace(minutes)
	m.Resolutions = m.Resolutions[:0]
	for _, r := range resolutions {
		if r = strings.TrimSpace(r); r != "" {
			m.Resolutions = append(m.Resolutions, r)
		}
	}
	if attendees != nil {
		m.Attendees = uniqueIDs(attendees)
	}
	m.Status = StatusHeld
	m.HeldAt = &now
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Cancel calls off a scheduled meeting
func (m *Meeting) Cancel(reason string) error {
	if m.Status != StatusScheduled {
		return shared.InvalidState("Only scheduled meetings can be cancelled")
	}
	m.Status = StatusCancelled
	m.CancelReason = strings.TrimSpace(reason)
	m.Touch()
	m.IncrementVersion()
	return nil
}

// EndsAt returns when the meeting is expected to finish
func (m *Meeting) EndsAt() time.Time {
	return m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
