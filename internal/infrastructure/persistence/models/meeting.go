package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/meeting"
)

// MeetingModel is the persistence model for meetings
type MeetingModel struct {
	CompanyAggregateModel
	Title           string         `gorm:"type:varchar(255);not null"`
	Type            meeting.Type   `gorm:"type:varchar(20);not null"`
	ScheduledAt     time.Time      `gorm:"not null;index"`
	DurationMinutes int            `gorm:"not null;default:0"`
	Location        string         `gorm:"type:varchar(255)"`
	Agenda          string         `gorm:"type:text"`
	Attendees       []uuid.UUID    `gorm:"type:text;serializer:json"`
	Minutes         string         `gorm:"type:text"`
	Resolutions     []string       `gorm:"type:text;serializer:json"`
	Status          meeting.Status `gorm:"type:varchar(20);not null;index"`
	CancelReason    string         `gorm:"type:varchar(500)"`
	HeldAt          *time.Time
}

// TableName returns the table name for GORM
func (MeetingModel) TableName() string {
	return "meetings"
}

// ToDomain converts the model to a domain Meeting
func (m *MeetingModel) ToDomain() *meeting.Meeting {
	mt := &meeting.Meeting{
		Title:           m.Title,
		Type:            m.Type,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
		Location:        m.Location,
		Agenda:          m.Agenda,
		Attendees:       m.Attendees,
		Minutes:         m.Minutes,
		Resolutions:     m.Resolutions,
		Status:          m.Status,
		CancelReason:    m.CancelReason,
		HeldAt:          m.HeldAt,
	}
	m.PopulateCompanyAggregateRoot(&mt.CompanyAggregateRoot)
	return mt
}

// MeetingModelFromDomain creates a persistence model from a domain Meeting
func MeetingModelFromDomain(mt *meeting.Meeting) *MeetingModel {
	m := &MeetingModel{
		Title:           mt.Title,
		Type:            mt.Type,
		ScheduledAt:     mt.ScheduledAt,
		DurationMinutes: mt.DurationMinutes,
		Location:        mt.Location,
		Agenda:          mt.Agenda,
		Attendees:       mt.Attendees,
		Minutes:         mt.Minutes,
		Resolutions:     mt.Resolutions,
		Status:          mt.Status,
		CancelReason:    mt.CancelReason,
		HeldAt:          mt.HeldAt,
	}
	m.FromDomainCompanyAggregateRoot(mt.CompanyAggregateRoot)
	return m
}
