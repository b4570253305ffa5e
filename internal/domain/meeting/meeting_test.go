package meeting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoardMeeting(t *testing.T) *Meeting {
	t.Helper()
	a := uuid.New()
	m, err := NewMeeting(uuid.New(), uuid.New(), Details{
		Title:           "Q3 board meeting",
		Type:            TypeBoard,
		ScheduledAt:     time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Attendees:       []uuid.UUID{a, a, uuid.Nil},
	})
	require.NoError(t, err)
	return m
}

func TestNewMeeting(t *testing.T) {
	m := newBoardMeeting(t)
	assert.Equal(t, StatusScheduled, m.Status)
	assert.Len(t, m.Attendees, 1)
	assert.Equal(t, time.Date(2025, 9, 10, 10, 30, 0, 0, time.UTC), m.EndsAt())
}

func TestNewMeeting_Validation(t *testing.T) {
	_, err := NewMeeting(uuid.New(), uuid.New(), Details{Title: "x", Type: "LUNCH", ScheduledAt: time.Now()})
	assert.Error(t, err)
	_, err = NewMeeting(uuid.New(), uuid.New(), Details{Title: "x", Type: TypeAGM})
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	m := newBoardMeeting(t)
	invited := m.Attendees

	require.NoError(t, m.Complete("Approved budget", []string{"Budget approved", " "}, nil, time.Now()))
	assert.Equal(t, StatusHeld, m.Status)
	assert.Equal(t, []string{"Budget approved"}, m.Resolutions)
	assert.Equal(t, invited, m.Attendees)
	assert.NotNil(t, m.HeldAt)

	assert.Error(t, m.Update(Details{Title: "again", Type: TypeBoard, ScheduledAt: time.Now()}))
	assert.Error(t, m.Cancel("late"))
}

func TestCancel(t *testing.T) {
	m := newBoardMeeting(t)
	require.NoError(t, m.Cancel("quorum not reached"))
	assert.Equal(t, StatusCancelled, m.Status)
	assert.Error(t, m.Complete("", nil, nil, time.Now()))
}
