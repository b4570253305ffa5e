package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsPriority(t *testing.T) {
	n, err := New(uuid.New(), uuid.New(), Draft{Type: TypeSystem, Title: " Hello "})
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, n.Priority)
	assert.Equal(t, "Hello", n.Title)
	assert.False(t, n.IsRead())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(uuid.New(), uuid.New(), Draft{Title: ""})
	assert.Error(t, err)
	_, err = New(uuid.New(), uuid.Nil, Draft{Title: "x"})
	assert.Error(t, err)
	_, err = New(uuid.New(), uuid.New(), Draft{Title: "x", Priority: "URGENT"})
	assert.Error(t, err)
}

func TestFanout_SkipsDuplicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	items, err := Fanout(uuid.New(), []uuid.UUID{a, b, a}, Draft{Type: TypeDividendDeclared, Title: "Dividend declared"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].UserID)
	assert.Equal(t, b, items[1].UserID)
}

func TestMarkRead_KeepsFirstTime(t *testing.T) {
	n, err := New(uuid.New(), uuid.New(), Draft{Title: "x"})
	require.NoError(t, err)
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n.MarkRead(first)
	n.MarkRead(first.Add(time.Hour))
	assert.Equal(t, first, *n.ReadAt)
}
