package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
)

// RecordingEventHandler remembers every event published to it. With no
// types it subscribes to everything.
type RecordingEventHandler struct {
	types []string

	mu   sync.Mutex
	seen []shared.DomainEvent
}

func NewRecordingEventHandler(types ...string) *RecordingEventHandler {
	return &RecordingEventHandler{types: types}
}

func (h *RecordingEventHandler) EventTypes() []string { return h.types }

func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.seen = append(h.seen, event)
	h.mu.Unlock()
	return nil
}

func (h *RecordingEventHandler) OfType(eventType string) []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range h.seen {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// WaitFor blocks until an event of eventType arrives or timeout passes
func (h *RecordingEventHandler) WaitFor(eventType string, timeout time.Duration) bool {
	return Eventually(func() bool { return len(h.OfType(eventType)) > 0 }, timeout, 10*time.Millisecond)
}

var _ shared.EventHandler = (*RecordingEventHandler)(nil)
