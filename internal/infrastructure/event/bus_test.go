package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.EventHeader
	Data string `json:"data"`
}

func newTestEvent(eventType string, companyID uuid.UUID) *testEvent {
	return &testEvent{
		EventHeader: shared.NewEventHeader(eventType, "TestAggregate", uuid.New(), companyID),
		Data:        "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, panics := h.err, h.panics
	h.mu.Unlock()
	if panics {
		panic("boom")
	}
	return err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	handler := newTestHandler("InvoiceIssued")
	bus.Subscribe(handler)

	event := newTestEvent("InvoiceIssued", uuid.New())
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestBus_Publish_MultipleHandlersAndEvents(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	h1 := newTestHandler("InvoiceIssued")
	h2 := newTestHandler("InvoiceIssued")
	bus.Subscribe(h1)
	bus.Subscribe(h2)

	companyID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("InvoiceIssued", companyID),
		newTestEvent("InvoiceIssued", companyID),
	))

	assert.Len(t, h1.getHandled(), 2)
	assert.Len(t, h2.getHandled(), 2)
}

func TestBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AnyEventType", uuid.New())))
	assert.Len(t, wildcard.getHandled(), 1)
}

func TestBus_Publish_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	failing := newTestHandler("CapitalUnlocked")
	failing.err = errors.New("handler error")
	panicking := newTestHandler("CapitalUnlocked")
	panicking.panics = true
	healthy := newTestHandler("CapitalUnlocked")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("CapitalUnlocked", uuid.New()))

	require.NoError(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, panicking.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestBus_Publish_SkipsNilAndUnmatched(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	handler := newTestHandler("OtherEvent")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), nil, newTestEvent("TestEvent", uuid.New())))
	assert.Empty(t, handler.getHandled())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{})

	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("TestEvent", uuid.New()))
	require.Len(t, handler.getHandled(), 1)

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("TestEvent", uuid.New()))
	assert.Len(t, handler.getHandled(), 1)
}

func TestBus_AsyncDeliveryDrainsOnStop(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{Async: true, HandlerTimeout: time.Second})
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("TestEvent", uuid.New())))
	}
	// handlers must not inherit cancellation of the publishing request
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Len(t, handler.getHandled(), 10)
}

func TestBus_AsyncBeforeStartIsSynchronous(t *testing.T) {
	bus := NewBus(zap.NewNop(), Options{Async: true})

	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TestEvent", uuid.New())))

	assert.Len(t, handler.getHandled(), 1)
}
