package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "github.com/rwbiz/backend/internal/infrastructure/event"

// Options configures the in-process bus
type Options struct {
	// Async hands events to handlers on background goroutines once the bus is started.
	// Publish then returns before handlers finish.
	Async bool
	// HandlerTimeout bounds a single handler invocation. Zero means no limit.
	HandlerTimeout time.Duration
}

// Bus is the in-process domain event bus. Handler failures are logged and
// never reach the publisher, so a failed notification cannot roll back a write.
type Bus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	opts     Options
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewBus creates an event bus
func NewBus(logger *zap.Logger, opts Options) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		opts:     opts,
	}
}

// Publish delivers events to every handler registered for their type
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if event == nil {
			continue
		}
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if b.opts.Async && b.running.Load() {
				b.wg.Add(1)
				go func(h shared.EventHandler, e shared.DomainEvent) {
					defer b.wg.Done()
					b.dispatch(context.WithoutCancel(ctx), h, e)
				}(handler, event)
				continue
			}
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own EventTypes are used.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *Bus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start enables asynchronous delivery
func (b *Bus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Bool("async", b.opts.Async))
	return nil
}

// Stop switches back to synchronous delivery and waits for in-flight handlers
// until ctx expires
func (b *Bus) Stop(ctx context.Context) error {
	b.running.Store(false)
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with handlers still running")
		return ctx.Err()
	}
}

func (b *Bus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	if b.opts.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.HandlerTimeout)
		defer cancel()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "event.handle "+event.EventType())
	span.SetAttributes(
		attribute.String("event.type", event.EventType()),
		attribute.String("event.id", event.EventID().String()),
		attribute.String("company.id", event.CompanyID().String()),
	)
	defer span.End()

	log := logger.Enrich(ctx, b.logger).With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
	)
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, "handler panicked")
			log.Error("event handler panicked", zap.Any("panic", r))
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("event handler failed", zap.Error(err))
	}
}

var _ shared.EventBus = (*Bus)(nil)
