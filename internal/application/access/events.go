package access

import (
	"context"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PublishEvents hands the pending events of saved aggregates to the publisher
// and clears them. Publishing happens after the write is committed, so a
// failure is logged rather than returned.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, sources ...shared.EventSource) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, log).Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}
