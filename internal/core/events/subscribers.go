package events

import (
	"context"
	"log/slog"
)

// RegisterLoggingSubscribers logs every domain event. Low balance warnings go
// out at Warn so they surface in alerting on log level.
func RegisterLoggingSubscribers(bus *EventBus, logger *slog.Logger) {
	for _, eventType := range DomainEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			level := slog.LevelInfo
			if event.EventType() == EventTypeCreditsLowBalance {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "domain event",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}
