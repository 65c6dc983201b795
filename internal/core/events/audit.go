package events

import (
	"context"
	"log/slog"
)

// AuditedEventTypes are the domain events written to the audit log.
var AuditedEventTypes = []string{
	EventTypeActivityTransitioned,
	EventTypeExpenseReviewed,
	EventTypeConfirmationReviewed,
	EventTypeTicketGranted,
	EventTypeDuesPaid,
	EventTypeMemberInactivated,
	EventTypeMemberOnboarded,
}

// SubscribeAudit records every audited event as one structured log line.
func SubscribeAudit(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	for _, t := range AuditedEventTypes {
		bus.Subscribe(t, func(ctx context.Context, e Event) error {
			audit.InfoContext(ctx, "domain event",
				"event_type", e.EventType(),
				"event_id", e.EventID(),
				"occurred_at", e.OccurredAt(),
				"payload", e.Payload())
			return nil
		})
	}
}
