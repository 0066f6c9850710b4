// Package audit subscribes to domain events and writes the audit trail as
// structured log entries, one per event. Batch counts and status transitions
// end up in the log stream where operators already look.
package audit

import (
	"context"

	"procurement_backend/internal/events"
	"procurement_backend/platform/logger"
)

// Module consumes domain events for the audit trail.
type Module struct {
	log *logger.Logger
}

// NewModule creates the audit consumer.
func NewModule(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all audited domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.TenderCreated{}.EventName(), m)
	bus.Subscribe(events.TenderStatusChanged{}.EventName(), m)
	bus.Subscribe(events.TenderDeleted{}.EventName(), m)
	bus.Subscribe(events.LineItemsRecorded{}.EventName(), m)
	bus.Subscribe(events.QuotesRecorded{}.EventName(), m)

	m.log.Info("audit module registered event handlers")
}

// Handle routes events to the audit log.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	log := m.log.WithContext(ctx)

	switch e := event.(type) {
	case events.TenderCreated:
		log.Info("audit: tender created",
			"event", e.EventName(),
			"tender_id", e.TenderID.String(),
			"name", e.Name,
			"status", e.Status,
		)
	case events.TenderStatusChanged:
		log.Info("audit: tender status changed",
			"event", e.EventName(),
			"tender_id", e.TenderID.String(),
			"old_status", e.OldStatus,
			"new_status", e.NewStatus,
		)
	case events.TenderDeleted:
		log.Info("audit: tender deleted",
			"event", e.EventName(),
			"tender_id", e.TenderID.String(),
			"quotes", e.QuoteCount,
			"line_items", e.LineItemCount,
		)
	case events.LineItemsRecorded:
		log.Info("audit: line item batch recorded",
			"event", e.EventName(),
			"tender_id", e.TenderID.String(),
			"created", e.Created,
			"failed", e.Failed,
		)
	case events.QuotesRecorded:
		log.Info("audit: quote batch recorded",
			"event", e.EventName(),
			"tender_id", e.TenderID.String(),
			"recorded_by", e.RecordedBy.String(),
			"created", e.Created,
			"failed", e.Failed,
		)
	default:
		log.Warn("audit: unhandled event", "event", event.EventName())
	}

	return nil
}
