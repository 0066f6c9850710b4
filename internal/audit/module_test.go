package audit

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"procurement_backend/internal/events"
	"procurement_backend/platform/logger"
)

type captureHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, r.Message)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) contains(msg string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func newCaptureLogger() (*logger.Logger, *captureHandler) {
	h := &captureHandler{}
	return &logger.Logger{Logger: slog.New(h)}, h
}

func TestPublishedEventsReachTheAuditTrail(t *testing.T) {
	log, capture := newCaptureLogger()
	bus := events.NewInMemoryBus(log)

	NewModule(log).RegisterHandlers(bus)

	tenderID := uuid.New()
	if err := bus.PublishSync(context.Background(), events.TenderCreated{
		BaseEvent: events.NewBaseEvent(),
		TenderID:  tenderID,
		Name:      "REF-77",
		Status:    "EN CURSO",
	}); err != nil {
		t.Fatalf("publish tender created: %v", err)
	}
	if err := bus.PublishSync(context.Background(), events.LineItemsRecorded{
		BaseEvent: events.NewBaseEvent(),
		TenderID:  tenderID,
		Created:   3,
		Failed:    1,
	}); err != nil {
		t.Fatalf("publish line items recorded: %v", err)
	}

	if !capture.contains("audit: tender created") {
		t.Fatalf("tender created event never reached the audit trail: %v", capture.messages)
	}
	if !capture.contains("audit: line item batch recorded") {
		t.Fatalf("line item batch event never reached the audit trail: %v", capture.messages)
	}
}

func TestStatusChangeAndDeletionAreAudited(t *testing.T) {
	log, capture := newCaptureLogger()
	bus := events.NewInMemoryBus(log)

	NewModule(log).RegisterHandlers(bus)

	tenderID := uuid.New()
	if err := bus.PublishSync(context.Background(), events.TenderStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		TenderID:  tenderID,
		OldStatus: "EN CURSO",
		NewStatus: "ADJUDICADA",
	}); err != nil {
		t.Fatalf("publish status change: %v", err)
	}
	if err := bus.PublishSync(context.Background(), events.TenderDeleted{
		BaseEvent:     events.NewBaseEvent(),
		TenderID:      tenderID,
		QuoteCount:    2,
		LineItemCount: 5,
	}); err != nil {
		t.Fatalf("publish deletion: %v", err)
	}

	if !capture.contains("audit: tender status changed") {
		t.Fatalf("status change never audited: %v", capture.messages)
	}
	if !capture.contains("audit: tender deleted") {
		t.Fatalf("deletion never audited: %v", capture.messages)
	}
}
