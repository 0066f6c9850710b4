// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"procurement_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Tender Domain Events
// =============================================================================

// TenderCreated is published when a new tender is registered.
type TenderCreated struct {
	BaseEvent
	TenderID uuid.UUID `json:"tenderId"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
}

func (e TenderCreated) EventName() string { return "tenders.tender.created" }

// TenderStatusChanged is published when a tender's workflow status changes.
// Quote visibility depends on the status, so downstream views care about this.
type TenderStatusChanged struct {
	BaseEvent
	TenderID  uuid.UUID `json:"tenderId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e TenderStatusChanged) EventName() string { return "tenders.tender.status_changed" }

// TenderDeleted is published after a tender and its dependent records are removed.
type TenderDeleted struct {
	BaseEvent
	TenderID      uuid.UUID `json:"tenderId"`
	QuoteCount    int64     `json:"quoteCount"`
	LineItemCount int64     `json:"lineItemCount"`
}

func (e TenderDeleted) EventName() string { return "tenders.tender.deleted" }

// =============================================================================
// Line Item Domain Events
// =============================================================================

// LineItemsRecorded is published after a batch of line items is persisted,
// carrying per-batch counts for audit trails.
type LineItemsRecorded struct {
	BaseEvent
	TenderID uuid.UUID `json:"tenderId"`
	Created  int       `json:"created"`
	Failed   int       `json:"failed"`
}

func (e LineItemsRecorded) EventName() string { return "lineitems.batch.recorded" }

// =============================================================================
// Purchase Domain Events
// =============================================================================

// QuotesRecorded is published after a batch of purchase quotes is persisted.
type QuotesRecorded struct {
	BaseEvent
	TenderID   uuid.UUID `json:"tenderId"`
	RecordedBy uuid.UUID `json:"recordedBy"`
	Created    int       `json:"created"`
	Failed     int       `json:"failed"`
}

func (e QuotesRecorded) EventName() string { return "purchases.batch.recorded" }
