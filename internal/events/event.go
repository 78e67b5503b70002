// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"depot_dispatch_backend/platform/events"

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
// Dispatch Domain Events
// =============================================================================

// StatementRowTransitioned is published when a workflow action successfully
// changes a statement row's status (or, for replace, records a swap). The
// presentation layer listens instead of relying on an ambient broadcast.
type StatementRowTransitioned struct {
	BaseEvent
	SlotID      uuid.UUID  `json:"slotId"`
	StatementID *uuid.UUID `json:"statementId,omitempty"`
	Action      string     `json:"action"`
	FromStatus  string     `json:"fromStatus"`
	ToStatus    string     `json:"toStatus"`
	LogEntryID  uuid.UUID  `json:"logEntryId"`
}

func (e StatementRowTransitioned) EventName() string { return "dispatch.row.transitioned" }

// ReportedCountSaved is published when a debounced reported-count edit has
// been persisted.
type ReportedCountSaved struct {
	BaseEvent
	SlotID      uuid.UUID `json:"slotId"`
	StatementID uuid.UUID `json:"statementId"`
	Value       *float64  `json:"value,omitempty"`
}

func (e ReportedCountSaved) EventName() string { return "dispatch.count.saved" }

// ReportedCountSaveFailed is published when a scheduled reported-count
// persist was aborted or failed. The previously persisted value is intact.
type ReportedCountSaveFailed struct {
	BaseEvent
	SlotID uuid.UUID `json:"slotId"`
	Reason string    `json:"reason"`
}

func (e ReportedCountSaveFailed) EventName() string { return "dispatch.count.save_failed" }

// DayCloseReviewDue is published by the background worker when the day-close
// review finds rows still active with no reported count.
type DayCloseReviewDue struct {
	BaseEvent
	ServiceDate time.Time   `json:"serviceDate"`
	ConvoyID    uuid.UUID   `json:"convoyId"`
	SlotIDs     []uuid.UUID `json:"slotIds"`
}

func (e DayCloseReviewDue) EventName() string { return "dispatch.day_close.review_due" }
