package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotRow is one statement row as stored, joined with its route. The raw
// planner payload travels along in Payload so fields this service does not
// model survive the round trip to the presentation layer.
type SlotRow struct {
	SlotID                    uuid.UUID
	ServiceDate               time.Time
	ConvoyID                  uuid.UUID
	RouteID                   uuid.UUID
	RouteLabel                string
	StatementID               *uuid.UUID
	SlotLabel                 string
	PlannedRevolutions        int
	FactRevolutions           int
	ReportedRevolutions       *float64
	DriverReportedRevolutions *float64
	Status                    string
	RawStatus                 *string
	VehicleLabel              *string
	DriverName                *string
	Note                      *string
	Payload                   map[string]interface{}
}

// ActionLogEntry is one immutable audit fact. Entries are inserted by
// successful workflow transitions and never updated or deleted.
type ActionLogEntry struct {
	ID            uuid.UUID
	SlotID        uuid.UUID
	StatementID   *uuid.UUID
	LoggedAt      time.Time
	TimeOfDay     string
	TargetStatus  string
	ReasonCode    string
	Comment       *string
	ReportedCount *float64
	VehicleLabel  *string
	DriverName    *string
}

// ReplacementEntry is an externally supplied vehicle/driver swap or
// repair-return fact. Read-only to this service. The occurrence time comes
// from the upstream feed as free text and may not parse.
type ReplacementEntry struct {
	ID             uuid.UUID
	SlotID         uuid.UUID
	Kind           string
	OccurredAtText string
	FromVehicle    *string
	ToVehicle      *string
	FromDriver     *string
	ToDriver       *string
	Note           *string
}

// ListSlotRowsParams filters the day's dispatch plan.
type ListSlotRowsParams struct {
	ServiceDate time.Time
	ConvoyID    uuid.UUID
	// Status restricts rows to one canonical status. Empty means all.
	Status string
}

// TransitionParams records one workflow transition: the row's status update
// and the audit entry, applied atomically.
type TransitionParams struct {
	SlotID        uuid.UUID
	StatementID   *uuid.UUID
	TargetStatus  string
	TimeOfDay     string
	ReasonCode    string
	Comment       *string
	ReportedCount *float64
	VehicleLabel  *string
	DriverName    *string
}

// UpdateReportedCountParams carries the debounced count persist. The driver
// reported value mirrors the dispatcher-entered one.
type UpdateReportedCountParams struct {
	StatementID         uuid.UUID
	ReportedCount       *float64
	DriverReportedCount *float64
}

// Repository is the persistence boundary of the dispatch context.
type Repository interface {
	ListSlotRows(ctx context.Context, params ListSlotRowsParams) ([]SlotRow, error)
	GetRowBySlot(ctx context.Context, slotID uuid.UUID) (SlotRow, error)
	// TransitionRow updates the row status and appends the action log entry
	// in one transaction; returns the new log entry id.
	TransitionRow(ctx context.Context, params TransitionParams) (uuid.UUID, error)
	ListActionLog(ctx context.Context, slotID uuid.UUID) ([]ActionLogEntry, error)
	ListReplacementHistory(ctx context.Context, slotID uuid.UUID) ([]ReplacementEntry, error)
	UpdateReportedCount(ctx context.Context, params UpdateReportedCountParams) error
	// ListUnreportedActive returns rows still OnWork with no reported count,
	// for the day-close review.
	ListUnreportedActive(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID) ([]SlotRow, error)
}
