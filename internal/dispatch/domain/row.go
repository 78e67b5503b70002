package domain

import "github.com/google/uuid"

// StatementRow is one vehicle/driver assignment for one route exit slot on
// one service date. Rows are rebuilt from the dispatch plan on every refresh
// and are never deleted by this service; removal from active work is the
// Rejected status.
type StatementRow struct {
	RouteID    uuid.UUID
	RouteLabel string
	// SlotID is the stable identity of the exit within a date+convoy scope.
	SlotID uuid.UUID
	// StatementID is nil until a formal statement record exists for the day.
	// Once assigned it never changes for the life of the row.
	StatementID *uuid.UUID
	// SlotLabel is the ordinal position as the planner printed it. Not
	// guaranteed numeric.
	SlotLabel           string
	PlannedRevolutions  int
	FactRevolutions     int
	ReportedRevolutions *float64
	Status              Status
	// RawStatus is the status exactly as the upstream plan delivered it.
	// It can diverge from Status transiently; guards check both.
	RawStatus    *string
	VehicleLabel *string
	DriverName   *string
	Note         *string
	// Payload keeps the original raw plan fields not otherwise modeled.
	Payload map[string]interface{}
}

// RouteBucket is the ordered set of statement rows belonging to one route.
// Buckets are never empty; empty ones are dropped during building.
type RouteBucket struct {
	RouteID    uuid.UUID
	RouteLabel string
	Rows       []StatementRow
}
