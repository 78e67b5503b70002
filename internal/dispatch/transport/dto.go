package transport

import "github.com/google/uuid"

// Statement

type StatementQuery struct {
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	ConvoyID string `form:"convoyId" validate:"required,uuid"`
	Status   string `form:"status" validate:"omitempty,oneof=OnWork GotOff OnOrder Completed Rejected Unknown"`
}

type RowResponse struct {
	SlotID              uuid.UUID              `json:"slotId"`
	StatementID         *uuid.UUID             `json:"statementId,omitempty"`
	SlotLabel           string                 `json:"slotLabel"`
	PlannedRevolutions  int                    `json:"plannedRevolutions"`
	FactRevolutions     int                    `json:"factRevolutions"`
	ReportedRevolutions *float64               `json:"reportedRevolutions,omitempty"`
	PendingReportedText *string                `json:"pendingReportedText,omitempty"`
	Status              string                 `json:"status"`
	AllowedActions      []string               `json:"allowedActions"`
	VehicleLabel        *string                `json:"vehicleLabel,omitempty"`
	DriverName          *string                `json:"driverName,omitempty"`
	Note                *string                `json:"note,omitempty"`
	Payload             map[string]interface{} `json:"payload,omitempty"`
}

type BucketResponse struct {
	RouteID    uuid.UUID     `json:"routeId"`
	RouteLabel string        `json:"routeLabel"`
	Rows       []RowResponse `json:"rows"`
}

type StatementResponse struct {
	Date     string           `json:"date"`
	ConvoyID uuid.UUID        `json:"convoyId"`
	Buckets  []BucketResponse `json:"buckets"`
}

// Workflow actions

type ActionRequest struct {
	Action        string  `json:"action" validate:"required,oneof=replace report-off send-to-order complete remove return-to-line"`
	ReasonCode    string  `json:"reasonCode" validate:"required,min=1,max=50"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=500"`
	ReportedCount *string `json:"reportedCount,omitempty" validate:"omitempty,max=20"`
}

type ActionResponse struct {
	SlotID         uuid.UUID `json:"slotId"`
	Status         string    `json:"status"`
	LogEntryID     uuid.UUID `json:"logEntryId"`
	AllowedActions []string  `json:"allowedActions"`
}

// Reported count edits

type CountEditRequest struct {
	Value string `json:"value" validate:"max=20"`
}

type CountEditResponse struct {
	SlotID       uuid.UUID `json:"slotId"`
	PendingValue string    `json:"pendingValue"`
	State        string    `json:"state"`
}

// Journal

type JournalEntry struct {
	Source        string   `json:"source"`
	Time          string   `json:"time"`
	TargetStatus  *string  `json:"targetStatus,omitempty"`
	ReasonCode    *string  `json:"reasonCode,omitempty"`
	Comment       *string  `json:"comment,omitempty"`
	ReportedCount *float64 `json:"reportedCount,omitempty"`
	VehicleLabel  *string  `json:"vehicleLabel,omitempty"`
	DriverName    *string  `json:"driverName,omitempty"`
	Kind          *string  `json:"kind,omitempty"`
	FromVehicle   *string  `json:"fromVehicle,omitempty"`
	ToVehicle     *string  `json:"toVehicle,omitempty"`
	FromDriver    *string  `json:"fromDriver,omitempty"`
	ToDriver      *string  `json:"toDriver,omitempty"`
	Note          *string  `json:"note,omitempty"`
}

type JournalResponse struct {
	SlotID  uuid.UUID      `json:"slotId"`
	Entries []JournalEntry `json:"entries"`
}

// Reasons

type ReasonResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type ReasonsResponse struct {
	Actions map[string][]ReasonResponse `json:"actions"`
}
