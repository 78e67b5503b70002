package transport

import "github.com/google/uuid"

type ListVehiclesRequest struct {
	ConvoyID   string `form:"convoyId" validate:"omitempty,uuid"`
	ActiveOnly bool   `form:"activeOnly"`
}

type ListDriversRequest struct {
	ConvoyID   string `form:"convoyId" validate:"omitempty,uuid"`
	ActiveOnly bool   `form:"activeOnly"`
}

type ConvoyResponse struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

type VehicleResponse struct {
	ID       uuid.UUID `json:"id"`
	ConvoyID uuid.UUID `json:"convoyId"`
	Label    string    `json:"label"`
	Model    *string   `json:"model,omitempty"`
	Active   bool      `json:"active"`
}

type DriverResponse struct {
	ID              uuid.UUID `json:"id"`
	ConvoyID        uuid.UUID `json:"convoyId"`
	PersonnelNumber string    `json:"personnelNumber"`
	FullName        string    `json:"fullName"`
	Active          bool      `json:"active"`
}
