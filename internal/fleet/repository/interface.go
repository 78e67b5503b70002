package repository

import (
	"context"

	"github.com/google/uuid"
)

// Convoy is a depot column: the organizational unit dispatch statements are
// scoped to.
type Convoy struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Vehicle is a rostered vehicle. Label is the garage number dispatchers use.
type Vehicle struct {
	ID       uuid.UUID
	ConvoyID uuid.UUID
	Label    string
	Model    *string
	Active   bool
}

// Driver is a rostered driver. PersonnelNumber is the depot-issued badge id.
type Driver struct {
	ID              uuid.UUID
	ConvoyID        uuid.UUID
	PersonnelNumber string
	FullName        string
	Active          bool
}

// ListVehiclesParams filters the vehicle roster.
type ListVehiclesParams struct {
	// ConvoyID restricts to one convoy. Nil means all.
	ConvoyID *uuid.UUID
	// ActiveOnly drops vehicles marked out of service.
	ActiveOnly bool
}

// ListDriversParams filters the driver roster.
type ListDriversParams struct {
	ConvoyID   *uuid.UUID
	ActiveOnly bool
}

// Repository is the read-only persistence boundary of the fleet context.
// Roster administration happens in an upstream system; this service only
// resolves references.
type Repository interface {
	ListConvoys(ctx context.Context) ([]Convoy, error)
	ListVehicles(ctx context.Context, params ListVehiclesParams) ([]Vehicle, error)
	ListDrivers(ctx context.Context, params ListDriversParams) ([]Driver, error)
}
