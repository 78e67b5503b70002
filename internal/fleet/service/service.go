// Package service provides read-only fleet lookups for the dispatch UI.
package service

import (
	"context"

	"github.com/google/uuid"

	"depot_dispatch_backend/internal/fleet/repository"
	"depot_dispatch_backend/internal/fleet/transport"
	"depot_dispatch_backend/platform/logger"
)

// Service provides fleet roster lookups.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new fleet service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListConvoys returns all convoys.
func (s *Service) ListConvoys(ctx context.Context) ([]transport.ConvoyResponse, error) {
	convoys, err := s.repo.ListConvoys(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]transport.ConvoyResponse, 0, len(convoys))
	for _, convoy := range convoys {
		result = append(result, transport.ConvoyResponse{
			ID:   convoy.ID,
			Code: convoy.Code,
			Name: convoy.Name,
		})
	}
	return result, nil
}

// ListVehicles returns the vehicle roster.
func (s *Service) ListVehicles(ctx context.Context, convoyID *uuid.UUID, activeOnly bool) ([]transport.VehicleResponse, error) {
	vehicles, err := s.repo.ListVehicles(ctx, repository.ListVehiclesParams{
		ConvoyID:   convoyID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, err
	}
	result := make([]transport.VehicleResponse, 0, len(vehicles))
	for _, vehicle := range vehicles {
		result = append(result, transport.VehicleResponse{
			ID:       vehicle.ID,
			ConvoyID: vehicle.ConvoyID,
			Label:    vehicle.Label,
			Model:    vehicle.Model,
			Active:   vehicle.Active,
		})
	}
	return result, nil
}

// ListDrivers returns the driver roster.
func (s *Service) ListDrivers(ctx context.Context, convoyID *uuid.UUID, activeOnly bool) ([]transport.DriverResponse, error) {
	drivers, err := s.repo.ListDrivers(ctx, repository.ListDriversParams{
		ConvoyID:   convoyID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, err
	}
	result := make([]transport.DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		result = append(result, transport.DriverResponse{
			ID:              driver.ID,
			ConvoyID:        driver.ConvoyID,
			PersonnelNumber: driver.PersonnelNumber,
			FullName:        driver.FullName,
			Active:          driver.Active,
		})
	}
	return result, nil
}
