package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the fleet repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new fleet repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListConvoys returns all convoys ordered by code.
func (r *Repo) ListConvoys(ctx context.Context) ([]Convoy, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name FROM convoys ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list convoys: %w", err)
	}
	defer rows.Close()

	var result []Convoy
	for rows.Next() {
		var convoy Convoy
		if err := rows.Scan(&convoy.ID, &convoy.Code, &convoy.Name); err != nil {
			return nil, fmt.Errorf("scan convoy: %w", err)
		}
		result = append(result, convoy)
	}
	return result, rows.Err()
}

// ListVehicles returns the vehicle roster, optionally scoped to one convoy.
func (r *Repo) ListVehicles(ctx context.Context, params ListVehiclesParams) ([]Vehicle, error) {
	query := `SELECT id, convoy_id, label, model, active FROM vehicles WHERE 1=1`
	var args []interface{}
	if params.ConvoyID != nil {
		args = append(args, *params.ConvoyID)
		query += fmt.Sprintf(" AND convoy_id = $%d", len(args))
	}
	if params.ActiveOnly {
		query += " AND active"
	}
	query += " ORDER BY label"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var result []Vehicle
	for rows.Next() {
		var vehicle Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.ConvoyID, &vehicle.Label, &vehicle.Model, &vehicle.Active); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		result = append(result, vehicle)
	}
	return result, rows.Err()
}

// ListDrivers returns the driver roster, optionally scoped to one convoy.
func (r *Repo) ListDrivers(ctx context.Context, params ListDriversParams) ([]Driver, error) {
	query := `SELECT id, convoy_id, personnel_number, full_name, active FROM drivers WHERE 1=1`
	var args []interface{}
	if params.ConvoyID != nil {
		args = append(args, *params.ConvoyID)
		query += fmt.Sprintf(" AND convoy_id = $%d", len(args))
	}
	if params.ActiveOnly {
		query += " AND active"
	}
	query += " ORDER BY full_name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	var result []Driver
	for rows.Next() {
		var driver Driver
		if err := rows.Scan(&driver.ID, &driver.ConvoyID, &driver.PersonnelNumber, &driver.FullName, &driver.Active); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		result = append(result, driver)
	}
	return result, rows.Err()
}
