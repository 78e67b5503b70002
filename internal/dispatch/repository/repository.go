package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"depot_dispatch_backend/platform/apperr"
)

const rowNotFoundMessage = "statement row not found"

// Repo implements the dispatch repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dispatch repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const slotRowColumns = `
	r.slot_id, r.service_date, r.convoy_id, r.route_id, rt.label,
	r.statement_id, r.slot_label, r.planned_revolutions, r.fact_revolutions,
	r.reported_revolutions, r.driver_reported_revolutions, r.status,
	r.raw_status, r.vehicle_label, r.driver_name, r.note, r.payload`

func scanSlotRow(scanner interface{ Scan(...interface{}) error }) (SlotRow, error) {
	var row SlotRow
	var payload []byte
	if err := scanner.Scan(
		&row.SlotID, &row.ServiceDate, &row.ConvoyID, &row.RouteID, &row.RouteLabel,
		&row.StatementID, &row.SlotLabel, &row.PlannedRevolutions, &row.FactRevolutions,
		&row.ReportedRevolutions, &row.DriverReportedRevolutions, &row.Status,
		&row.RawStatus, &row.VehicleLabel, &row.DriverName, &row.Note, &payload,
	); err != nil {
		return SlotRow{}, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &row.Payload); err != nil {
			// A malformed payload must not sink the whole row; the modeled
			// columns are intact.
			row.Payload = nil
		}
	}
	return row, nil
}

// ListSlotRows returns the day's plan for one convoy, joined with routes.
func (r *Repo) ListSlotRows(ctx context.Context, params ListSlotRowsParams) ([]SlotRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM statement_rows r
		JOIN statement_routes rt ON rt.id = r.route_id
		WHERE r.service_date = $1 AND r.convoy_id = $2`, slotRowColumns)

	args := []interface{}{params.ServiceDate, params.ConvoyID}
	if params.Status != "" {
		query += " AND r.status = $3"
		args = append(args, params.Status)
	}
	query += " ORDER BY rt.label, r.slot_label"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slot rows: %w", err)
	}
	defer rows.Close()

	var result []SlotRow
	for rows.Next() {
		row, err := scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetRowBySlot retrieves a single row by its slot identity.
func (r *Repo) GetRowBySlot(ctx context.Context, slotID uuid.UUID) (SlotRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM statement_rows r
		JOIN statement_routes rt ON rt.id = r.route_id
		WHERE r.slot_id = $1`, slotRowColumns)

	row, err := scanSlotRow(r.pool.QueryRow(ctx, query, slotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SlotRow{}, apperr.NotFound(rowNotFoundMessage)
		}
		return SlotRow{}, fmt.Errorf("get row by slot: %w", err)
	}
	return row, nil
}

// TransitionRow applies a status transition and appends the audit entry in
// one transaction. The action log is append-only: nothing here ever updates
// or deletes existing entries.
func (r *Repo) TransitionRow(ctx context.Context, params TransitionParams) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("transition row: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	update := `
		UPDATE statement_rows
		SET status = $2,
			raw_status = $2,
			reported_revolutions = COALESCE($3, reported_revolutions),
			updated_at = now()
		WHERE slot_id = $1`

	tag, err := tx.Exec(ctx, update, params.SlotID, params.TargetStatus, params.ReportedCount)
	if err != nil {
		return uuid.Nil, fmt.Errorf("transition row: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return uuid.Nil, apperr.NotFound(rowNotFoundMessage)
	}

	insert := `
		INSERT INTO action_log (
			slot_id, statement_id, time_of_day, target_status, reason_code,
			comment, reported_count, vehicle_label, driver_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var logID uuid.UUID
	if err := tx.QueryRow(ctx, insert,
		params.SlotID, params.StatementID, params.TimeOfDay, params.TargetStatus,
		params.ReasonCode, params.Comment, params.ReportedCount,
		params.VehicleLabel, params.DriverName,
	).Scan(&logID); err != nil {
		return uuid.Nil, fmt.Errorf("transition row: append log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("transition row: commit: %w", err)
	}
	return logID, nil
}

// ListActionLog returns the audit entries for a slot, oldest first.
func (r *Repo) ListActionLog(ctx context.Context, slotID uuid.UUID) ([]ActionLogEntry, error) {
	query := `
		SELECT id, slot_id, statement_id, logged_at, time_of_day, target_status,
			reason_code, comment, reported_count, vehicle_label, driver_name
		FROM action_log
		WHERE slot_id = $1
		ORDER BY logged_at`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list action log: %w", err)
	}
	defer rows.Close()

	var result []ActionLogEntry
	for rows.Next() {
		var entry ActionLogEntry
		if err := rows.Scan(
			&entry.ID, &entry.SlotID, &entry.StatementID, &entry.LoggedAt,
			&entry.TimeOfDay, &entry.TargetStatus, &entry.ReasonCode,
			&entry.Comment, &entry.ReportedCount, &entry.VehicleLabel, &entry.DriverName,
		); err != nil {
			return nil, fmt.Errorf("scan action log entry: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// ListReplacementHistory returns the externally fed swap/repair events for a
// slot. This feed is read-only to the dispatch service.
func (r *Repo) ListReplacementHistory(ctx context.Context, slotID uuid.UUID) ([]ReplacementEntry, error) {
	query := `
		SELECT id, slot_id, kind, occurred_at_text, from_vehicle, to_vehicle,
			from_driver, to_driver, note
		FROM replacement_history
		WHERE slot_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list replacement history: %w", err)
	}
	defer rows.Close()

	var result []ReplacementEntry
	for rows.Next() {
		var entry ReplacementEntry
		if err := rows.Scan(
			&entry.ID, &entry.SlotID, &entry.Kind, &entry.OccurredAtText,
			&entry.FromVehicle, &entry.ToVehicle, &entry.FromDriver,
			&entry.ToDriver, &entry.Note,
		); err != nil {
			return nil, fmt.Errorf("scan replacement entry: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// UpdateReportedCount persists the debounced reported count and its
// driver-reported mirror for the row linked to the given statement.
func (r *Repo) UpdateReportedCount(ctx context.Context, params UpdateReportedCountParams) error {
	query := `
		UPDATE statement_rows
		SET reported_revolutions = $2,
			driver_reported_revolutions = $3,
			updated_at = now()
		WHERE statement_id = $1`

	tag, err := r.pool.Exec(ctx, query, params.StatementID, params.ReportedCount, params.DriverReportedCount)
	if err != nil {
		return fmt.Errorf("update reported count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("statement not found")
	}
	return nil
}

// ListUnreportedActive returns rows still on work with no reported count.
func (r *Repo) ListUnreportedActive(ctx context.Context, serviceDate time.Time, convoyID uuid.UUID) ([]SlotRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM statement_rows r
		JOIN statement_routes rt ON rt.id = r.route_id
		WHERE r.service_date = $1 AND r.convoy_id = $2
			AND r.status = 'OnWork' AND r.reported_revolutions IS NULL
		ORDER BY rt.label, r.slot_label`, slotRowColumns)

	rows, err := r.pool.Query(ctx, query, serviceDate, convoyID)
	if err != nil {
		return nil, fmt.Errorf("list unreported active: %w", err)
	}
	defer rows.Close()

	var result []SlotRow
	for rows.Next() {
		row, err := scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
