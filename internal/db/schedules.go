package db

import (
	"context"
	"time"

	"checadora/internal/models"

	"github.com/google/uuid"
)

// UpsertSyncedSchedule stores the schedule row a plant reports for an
// employee. One synced row per (employee, plant); re-syncs refresh the
// row and bump synced_at so the resolver sees it as most recent.
func (db *DB) UpsertSyncedSchedule(ctx context.Context, cand models.ShiftCandidate) error {
	query := `
		INSERT INTO shift_schedules
			(id, employee_code, name, start_minutes, end_minutes, tolerance_minutes, workdays, is_manual, plant_id, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)
		ON CONFLICT (employee_code, plant_id) WHERE NOT is_manual
		DO UPDATE SET
			name = EXCLUDED.name,
			start_minutes = EXCLUDED.start_minutes,
			end_minutes = EXCLUDED.end_minutes,
			tolerance_minutes = EXCLUDED.tolerance_minutes,
			workdays = EXCLUDED.workdays,
			synced_at = EXCLUDED.synced_at`

	_, err := db.Exec(ctx, query,
		uuid.New().String(),
		cand.EmployeeCode,
		cand.Name,
		cand.StartMinutes,
		cand.EndMinutes,
		cand.ToleranceMinutes,
		cand.Workdays,
		cand.PlantID,
		cand.SyncedAt,
	)
	return err
}

// SetManualSchedule pins an admin override for an employee, replacing
// any previous override. Synced rows are left untouched; the resolver
// ignores them while the override exists.
func (db *DB) SetManualSchedule(ctx context.Context, cand models.ShiftCandidate) error {
	if err := db.ClearManualSchedule(ctx, cand.EmployeeCode); err != nil {
		return err
	}

	query := `
		INSERT INTO shift_schedules
			(id, employee_code, name, start_minutes, end_minutes, tolerance_minutes, workdays, is_manual, plant_id, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, '', $8)`

	_, err := db.Exec(ctx, query,
		uuid.New().String(),
		cand.EmployeeCode,
		cand.Name,
		cand.StartMinutes,
		cand.EndMinutes,
		cand.ToleranceMinutes,
		cand.Workdays,
		time.Now(),
	)
	return err
}

// ClearManualSchedule removes an employee's admin override, restoring
// synced-row resolution.
func (db *DB) ClearManualSchedule(ctx context.Context, employeeCode string) error {
	query := `
		DELETE FROM shift_schedules
		WHERE employee_code = $1 AND is_manual`

	_, err := db.Exec(ctx, query, employeeCode)
	return err
}

// CandidatesByEmployee loads every schedule row grouped by employee,
// ordered by synced_at ascending so the last row of each slice is the
// most recently synced. Implements the engine's ScheduleSource.
func (db *DB) CandidatesByEmployee(ctx context.Context) (map[string][]models.ShiftCandidate, error) {
	query := `
		SELECT id, employee_code, name, start_minutes, end_minutes, tolerance_minutes, workdays, is_manual, plant_id, synced_at
		FROM shift_schedules
		ORDER BY employee_code, synced_at`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make(map[string][]models.ShiftCandidate)
	for rows.Next() {
		var c models.ShiftCandidate
		err := rows.Scan(
			&c.ID,
			&c.EmployeeCode,
			&c.Name,
			&c.StartMinutes,
			&c.EndMinutes,
			&c.ToleranceMinutes,
			&c.Workdays,
			&c.Manual,
			&c.PlantID,
			&c.SyncedAt,
		)
		if err != nil {
			return nil, err
		}
		candidates[c.EmployeeCode] = append(candidates[c.EmployeeCode], c)
	}
	return candidates, rows.Err()
}
