package db

import (
	"context"
	"time"

	"checadora/internal/models"
)

// InsertScan stores one raw punch. Scans are immutable; replays from a
// plant (the sync window overlaps on purpose) hit the unique constraint
// and are dropped silently.
func (db *DB) InsertScan(ctx context.Context, scan models.ScanEvent) error {
	query := `
		INSERT INTO scans (employee_code, scanned_at, plant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_code, scanned_at, plant_id) DO NOTHING`

	_, err := db.Exec(ctx, query, scan.EmployeeCode, scan.Instant, scan.PlantID)
	return err
}

// InsertScans stores a batch of punches from one sync cycle.
func (db *DB) InsertScans(ctx context.Context, scans []models.ScanEvent) error {
	for _, scan := range scans {
		if err := db.InsertScan(ctx, scan); err != nil {
			return err
		}
	}
	return nil
}

// ScansInRange returns all scans with from <= scanned_at < to, across
// all plants, ordered by employee and instant. Implements the engine's
// ScanSource. Instants are returned in the window's location so date
// bucketing downstream stays consistent.
func (db *DB) ScansInRange(ctx context.Context, from, to time.Time) ([]models.ScanEvent, error) {
	query := `
		SELECT employee_code, scanned_at, plant_id
		FROM scans
		WHERE scanned_at >= $1 AND scanned_at < $2
		ORDER BY employee_code, scanned_at`

	rows, err := db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loc := from.Location()
	var scans []models.ScanEvent
	for rows.Next() {
		var sc models.ScanEvent
		if err := rows.Scan(&sc.EmployeeCode, &sc.Instant, &sc.PlantID); err != nil {
			return nil, err
		}
		sc.Instant = sc.Instant.In(loc)
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}
