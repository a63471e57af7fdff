package db

import (
	"context"
	"time"
)

// AddHoliday declares a non-workable date for everyone.
func (db *DB) AddHoliday(ctx context.Context, date time.Time, name string) error {
	query := `
		INSERT INTO holidays (day, name)
		VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE SET name = EXCLUDED.name`

	_, err := db.Exec(ctx, query, date, name)
	return err
}

// RemoveHoliday undeclares a holiday.
func (db *DB) RemoveHoliday(ctx context.Context, date time.Time) error {
	query := `
		DELETE FROM holidays
		WHERE day = $1`

	_, err := db.Exec(ctx, query, date)
	return err
}

// Holidays returns the declared holidays inside [from, to] keyed by
// local midnight in the window's location, matching how the pipeline
// iterates dates. Implements the engine's Calendar.
func (db *DB) Holidays(ctx context.Context, from, to time.Time) (map[time.Time]bool, error) {
	query := `
		SELECT day
		FROM holidays
		WHERE day >= $1 AND day <= $2`

	rows, err := db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loc := from.Location()
	holidays := make(map[time.Time]bool)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		y, m, d := day.Date()
		holidays[time.Date(y, m, d, 0, 0, 0, 0, loc)] = true
	}
	return holidays, rows.Err()
}
