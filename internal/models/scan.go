package models

import (
	"time"
)

// ScanEvent is one raw badge punch as synced from a plant time clock.
// The readers do not report direction; entry/exit roles are inferred
// later by the engine. Scans are immutable once stored.
type ScanEvent struct {
	EmployeeCode string    `db:"employee_code"`
	Instant      time.Time `db:"scanned_at"`
	PlantID      string    `db:"plant_id"`
}

// Session is a matched entry/exit pair representing continuous presence.
// Hours is rounded to 0.01 so per-session figures always add up to the
// totals shown in reports.
type Session struct {
	Entry time.Time `json:"entry"`
	Exit  time.Time `json:"exit"`
	Hours float64   `json:"hours"`
}
