package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ShiftCandidate is one schedule row for an employee. Plants push a row
// for every employee they have on their roster, so one person commonly
// has several candidates at once; an admin can additionally pin a manual
// override. Candidates are ordered by SyncedAt ascending when loaded.
type ShiftCandidate struct {
	ID               uuid.UUID     `db:"id"`
	EmployeeCode     string        `db:"employee_code"`
	Name             string        `db:"name"`
	StartMinutes     int           `db:"start_minutes"`
	EndMinutes       int           `db:"end_minutes"`
	ToleranceMinutes int           `db:"tolerance_minutes"`
	Workdays         pq.Int64Array `db:"workdays"`
	Manual           bool          `db:"is_manual"`
	PlantID          string        `db:"plant_id"`
	SyncedAt         time.Time     `db:"synced_at"`
}

// ShiftSchedule is the single effective schedule for an employee after
// conflict resolution. Start/end are minutes after local midnight.
type ShiftSchedule struct {
	Name             string                `json:"name"`
	StartMinutes     int                   `json:"start_minutes"`
	EndMinutes       int                   `json:"end_minutes"`
	ToleranceMinutes int                   `json:"tolerance_minutes"`
	Workdays         map[time.Weekday]bool `json:"-"`
	Manual           bool                  `json:"manual"`
	PlantID          string                `json:"plant_id,omitempty"`
}

// CrossesMidnight reports whether the shift ends on the calendar day
// after it starts (e.g. 22:00-06:00).
func (s ShiftSchedule) CrossesMidnight() bool {
	return s.StartMinutes > s.EndMinutes
}

// IsWorkday reports whether the given weekday is scheduled.
func (s ShiftSchedule) IsWorkday(d time.Weekday) bool {
	return s.Workdays[d]
}
