package engine

import (
	"strings"
	"time"

	"checadora/internal/models"
)

// Default schedule used when an employee has no schedule rows at all,
// and as the baseline the "more specific" tie-break compares against.
// Plants register workers with this boilerplate shift as a side effect
// of roster sync.
const (
	DefaultStartMinutes = 6 * 60       // 06:00
	DefaultEndMinutes   = 15*60 + 30   // 15:30
	DefaultScheduleName = "Producción" // boilerplate production shift
)

// specificMarkers are role keywords in a schedule name that identify
// the minority of employees (office staff, drivers) whose schedule is
// deliberate rather than a roster-sync default. Tunable by product.
var specificMarkers = []string{"oficina", "office", "chofer", "driver"}

// DefaultSchedule is the Monday-Friday 06:00-15:30 fallback with zero
// tolerance and no midnight crossing.
func DefaultSchedule() models.ShiftSchedule {
	return models.ShiftSchedule{
		Name:         DefaultScheduleName,
		StartMinutes: DefaultStartMinutes,
		EndMinutes:   DefaultEndMinutes,
		Workdays:     defaultWorkdays(),
	}
}

func defaultWorkdays() map[time.Weekday]bool {
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

// ResolveShift picks the single effective schedule from an employee's
// candidate rows, which must be ordered by sync time ascending:
//
//  1. A manual override always wins, unconditionally.
//  2. Otherwise the last-synced row is the default candidate, but the
//     first candidate judged more specific overrides it. A candidate is
//     specific when its start differs from the boilerplate 06:00 or its
//     name carries an office/driver role marker.
//  3. No rows at all falls back to DefaultSchedule.
//
// The specificity rule exists because plants re-register shared workers
// with the boilerplate shift; a genuinely different schedule must beat
// any number of accidental defaults.
func ResolveShift(candidates []models.ShiftCandidate) models.ShiftSchedule {
	if len(candidates) == 0 {
		return DefaultSchedule()
	}
	for _, c := range candidates {
		if c.Manual {
			return toSchedule(c)
		}
	}
	for _, c := range candidates {
		if isSpecific(c) {
			return toSchedule(c)
		}
	}
	return toSchedule(candidates[len(candidates)-1])
}

func isSpecific(c models.ShiftCandidate) bool {
	if c.StartMinutes != DefaultStartMinutes {
		return true
	}
	name := strings.ToLower(c.Name)
	for _, m := range specificMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// toSchedule converts a candidate row, substituting the Monday-Friday
// default when the stored workday set is unusable. Bad schedule data is
// recovered locally, never propagated as an error.
func toSchedule(c models.ShiftCandidate) models.ShiftSchedule {
	s := models.ShiftSchedule{
		Name:             c.Name,
		StartMinutes:     c.StartMinutes,
		EndMinutes:       c.EndMinutes,
		ToleranceMinutes: c.ToleranceMinutes,
		Workdays:         parseWorkdays(c.Workdays),
		Manual:           c.Manual,
		PlantID:          c.PlantID,
	}
	if s.StartMinutes < 0 || s.StartMinutes >= 24*60 || s.EndMinutes < 0 || s.EndMinutes >= 24*60 {
		s.StartMinutes = DefaultStartMinutes
		s.EndMinutes = DefaultEndMinutes
	}
	return s
}

func parseWorkdays(days []int64) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		set[time.Weekday(d)] = true
	}
	if len(set) == 0 {
		return defaultWorkdays()
	}
	return set
}
