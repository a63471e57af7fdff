package engine

import (
	"time"

	"checadora/internal/models"
)

// nightExitGrace extends the remap boundary past the scheduled shift
// end. Night-shift exits routinely run late (overtime, a forgotten
// badge-out); an exit after the nominal end still belongs to the shift
// that started the evening before. The boundary never reaches the shift
// start, so the next evening's entry is unaffected.
const nightExitGrace = 8 * time.Hour

// Remapper assigns scans to their logical work date. For a shift that
// crosses midnight (e.g. 22:00-06:00) the early-morning exit lands on
// the next calendar date but belongs to the previous work day; without
// the remap that day reads as an absence and the next day gets an
// orphaned entry. A scan whose time-of-day is before the boundary
// (shift end plus grace) belongs to the previous date.
//
// Remapping must happen before scans are bucketed per day.
type Remapper struct {
	boundaryMinutes int
	active          bool
}

// NewRemapper builds a remapper for the employee's resolved schedule.
// Schedules that do not cross midnight remap nothing.
func NewRemapper(s models.ShiftSchedule) Remapper {
	if !s.CrossesMidnight() {
		return Remapper{}
	}
	boundary := s.EndMinutes + int(nightExitGrace.Minutes())
	if boundary > s.StartMinutes {
		boundary = s.StartMinutes
	}
	return Remapper{boundaryMinutes: boundary, active: true}
}

// WorkDate returns the logical work date for a scan instant. The result
// depends only on the instant, so applying it twice is stable.
func (r Remapper) WorkDate(t time.Time) time.Time {
	d := DateOf(t)
	if r.active && minuteOfDay(t) < r.boundaryMinutes {
		return d.AddDate(0, 0, -1)
	}
	return d
}

// DateOf truncates an instant to local midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// MergeDuplicates drops scans that hit overlapping readers: the same
// badge at the same minute on two plants is one punch, not two. Input
// order is preserved for the survivors.
func MergeDuplicates(scans []models.ScanEvent) []models.ScanEvent {
	type key struct {
		code   string
		minute int64
	}
	seen := make(map[key]bool, len(scans))
	merged := make([]models.ScanEvent, 0, len(scans))
	for _, sc := range scans {
		k := key{code: sc.EmployeeCode, minute: sc.Instant.Truncate(time.Minute).Unix()}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, sc)
	}
	return merged
}

// BucketByDate groups one employee's scans by logical work date, with
// the night-shift remap applied.
func BucketByDate(scans []models.ScanEvent, r Remapper) map[time.Time][]models.ScanEvent {
	buckets := make(map[time.Time][]models.ScanEvent)
	for _, sc := range scans {
		d := r.WorkDate(sc.Instant)
		buckets[d] = append(buckets[d], sc)
	}
	return buckets
}
