package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checadora/internal/models"
)

func nightShift() models.ShiftSchedule {
	return models.ShiftSchedule{
		Name:         "Velador",
		StartMinutes: 22 * 60,
		EndMinutes:   6 * 60,
		Workdays:     defaultWorkdays(),
	}
}

func TestRemapperNightShiftExit(t *testing.T) {
	// Shift 22:00-06:00, entry day D 23:50, exit D+1 06:05: both must
	// land on day D.
	r := NewRemapper(nightShift())
	tuesday := monday.AddDate(0, 0, 1)

	assert.Equal(t, monday, r.WorkDate(at(monday, 23, 50)))
	assert.Equal(t, monday, r.WorkDate(at(tuesday, 6, 5)))

	// The session built from the remapped day spans midnight.
	seq := Normalize([]time.Time{at(monday, 23, 50), at(tuesday, 6, 5)})
	sessions := MatchSessions(seq.Entries, seq.Exits)
	require.Len(t, sessions, 1)
	assert.Equal(t, 6.25, sessions[0].Hours)
}

func TestRemapperLeavesEveningEntryAlone(t *testing.T) {
	r := NewRemapper(nightShift())
	tuesday := monday.AddDate(0, 0, 1)

	// The next shift's entry keeps its own calendar date.
	assert.Equal(t, tuesday, r.WorkDate(at(tuesday, 21, 55)))
	assert.Equal(t, tuesday, r.WorkDate(at(tuesday, 22, 0)))
}

func TestRemapperInactiveForDayShift(t *testing.T) {
	r := NewRemapper(DefaultSchedule())

	assert.Equal(t, monday, r.WorkDate(at(monday, 0, 5)))
	assert.Equal(t, monday, r.WorkDate(at(monday, 23, 55)))
}

func TestRemapperDateStable(t *testing.T) {
	// Remapping is a function of the instant only; applying it again to
	// the same instant never moves the date a second time.
	r := NewRemapper(nightShift())
	for _, scan := range []time.Time{at(monday, 3, 0), at(monday, 14, 0), at(monday, 23, 0)} {
		first := r.WorkDate(scan)
		assert.Equal(t, first, r.WorkDate(scan))
	}
}

func TestRemapperBoundaryClampedToShiftStart(t *testing.T) {
	// 18:00-14:00 is degenerate but must not swallow the next entry:
	// the boundary stops at the shift start.
	r := NewRemapper(models.ShiftSchedule{StartMinutes: 18 * 60, EndMinutes: 14 * 60, Workdays: defaultWorkdays()})

	assert.Equal(t, monday, r.WorkDate(at(monday, 18, 0)))
	assert.Equal(t, monday.AddDate(0, 0, -1), r.WorkDate(at(monday, 17, 59)))
}

func TestMergeDuplicatesAcrossPlants(t *testing.T) {
	// Same badge, same minute, two overlapping readers: one punch.
	scans := []models.ScanEvent{
		{EmployeeCode: "E100", Instant: at(monday, 8, 0), PlantID: "norte"},
		{EmployeeCode: "E100", Instant: at(monday, 8, 0).Add(20 * time.Second), PlantID: "sur"},
		{EmployeeCode: "E100", Instant: at(monday, 17, 0), PlantID: "norte"},
		{EmployeeCode: "E200", Instant: at(monday, 8, 0), PlantID: "sur"},
	}

	merged := MergeDuplicates(scans)

	require.Len(t, merged, 3)
	assert.Equal(t, "norte", merged[0].PlantID)
	assert.Equal(t, "E200", merged[2].EmployeeCode)
}

func TestBucketByDate(t *testing.T) {
	r := NewRemapper(nightShift())
	tuesday := monday.AddDate(0, 0, 1)
	scans := []models.ScanEvent{
		{EmployeeCode: "E100", Instant: at(monday, 23, 50)},
		{EmployeeCode: "E100", Instant: at(tuesday, 6, 5)},
		{EmployeeCode: "E100", Instant: at(tuesday, 22, 1)},
	}

	buckets := BucketByDate(scans, r)

	require.Len(t, buckets[monday], 2)
	require.Len(t, buckets[tuesday], 1)
}
