package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"checadora/internal/models"
)

func session(entry, exit time.Time) models.Session {
	return models.Session{Entry: entry, Exit: exit, Hours: RoundHours(exit.Sub(entry))}
}

func TestClassifyDayHoliday(t *testing.T) {
	rec := ClassifyDay("E100", monday, nil, DefaultSchedule(), true)

	assert.Equal(t, models.StatusHoliday, rec.Status)
	assert.False(t, rec.IsWorkday)
	assert.Zero(t, rec.OvertimeHours)
}

func TestClassifyDayAbsence(t *testing.T) {
	// Scheduled workday, no holiday, zero scans: falta.
	rec := ClassifyDay("E100", monday, nil, DefaultSchedule(), false)

	assert.Equal(t, models.StatusAbsent, rec.Status)
	assert.True(t, rec.IsWorkday)
	assert.Zero(t, rec.WorkedHours)
	assert.Zero(t, rec.OvertimeHours)
}

func TestClassifyDayNonWorkday(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)

	rec := ClassifyDay("E100", sunday, nil, DefaultSchedule(), false)

	assert.Equal(t, models.StatusNonWorkday, rec.Status)
	assert.False(t, rec.IsWorkday)
}

func TestClassifyDayExtraDayCountsAllHoursAsOvertime(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)
	sessions := []models.Session{session(at(sunday, 8, 0), at(sunday, 12, 0))}

	rec := ClassifyDay("E100", sunday, sessions, DefaultSchedule(), false)

	assert.Equal(t, models.StatusExtraDay, rec.Status)
	assert.Equal(t, 4.0, rec.WorkedHours)
	assert.Equal(t, 4.0, rec.OvertimeHours)
}

func TestClassifyDayOvertimeAfterShiftEnd(t *testing.T) {
	// Schedule 06:00-15:30, session 06:00-19:30: 4.0h past the end.
	sessions := []models.Session{session(at(monday, 6, 0), at(monday, 19, 30))}

	rec := ClassifyDay("E100", monday, sessions, DefaultSchedule(), false)

	assert.Equal(t, models.StatusComplete, rec.Status)
	assert.Equal(t, 13.5, rec.WorkedHours)
	assert.Equal(t, 4.0, rec.OvertimeHours)
}

func TestClassifyDayNoOvertimeBeforeShiftEnd(t *testing.T) {
	sessions := []models.Session{session(at(monday, 6, 0), at(monday, 15, 20))}

	rec := ClassifyDay("E100", monday, sessions, DefaultSchedule(), false)

	assert.Equal(t, models.StatusComplete, rec.Status)
	assert.Zero(t, rec.OvertimeHours)
}

func TestClassifyDayOvertimeBelowFloorClamped(t *testing.T) {
	// Four minutes past shift end is tolerance-window clock drift.
	sessions := []models.Session{session(at(monday, 6, 0), at(monday, 15, 34))}

	rec := ClassifyDay("E100", monday, sessions, DefaultSchedule(), false)

	assert.Zero(t, rec.OvertimeHours)
}

func TestClassifyDayOvertimeEntryAfterShiftEnd(t *testing.T) {
	// A session that starts after shift end is overtime from its entry.
	sessions := []models.Session{session(at(monday, 17, 0), at(monday, 19, 0))}

	rec := ClassifyDay("E100", monday, sessions, DefaultSchedule(), false)

	assert.Equal(t, 2.0, rec.OvertimeHours)
}

func TestClassifyDayNightShiftEndOnNextDay(t *testing.T) {
	// 22:00-06:00 shift worked to completion: the shift end instant is
	// on the next calendar day, so a 23:50-06:05 session is not 6h of
	// overtime, and five minutes past the end clamps to zero.
	tuesday := monday.AddDate(0, 0, 1)
	sessions := []models.Session{session(at(monday, 23, 50), at(tuesday, 6, 5))}

	rec := ClassifyDay("E100", monday, sessions, nightShift(), false)

	assert.Equal(t, models.StatusComplete, rec.Status)
	assert.Equal(t, 6.25, rec.WorkedHours)
	assert.Zero(t, rec.OvertimeHours)
}

func TestClassifyDayRoundsAtEachBoundary(t *testing.T) {
	sessions := []models.Session{
		session(at(monday, 6, 0), at(monday, 10, 1)),
		session(at(monday, 11, 0), at(monday, 15, 30)),
	}

	rec := ClassifyDay("E100", monday, sessions, DefaultSchedule(), false)

	assert.Equal(t, 4.02, sessions[0].Hours)
	assert.Equal(t, 8.52, rec.WorkedHours)
}
