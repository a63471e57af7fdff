package engine

import (
	"time"

	"checadora/internal/models"
)

// MinOvertimeHours clamps overtime totals below five minutes to zero.
// Tolerance-window clock drift otherwise produces a trickle of 0.01h
// overtime entries on perfectly normal days.
const MinOvertimeHours = 5.0 / 60.0

// ClassifyDay combines one day's matched sessions with the resolved
// schedule and the holiday calendar into a DayRecord.
//
// Status precedence: holiday > non-workday > absence > worked. On a
// workday, only the portion of a session past the scheduled shift end
// counts as overtime; on a worked non-workday every hour is overtime.
// Late-arrival tolerance comparison is the reporting layer's job, using
// this same schedule; it is not duplicated here.
func ClassifyDay(code string, date time.Time, sessions []models.Session, sched models.ShiftSchedule, holiday bool) models.DayRecord {
	rec := models.DayRecord{
		EmployeeCode: code,
		Date:         date,
		Sessions:     sessions,
		WorkedHours:  TotalHours(sessions),
	}

	if holiday {
		rec.Status = models.StatusHoliday
		return rec
	}

	if !sched.IsWorkday(date.Weekday()) {
		if len(sessions) == 0 {
			rec.Status = models.StatusNonWorkday
			return rec
		}
		rec.Status = models.StatusExtraDay
		rec.OvertimeHours = rec.WorkedHours
		return rec
	}

	rec.IsWorkday = true
	if len(sessions) == 0 {
		rec.Status = models.StatusAbsent
		return rec
	}

	rec.Status = models.StatusComplete
	rec.OvertimeHours = overtimeAfterShiftEnd(date, sessions, sched)
	return rec
}

// overtimeAfterShiftEnd totals the session time past the scheduled end.
// For a midnight-crossing shift the end instant falls on the next
// calendar day.
func overtimeAfterShiftEnd(date time.Time, sessions []models.Session, sched models.ShiftSchedule) float64 {
	shiftEnd := date.Add(time.Duration(sched.EndMinutes) * time.Minute)
	if sched.CrossesMidnight() {
		shiftEnd = shiftEnd.AddDate(0, 0, 1)
	}

	var total float64
	for _, s := range sessions {
		if !s.Exit.After(shiftEnd) {
			continue
		}
		from := s.Entry
		if shiftEnd.After(from) {
			from = shiftEnd
		}
		total += RoundHours(s.Exit.Sub(from))
	}
	total = Round2(total)
	if total < MinOvertimeHours {
		return 0
	}
	return total
}
