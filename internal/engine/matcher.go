package engine

import (
	"math"
	"time"

	"checadora/internal/models"
)

const (
	// MinSessionHours and MaxSessionHours bound a plausible single
	// session. Pairs outside the bounds are left unmatched.
	MinSessionHours = 0.1
	MaxSessionHours = 24.0
)

// matchStats carries the bookkeeping the auditor needs about pairs the
// matcher rejected.
type matchStats struct {
	overlong         int // candidate pairs longer than MaxSessionHours
	unmatchedEntries int // entries that found no valid exit
}

// MatchSessions pairs entries with exits into work sessions. For each
// entry in order, exits at or before the entry are skipped as stale;
// the next exit is paired if the duration falls within
// [MinSessionHours, MaxSessionHours]. Unpairable entries are skipped
// and contribute nothing to totalled hours.
func MatchSessions(entries, exits []time.Time) []models.Session {
	sessions, _ := matchSessions(entries, exits)
	return sessions
}

func matchSessions(entries, exits []time.Time) ([]models.Session, matchStats) {
	var (
		sessions []models.Session
		stats    matchStats
	)
	j := 0
	for _, entry := range entries {
		for j < len(exits) && !exits[j].After(entry) {
			j++
		}
		if j >= len(exits) {
			stats.unmatchedEntries++
			continue
		}
		hours := RoundHours(exits[j].Sub(entry))
		if hours > MaxSessionHours {
			stats.overlong++
			stats.unmatchedEntries++
			continue
		}
		if hours < MinSessionHours {
			stats.unmatchedEntries++
			continue
		}
		sessions = append(sessions, models.Session{Entry: entry, Exit: exits[j], Hours: hours})
		j++
	}
	return sessions, stats
}

// TotalHours is the rounded sum of the already-rounded session hours.
// Summing rounded figures keeps the total consistent with the
// per-session numbers users see, at the cost of up to a hundredth of
// drift against the raw durations.
func TotalHours(sessions []models.Session) float64 {
	var total float64
	for _, s := range sessions {
		total += s.Hours
	}
	return Round2(total)
}

// RoundHours converts a duration to hours rounded to 0.01.
func RoundHours(d time.Duration) float64 {
	return Round2(d.Hours())
}

// Round2 rounds to two decimal places. Every aggregation boundary
// (session, day, total) rounds; rounding is never deferred to output.
func Round2(h float64) float64 {
	return math.Round(h*100) / 100
}
