package engine

import (
	"fmt"
	"sort"
	"time"

	"checadora/internal/models"
)

// ExcessiveDayHours triggers the excessive-hours warning. Sixteen hours
// in one day is physically possible but worth a human look.
const ExcessiveDayHours = 16.0

// AuditDay reruns normalization and matching for one employee/day and
// flags anomalies without altering any computed value. It never fails:
// degenerate input is a finding, not an error.
func AuditDay(code string, date time.Time, scans []models.ScanEvent) models.ValidationIssue {
	issue := models.ValidationIssue{
		EmployeeCode: code,
		Date:         date,
		ScanCount:    len(scans),
	}

	instants := make([]time.Time, len(scans))
	plants := make(map[string]bool)
	for i, sc := range scans {
		instants[i] = sc.Instant
		if sc.PlantID != "" {
			plants[sc.PlantID] = true
		}
	}

	seq := Normalize(instants)
	sessions, stats := matchSessions(seq.Entries, seq.Exits)
	issue.WorkedHours = TotalHours(sessions)
	issue.DedupDropped = len(instants) - len(seq.Deduped)

	if stats.overlong > 0 {
		issue.Flags = append(issue.Flags, fmt.Sprintf("%d session(s) longer than 24h discarded", stats.overlong))
	}
	if issue.WorkedHours == 0 && len(scans) > 0 {
		issue.Flags = append(issue.Flags, "scans present but no computable hours")
	}
	if _, open := seq.OpenEntry(); open {
		issue.Flags = append(issue.Flags, "unmatched trailing entry (still clocked in)")
	}
	if issue.WorkedHours > ExcessiveDayHours {
		issue.Flags = append(issue.Flags, fmt.Sprintf("excessive hours: %.2f in one day", issue.WorkedHours))
	}
	if len(plants) > 1 {
		for p := range plants {
			issue.Plants = append(issue.Plants, p)
		}
		sort.Strings(issue.Plants)
		issue.Flags = append(issue.Flags, fmt.Sprintf("scans span %d plants", len(plants)))
	}
	if issue.DedupDropped > 0 {
		issue.Flags = append(issue.Flags, fmt.Sprintf("%d duplicate scan(s) removed", issue.DedupDropped))
	}

	issue.Valid = len(issue.Flags) == 0
	return issue
}

// SortIssues orders a validation report for human review: invalid
// records first, then by employee code, then by date.
func SortIssues(issues []models.ValidationIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Valid != issues[j].Valid {
			return !issues[i].Valid
		}
		if issues[i].EmployeeCode != issues[j].EmployeeCode {
			return issues[i].EmployeeCode < issues[j].EmployeeCode
		}
		return issues[i].Date.Before(issues[j].Date)
	})
}
