package models

import "time"

// DayStatus classifies one employee/day for every report surface.
type DayStatus string

const (
	StatusComplete   DayStatus = "A" // worked a scheduled day
	StatusAbsent     DayStatus = "F" // falta: scheduled day with no presence
	StatusHoliday    DayStatus = "H" // declared holiday
	StatusNonWorkday DayStatus = "N" // not scheduled, no presence
	StatusExtraDay   DayStatus = "E" // worked an unscheduled day
)

// DayRecord is the reconciled result for one employee on one logical
// work date. It is recomputed on every request and never persisted.
type DayRecord struct {
	EmployeeCode  string    `json:"employee_code"`
	Date          time.Time `json:"date"`
	Sessions      []Session `json:"sessions"`
	WorkedHours   float64   `json:"worked_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
	Status        DayStatus `json:"status"`
	IsWorkday     bool      `json:"is_workday"`
}

// ValidationIssue is the audit result for one employee/day. Flags are
// human-readable; a record with no flags is valid. Anomalies never stop
// the pipeline, they are collected for review.
type ValidationIssue struct {
	EmployeeCode string    `json:"employee_code"`
	Date         time.Time `json:"date"`
	Valid        bool      `json:"valid"`
	Flags        []string  `json:"flags,omitempty"`
	WorkedHours  float64   `json:"worked_hours"`
	ScanCount    int       `json:"scan_count"`
	DedupDropped int       `json:"dedup_dropped"`
	Plants       []string  `json:"plants,omitempty"`
}
