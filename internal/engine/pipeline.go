package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"checadora/internal/models"
)

// ScanSource provides raw scans for a window, already merged across all
// active plants. Implemented by the storage layer.
type ScanSource interface {
	ScansInRange(ctx context.Context, from, to time.Time) ([]models.ScanEvent, error)
}

// ScheduleSource provides the schedule candidate rows per employee,
// ordered by sync time ascending so the last row is the most recent.
type ScheduleSource interface {
	CandidatesByEmployee(ctx context.Context) (map[string][]models.ShiftCandidate, error)
}

// Calendar provides the declared holidays inside a date window.
type Calendar interface {
	Holidays(ctx context.Context, from, to time.Time) (map[time.Time]bool, error)
}

// ActiveEmployee is one currently clocked-in employee for the live
// monitor surface.
type ActiveEmployee struct {
	EmployeeCode string    `json:"employee_code"`
	Since        time.Time `json:"since"`
	PlantID      string    `json:"plant_id,omitempty"`
}

// Pipeline runs the full reconciliation for a date window. It holds no
// state beyond its injected sources and is safe to run concurrently;
// every call recomputes from scratch. Callers that poll (the live
// monitor) rerun the whole pipeline rather than patching cached state.
type Pipeline struct {
	scans     ScanSource
	schedules ScheduleSource
	calendar  Calendar
	sequencer Sequencer
	logger    *zap.Logger
}

func NewPipeline(scans ScanSource, schedules ScheduleSource, calendar Calendar, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		scans:     scans,
		schedules: schedules,
		calendar:  calendar,
		sequencer: ParitySequencer{},
		logger:    logger,
	}
}

// DayRecords reconciles every known employee over [from, to] inclusive,
// both dates at local midnight. Employees with schedules but no scans
// still get records (their absences matter). Results are sorted by
// employee code, then date. On cancellation no partial result is
// returned.
func (p *Pipeline) DayRecords(ctx context.Context, from, to time.Time) ([]models.DayRecord, error) {
	byEmployee, candidates, holidays, err := p.load(ctx, from, to)
	if err != nil {
		return nil, err
	}

	codes := employeeUnion(byEmployee, candidates)

	var (
		mu      sync.Mutex
		records []models.DayRecord
		wg      sync.WaitGroup
	)
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			recs := p.employeeDays(code, byEmployee[code], candidates[code], holidays, from, to)
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
		}(code)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].EmployeeCode != records[j].EmployeeCode {
			return records[i].EmployeeCode < records[j].EmployeeCode
		}
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// employeeDays runs the per-employee pipeline: resolve schedule, remap
// night scans, normalize, match, classify each date of the window.
func (p *Pipeline) employeeDays(code string, scans []models.ScanEvent, cands []models.ShiftCandidate, holidays map[time.Time]bool, from, to time.Time) []models.DayRecord {
	sched := ResolveShift(cands)
	buckets := BucketByDate(scans, NewRemapper(sched))

	var records []models.DayRecord
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		seq := p.sequencer.Sequence(instantsOf(buckets[date]))
		sessions := MatchSessions(seq.Entries, seq.Exits)
		records = append(records, ClassifyDay(code, date, sessions, sched, holidays[date]))
	}
	return records
}

// Validate audits every employee/day in the window that has at least
// one scan, sorted for human review. Days without data are covered by
// DayRecords as absences; they are an outcome, not a fault.
func (p *Pipeline) Validate(ctx context.Context, from, to time.Time) ([]models.ValidationIssue, error) {
	byEmployee, candidates, _, err := p.load(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var issues []models.ValidationIssue
	for code, scans := range byEmployee {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sched := ResolveShift(candidates[code])
		for date, dayScans := range BucketByDate(scans, NewRemapper(sched)) {
			if date.Before(from) || date.After(to) {
				continue
			}
			issues = append(issues, AuditDay(code, date, dayScans))
		}
	}
	SortIssues(issues)
	return issues, nil
}

// Active lists employees whose latest normalized scan today is an open
// entry, for the live monitor.
func (p *Pipeline) Active(ctx context.Context, now time.Time) ([]ActiveEmployee, error) {
	from := DateOf(now).AddDate(0, 0, -1) // night shifts reach into yesterday
	byEmployee, candidates, _, err := p.load(ctx, from, DateOf(now))
	if err != nil {
		return nil, err
	}

	var active []ActiveEmployee
	for code, scans := range byEmployee {
		sched := ResolveShift(candidates[code])
		remap := NewRemapper(sched)
		today := remap.WorkDate(now)
		dayScans := BucketByDate(scans, remap)[today]
		seq := p.sequencer.Sequence(instantsOf(dayScans))
		since, open := seq.OpenEntry()
		if !open {
			continue
		}
		active = append(active, ActiveEmployee{
			EmployeeCode: code,
			Since:        since,
			PlantID:      plantOfInstant(dayScans, since),
		})
	}
	sort.Slice(active, func(i, j int) bool { return active[i].EmployeeCode < active[j].EmployeeCode })
	return active, nil
}

// load performs all I/O up front; everything after it is pure
// computation. The scan fetch is widened a day past the window so a
// night shift's early-morning exit is available for remapping.
func (p *Pipeline) load(ctx context.Context, from, to time.Time) (map[string][]models.ScanEvent, map[string][]models.ShiftCandidate, map[time.Time]bool, error) {
	raw, err := p.scans.ScansInRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading scans: %w", err)
	}
	candidates, err := p.schedules.CandidatesByEmployee(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading schedules: %w", err)
	}
	holidays, err := p.calendar.Holidays(ctx, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading holidays: %w", err)
	}

	merged := MergeDuplicates(raw)
	if p.logger != nil && len(merged) != len(raw) {
		p.logger.Debug("merged cross-plant duplicate scans",
			zap.Int("raw", len(raw)),
			zap.Int("merged", len(merged)),
		)
	}

	byEmployee := make(map[string][]models.ScanEvent)
	for _, sc := range merged {
		byEmployee[sc.EmployeeCode] = append(byEmployee[sc.EmployeeCode], sc)
	}
	return byEmployee, candidates, holidays, nil
}

func employeeUnion(scans map[string][]models.ScanEvent, cands map[string][]models.ShiftCandidate) []string {
	set := make(map[string]bool, len(scans)+len(cands))
	for code := range scans {
		set[code] = true
	}
	for code := range cands {
		set[code] = true
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func instantsOf(scans []models.ScanEvent) []time.Time {
	instants := make([]time.Time, len(scans))
	for i, sc := range scans {
		instants[i] = sc.Instant
	}
	return instants
}

func plantOfInstant(scans []models.ScanEvent, instant time.Time) string {
	for _, sc := range scans {
		if sc.Instant.Equal(instant) {
			return sc.PlantID
		}
	}
	return ""
}
