package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"checadora/internal/models"
)

type memorySource struct {
	scans      []models.ScanEvent
	candidates map[string][]models.ShiftCandidate
	holidays   map[time.Time]bool
}

func (m *memorySource) ScansInRange(_ context.Context, from, to time.Time) ([]models.ScanEvent, error) {
	var out []models.ScanEvent
	for _, sc := range m.scans {
		if !sc.Instant.Before(from) && sc.Instant.Before(to.AddDate(0, 0, 1)) {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (m *memorySource) CandidatesByEmployee(context.Context) (map[string][]models.ShiftCandidate, error) {
	return m.candidates, nil
}

func (m *memorySource) Holidays(context.Context, time.Time, time.Time) (map[time.Time]bool, error) {
	if m.holidays == nil {
		return map[time.Time]bool{}, nil
	}
	return m.holidays, nil
}

func newTestPipeline(src *memorySource) *Pipeline {
	return NewPipeline(src, src, src, zap.NewNop())
}

func TestPipelineDayRecords(t *testing.T) {
	src := &memorySource{
		scans: append(
			scansAt("E100", "norte", at(monday, 6, 1), at(monday, 6, 3), at(monday, 15, 31)),
			scansAt("E200", "sur", at(monday, 8, 2), at(monday, 17, 2))...,
		),
		candidates: map[string][]models.ShiftCandidate{
			"E100": {synced("Producción", DefaultStartMinutes, "norte")},
			"E200": {synced("Oficina", 8*60, "sur")},
			"E300": {synced("Producción", DefaultStartMinutes, "norte")},
		},
	}

	records, err := newTestPipeline(src).DayRecords(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Sorted by employee code.
	assert.Equal(t, "E100", records[0].EmployeeCode)
	assert.Equal(t, models.StatusComplete, records[0].Status)
	assert.Equal(t, 9.5, records[0].WorkedHours)

	assert.Equal(t, "E200", records[1].EmployeeCode)
	assert.Equal(t, 9.0, records[1].WorkedHours)

	// Scheduled employee with no scans on a workday: falta.
	assert.Equal(t, "E300", records[2].EmployeeCode)
	assert.Equal(t, models.StatusAbsent, records[2].Status)
	assert.Zero(t, records[2].WorkedHours)
	assert.Zero(t, records[2].OvertimeHours)
}

func TestPipelineNightShiftCrossesWindowEdge(t *testing.T) {
	// The exit lands on the calendar day after the requested window but
	// must still show up as part of the window's last day.
	night := models.ShiftCandidate{
		Name:         "Velador",
		StartMinutes: 22 * 60,
		EndMinutes:   6 * 60,
		Workdays:     []int64{1, 2, 3, 4, 5},
		PlantID:      "norte",
	}
	tuesday := monday.AddDate(0, 0, 1)
	src := &memorySource{
		scans: scansAt("E100", "norte", at(monday, 23, 50), at(tuesday, 6, 5)),
		candidates: map[string][]models.ShiftCandidate{
			"E100": {night},
		},
	}

	records, err := newTestPipeline(src).DayRecords(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, models.StatusComplete, records[0].Status)
	assert.Equal(t, 6.25, records[0].WorkedHours)
}

func TestPipelineHoliday(t *testing.T) {
	src := &memorySource{
		candidates: map[string][]models.ShiftCandidate{
			"E100": {synced("Producción", DefaultStartMinutes, "norte")},
		},
		holidays: map[time.Time]bool{monday: true},
	}

	records, err := newTestPipeline(src).DayRecords(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusHoliday, records[0].Status)
}

func TestPipelineMergesCrossPlantDuplicates(t *testing.T) {
	src := &memorySource{
		scans: []models.ScanEvent{
			{EmployeeCode: "E100", Instant: at(monday, 6, 0), PlantID: "norte"},
			{EmployeeCode: "E100", Instant: at(monday, 6, 0).Add(10 * time.Second), PlantID: "sur"},
			{EmployeeCode: "E100", Instant: at(monday, 15, 30), PlantID: "norte"},
		},
		candidates: map[string][]models.ShiftCandidate{},
	}

	records, err := newTestPipeline(src).DayRecords(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Without the merge the duplicate would flip entry/exit parity.
	require.Len(t, records[0].Sessions, 1)
	assert.Equal(t, 9.5, records[0].WorkedHours)
}

func TestPipelineCancelledContextReturnsNothing(t *testing.T) {
	src := &memorySource{
		scans:      scansAt("E100", "norte", at(monday, 6, 0), at(monday, 15, 30)),
		candidates: map[string][]models.ShiftCandidate{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := newTestPipeline(src).DayRecords(ctx, monday, monday)

	assert.Error(t, err)
	assert.Nil(t, records)
}

func TestPipelineValidateSortsInvalidFirst(t *testing.T) {
	src := &memorySource{
		scans: append(
			scansAt("E100", "norte", at(monday, 6, 0), at(monday, 15, 30)), // clean
			scansAt("E200", "norte", at(monday, 6, 0))...,                  // open entry
		),
		candidates: map[string][]models.ShiftCandidate{},
	}

	issues, err := newTestPipeline(src).Validate(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, "E200", issues[0].EmployeeCode)
	assert.False(t, issues[0].Valid)
	assert.Equal(t, "E100", issues[1].EmployeeCode)
	assert.True(t, issues[1].Valid)
}

func TestPipelineActive(t *testing.T) {
	now := at(monday, 10, 0)
	src := &memorySource{
		scans: append(
			scansAt("E100", "norte", at(monday, 6, 0)),                    // clocked in
			scansAt("E200", "sur", at(monday, 6, 0), at(monday, 9, 30))..., // left
		),
		candidates: map[string][]models.ShiftCandidate{},
	}

	active, err := newTestPipeline(src).Active(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, active, 1)

	assert.Equal(t, "E100", active[0].EmployeeCode)
	assert.Equal(t, at(monday, 6, 0), active[0].Since)
	assert.Equal(t, "norte", active[0].PlantID)
}
