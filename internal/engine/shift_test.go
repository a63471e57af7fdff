package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"checadora/internal/models"
)

func synced(name string, startMinutes int, plant string) models.ShiftCandidate {
	return models.ShiftCandidate{
		Name:         name,
		StartMinutes: startMinutes,
		EndMinutes:   15*60 + 30,
		Workdays:     []int64{1, 2, 3, 4, 5},
		PlantID:      plant,
	}
}

func TestResolveShiftManualAlwaysWins(t *testing.T) {
	manual := synced("Turno especial", 9*60, "")
	manual.Manual = true

	// Manual wins regardless of position among any number of synced rows.
	orders := [][]models.ShiftCandidate{
		{manual, synced("Producción", DefaultStartMinutes, "norte"), synced("Oficina", 8*60, "sur")},
		{synced("Producción", DefaultStartMinutes, "norte"), manual, synced("Oficina", 8*60, "sur")},
		{synced("Producción", DefaultStartMinutes, "norte"), synced("Oficina", 8*60, "sur"), manual},
	}
	for _, cands := range orders {
		got := ResolveShift(cands)
		assert.True(t, got.Manual)
		assert.Equal(t, "Turno especial", got.Name)
	}
}

func TestResolveShiftSpecificBeatsDefault(t *testing.T) {
	// The office schedule must win in either load order, even though the
	// last-synced row is the nominal default candidate.
	prod := synced("Producción", DefaultStartMinutes, "norte")
	office := synced("Oficina", 8*60, "sur")

	got := ResolveShift([]models.ShiftCandidate{prod, office})
	assert.Equal(t, "Oficina", got.Name)

	got = ResolveShift([]models.ShiftCandidate{office, prod})
	assert.Equal(t, "Oficina", got.Name)
}

func TestResolveShiftNameMarkerIsSpecific(t *testing.T) {
	// Same boilerplate start time, but the name marks a driver role.
	prod := synced("Producción", DefaultStartMinutes, "norte")
	driver := synced("Chofer reparto", DefaultStartMinutes, "sur")

	got := ResolveShift([]models.ShiftCandidate{driver, prod})
	assert.Equal(t, "Chofer reparto", got.Name)
}

func TestResolveShiftLastSyncedWinsAmongDefaults(t *testing.T) {
	first := synced("Producción", DefaultStartMinutes, "norte")
	second := synced("Producción", DefaultStartMinutes, "sur")

	got := ResolveShift([]models.ShiftCandidate{first, second})
	assert.Equal(t, "sur", got.PlantID)
}

func TestResolveShiftFallbackWhenNoRows(t *testing.T) {
	got := ResolveShift(nil)

	assert.Equal(t, DefaultStartMinutes, got.StartMinutes)
	assert.Equal(t, DefaultEndMinutes, got.EndMinutes)
	assert.Equal(t, 0, got.ToleranceMinutes)
	assert.False(t, got.CrossesMidnight())
	assert.True(t, got.IsWorkday(time.Monday))
	assert.True(t, got.IsWorkday(time.Friday))
	assert.False(t, got.IsWorkday(time.Saturday))
	assert.False(t, got.IsWorkday(time.Sunday))
}

func TestResolveShiftRecoversMalformedWorkdays(t *testing.T) {
	c := synced("Oficina", 8*60, "norte")
	c.Workdays = []int64{9, -1, 42}

	got := ResolveShift([]models.ShiftCandidate{c})

	// Unusable workday data degrades to the Monday-Friday default.
	assert.True(t, got.IsWorkday(time.Wednesday))
	assert.False(t, got.IsWorkday(time.Sunday))
}

func TestResolveShiftRecoversOutOfRangeTimes(t *testing.T) {
	c := synced("Oficina", 8*60, "norte")
	c.StartMinutes = 26 * 60

	got := ResolveShift([]models.ShiftCandidate{c})

	assert.Equal(t, DefaultStartMinutes, got.StartMinutes)
	assert.Equal(t, DefaultEndMinutes, got.EndMinutes)
}
