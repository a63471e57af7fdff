package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"checadora/internal/models"
)

func TestDailyReport(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	records := []models.DayRecord{
		{
			EmployeeCode: "E100",
			Date:         date,
			Status:       models.StatusComplete,
			IsWorkday:    true,
			WorkedHours:  9.5,
			Sessions: []models.Session{
				{Entry: date.Add(6 * time.Hour), Exit: date.Add(15*time.Hour + 30*time.Minute), Hours: 9.5},
			},
		},
		{EmployeeCode: "E200", Date: date, Status: models.StatusAbsent, IsWorkday: true},
	}

	book, err := DailyReport(date, records)
	require.NoError(t, err)
	require.NotEmpty(t, book)

	f, err := excelize.OpenReader(bytes.NewReader(book))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Asistencia")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, "E100", rows[1][0])
	assert.Equal(t, "A", rows[1][2])
	assert.Equal(t, "06:00", rows[1][5])
	assert.Equal(t, "15:30", rows[1][6])
	assert.Equal(t, "F", rows[2][2])
}
