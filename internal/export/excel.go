package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"checadora/internal/models"
)

// dailyReportHeader are the columns of the daily attendance export.
var dailyReportHeader = []string{
	"Employee",
	"Date",
	"Status",
	"Workday",
	"Sessions",
	"First Entry",
	"Last Exit",
	"Worked Hours",
	"Overtime Hours",
}

// DailyReport builds the xlsx workbook for one day's reconciled
// records, in the order the pipeline produced them.
func DailyReport(date time.Time, records []models.DayRecord) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file open.

	sheetName := "Asistencia"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for col, header := range dailyReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i, rec := range records {
		row := []any{
			rec.EmployeeCode,
			rec.Date.Format("2006-01-02"),
			string(rec.Status),
			rec.IsWorkday,
			len(rec.Sessions),
			firstEntry(rec),
			lastExit(rec),
			rec.WorkedHours,
			rec.OvertimeHours,
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("writing row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func firstEntry(rec models.DayRecord) string {
	if len(rec.Sessions) == 0 {
		return ""
	}
	return rec.Sessions[0].Entry.Format("15:04")
}

func lastExit(rec models.DayRecord) string {
	if len(rec.Sessions) == 0 {
		return ""
	}
	return rec.Sessions[len(rec.Sessions)-1].Exit.Format("15:04")
}
