package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"checadora/internal/export"
	"checadora/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMonitor lists everyone currently clocked in. The monitor UI
// polls this every 30 seconds; each poll recomputes from scratch.
func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	active, err := s.pipeline.Active(r.Context(), time.Now().In(s.location))
	if err != nil {
		s.logger.Error("monitor failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "monitor unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(active),
		"active": active,
	})
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.database.ListEmployees(r.Context())
	if err != nil {
		s.logger.Error("listing employees failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "employees unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := s.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	records, err := s.pipeline.DayRecords(r.Context(), date, date)
	if err != nil {
		s.logger.Error("daily report failed", zap.Time("date", date), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":    date.Format("2006-01-02"),
		"records": records,
	})
}

func (s *Server) handleRangeReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.pipeline.DayRecords(r.Context(), from, to)
	if err != nil {
		s.logger.Error("range report failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"records": records,
	})
}

func (s *Server) handleValidationReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	issues, err := s.pipeline.Validate(r.Context(), from, to)
	if err != nil {
		s.logger.Error("validation report failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}

	invalid := 0
	for _, issue := range issues {
		if !issue.Valid {
			invalid++
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"invalid": invalid,
		"issues":  issues,
	})
}

func (s *Server) handleDailyExport(w http.ResponseWriter, r *http.Request) {
	date, err := s.parseDate(r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	records, err := s.pipeline.DayRecords(r.Context(), date, date)
	if err != nil {
		s.logger.Error("export failed", zap.Time("date", date), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "export unavailable")
		return
	}

	book, err := export.DailyReport(date, records)
	if err != nil {
		s.logger.Error("building workbook failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "export unavailable")
		return
	}

	filename := fmt.Sprintf("asistencia_%s.xlsx", date.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(book); err != nil {
		s.logger.Error("writing export", zap.Error(err))
	}
}

type manualScheduleRequest struct {
	EmployeeCode     string  `json:"employee_code"`
	Name             string  `json:"name"`
	StartMinutes     int     `json:"start_minutes"`
	EndMinutes       int     `json:"end_minutes"`
	ToleranceMinutes int     `json:"tolerance_minutes"`
	Workdays         []int64 `json:"workdays"`
}

func (s *Server) handleSetManualSchedule(w http.ResponseWriter, r *http.Request) {
	var req manualScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.EmployeeCode == "" {
		s.writeError(w, http.StatusBadRequest, "employee_code required")
		return
	}

	cand := models.ShiftCandidate{
		EmployeeCode:     req.EmployeeCode,
		Name:             req.Name,
		StartMinutes:     req.StartMinutes,
		EndMinutes:       req.EndMinutes,
		ToleranceMinutes: req.ToleranceMinutes,
		Workdays:         req.Workdays,
		Manual:           true,
	}
	if err := s.database.SetManualSchedule(r.Context(), cand); err != nil {
		s.logger.Error("setting manual schedule failed",
			zap.String("employee_code", req.EmployeeCode), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not save override")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClearManualSchedule(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("employee_code")
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "employee_code required")
		return
	}
	if err := s.database.ClearManualSchedule(r.Context(), code); err != nil {
		s.logger.Error("clearing manual schedule failed",
			zap.String("employee_code", code), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not clear override")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type holidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (s *Server) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	if err := s.database.AddHoliday(r.Context(), date, req.Name); err != nil {
		s.logger.Error("adding holiday failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not save holiday")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseRange reads from/to query parameters; both default to today and
// the range is capped at 62 days to bound recomputation cost.
func (s *Server) parseRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := s.parseDate(r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from, want YYYY-MM-DD")
	}
	to, err := s.parseDate(r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to, want YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to is before from")
	}
	if to.Sub(from) > 62*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("range too large, max 62 days")
	}
	return from, to, nil
}
