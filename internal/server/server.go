package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"checadora/internal/db"
	"checadora/internal/engine"
)

// Server exposes the report surfaces. Every request reruns the full
// reconciliation pipeline over fresh data; nothing is cached between
// polls, which keeps the live monitor trivially correct.
type Server struct {
	pipeline   *engine.Pipeline
	database   *db.DB
	location   *time.Location
	logger     *zap.Logger
	httpServer *http.Server
}

func New(addr string, pipeline *engine.Pipeline, database *db.DB, loc *time.Location, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		database: database,
		location: loc,
		logger:   logger,
	}

	router := NewRouter(logger)
	router.Handle(http.MethodGet, "/healthz", s.handleHealth)
	router.Handle(http.MethodGet, "/api/v1/monitor", s.handleMonitor)
	router.Handle(http.MethodGet, "/api/v1/employees", s.handleEmployees)
	router.Handle(http.MethodGet, "/api/v1/reports/daily", s.handleDailyReport)
	router.Handle(http.MethodGet, "/api/v1/reports/range", s.handleRangeReport)
	router.Handle(http.MethodGet, "/api/v1/reports/validation", s.handleValidationReport)
	router.Handle(http.MethodGet, "/api/v1/reports/daily/export", s.handleDailyExport)
	router.Handle(http.MethodPost, "/api/v1/schedules/manual", s.handleSetManualSchedule)
	router.Handle(http.MethodDelete, "/api/v1/schedules/manual/clear", s.handleClearManualSchedule)
	router.Handle(http.MethodPost, "/api/v1/holidays", s.handleAddHoliday)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// parseDate reads a YYYY-MM-DD query parameter as local midnight,
// defaulting to today when absent.
func (s *Server) parseDate(value string) (time.Time, error) {
	if value == "" {
		return engine.DateOf(time.Now().In(s.location)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, s.location)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
