package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"checadora/internal/config"
	"checadora/internal/models"
)

// PlantClient talks to one remote time-clock installation. Plants run
// small, flaky boxes on factory networks, so every call retries with
// backoff and a hard timeout.
type PlantClient struct {
	httpClient *resty.Client
	plantID    string
	logger     *zap.Logger
}

// punchRow is the wire shape a plant reports for one badge scan.
type punchRow struct {
	EmployeeCode string `json:"employee_code"`
	ScannedAt    string `json:"scanned_at"` // local wall time, "2006-01-02 15:04:05"
}

// rosterRow is the wire shape for one roster entry plus the schedule
// the plant has that employee registered under.
type rosterRow struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
	Schedule struct {
		Name             string  `json:"name"`
		Start            string  `json:"start"` // "HH:MM"
		End              string  `json:"end"`
		ToleranceMinutes int     `json:"tolerance_minutes"`
		Workdays         []int64 `json:"workdays"`
	} `json:"schedule"`
}

type punchesResponse struct {
	Punches []punchRow `json:"punches"`
}

type rosterResponse struct {
	Employees []rosterRow `json:"employees"`
}

// NewPlantClient creates a client for one configured plant.
func NewPlantClient(cfg config.PlantConfig, logger *zap.Logger) *PlantClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetHeader("X-Api-Key", cfg.APIKey)
	}

	return &PlantClient{
		httpClient: client,
		plantID:    cfg.ID,
		logger:     logger,
	}
}

// PlantID returns the configured plant identifier.
func (c *PlantClient) PlantID() string {
	return c.plantID
}

// Punches fetches the raw scans recorded in [from, to). Timestamps on
// the wire are local wall time; they are parsed in the window's
// location.
func (c *PlantClient) Punches(ctx context.Context, from, to time.Time) ([]models.ScanEvent, error) {
	var result punchesResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("from", from.Format("2006-01-02 15:04:05")).
		SetQueryParam("to", to.Format("2006-01-02 15:04:05")).
		SetResult(&result).
		Get("/api/v1/punches")
	if err != nil {
		return nil, fmt.Errorf("fetching punches from plant %s: %w", c.plantID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plant %s punches returned status %d", c.plantID, resp.StatusCode())
	}

	loc := from.Location()
	scans := make([]models.ScanEvent, 0, len(result.Punches))
	for _, p := range result.Punches {
		instant, err := time.ParseInLocation("2006-01-02 15:04:05", p.ScannedAt, loc)
		if err != nil {
			c.logger.Warn("skipping punch with unparsable timestamp",
				zap.String("plant_id", c.plantID),
				zap.String("employee_code", p.EmployeeCode),
				zap.String("scanned_at", p.ScannedAt),
			)
			continue
		}
		scans = append(scans, models.ScanEvent{
			EmployeeCode: p.EmployeeCode,
			Instant:      instant,
			PlantID:      c.plantID,
		})
	}

	c.logger.Debug("fetched punches",
		zap.String("plant_id", c.plantID),
		zap.Int("count", len(scans)),
	)
	return scans, nil
}

// Roster fetches the plant's employee list with the schedule each one
// is registered under there.
func (c *PlantClient) Roster(ctx context.Context) ([]RosterEntry, error) {
	var result rosterResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/v1/employees")
	if err != nil {
		return nil, fmt.Errorf("fetching roster from plant %s: %w", c.plantID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plant %s roster returned status %d", c.plantID, resp.StatusCode())
	}

	entries := make([]RosterEntry, 0, len(result.Employees))
	for _, r := range result.Employees {
		entry := RosterEntry{
			Code:     r.Code,
			FullName: r.FullName,
			Active:   r.Active,
			Schedule: models.ShiftCandidate{
				EmployeeCode:     r.Code,
				Name:             r.Schedule.Name,
				StartMinutes:     parseClockMinutes(r.Schedule.Start),
				EndMinutes:       parseClockMinutes(r.Schedule.End),
				ToleranceMinutes: r.Schedule.ToleranceMinutes,
				Workdays:         r.Schedule.Workdays,
				PlantID:          c.plantID,
			},
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RosterEntry is one employee as reported by a plant.
type RosterEntry struct {
	Code     string
	FullName string
	Active   bool
	Schedule models.ShiftCandidate
}

// parseClockMinutes converts "HH:MM" to minutes after midnight. Bad
// values map to -1, which the shift resolver recovers from with the
// default schedule.
func parseClockMinutes(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
