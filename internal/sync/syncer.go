package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"checadora/internal/db"
	"checadora/internal/models"
)

// Syncer pulls punches and rosters from every configured plant into
// storage on a fixed interval. The punch window overlaps previous runs;
// the scans table's unique constraint makes replays harmless.
type Syncer struct {
	clients  []*PlantClient
	database *db.DB
	interval time.Duration
	window   time.Duration
	location *time.Location
	logger   *zap.Logger

	// OnCycleDone, when set, runs after every completed sync cycle.
	// Used to push validation summaries to the ops channel.
	OnCycleDone func(ctx context.Context)
}

func NewSyncer(clients []*PlantClient, database *db.DB, interval, window time.Duration, loc *time.Location, logger *zap.Logger) *Syncer {
	return &Syncer{
		clients:  clients,
		database: database,
		interval: interval,
		window:   window,
		location: loc,
		logger:   logger,
	}
}

// Run blocks, syncing once immediately and then on every tick until the
// context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	s.SyncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("syncer stopped")
			return
		case <-ticker.C:
			s.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs one full cycle across all plants. A failing plant is
// logged and skipped; the others still sync.
func (s *Syncer) SyncOnce(ctx context.Context) {
	now := time.Now().In(s.location)
	from := now.Add(-s.window)

	for _, client := range s.clients {
		if ctx.Err() != nil {
			return
		}
		if err := s.syncPlant(ctx, client, from, now); err != nil {
			s.logger.Error("plant sync failed",
				zap.String("plant_id", client.PlantID()),
				zap.Error(err),
			)
			continue
		}
		if err := s.database.SetPlantLastSync(ctx, client.PlantID(), now); err != nil {
			s.logger.Error("recording last sync failed",
				zap.String("plant_id", client.PlantID()),
				zap.Error(err),
			)
		}
	}

	if s.OnCycleDone != nil {
		s.OnCycleDone(ctx)
	}
}

func (s *Syncer) syncPlant(ctx context.Context, client *PlantClient, from, to time.Time) error {
	roster, err := client.Roster(ctx)
	if err != nil {
		return err
	}
	syncedAt := time.Now().In(s.location)
	for _, entry := range roster {
		emp := &models.Employee{
			ID:        uuid.New(),
			Code:      entry.Code,
			FullName:  entry.FullName,
			Active:    entry.Active,
			CreatedAt: syncedAt,
		}
		if err := s.database.UpsertEmployee(ctx, emp); err != nil {
			return err
		}

		cand := entry.Schedule
		cand.SyncedAt = syncedAt
		if err := s.database.UpsertSyncedSchedule(ctx, cand); err != nil {
			return err
		}
	}

	scans, err := client.Punches(ctx, from, to)
	if err != nil {
		return err
	}
	if err := s.database.InsertScans(ctx, scans); err != nil {
		return err
	}

	s.logger.Info("plant synced",
		zap.String("plant_id", client.PlantID()),
		zap.Int("roster", len(roster)),
		zap.Int("punches", len(scans)),
	)
	return nil
}
