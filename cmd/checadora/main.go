package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checadora/internal/config"
	"checadora/internal/db"
	"checadora/internal/engine"
	"checadora/internal/logger"
	"checadora/internal/models"
	"checadora/internal/notify"
	"checadora/internal/server"
	"checadora/internal/sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, "checadora")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		zlog.Fatal("invalid timezone", zap.String("timezone", cfg.Server.Timezone), zap.Error(err))
	}

	// Initialize database
	database, err := db.New(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Register the configured plants and build their sync clients.
	clients := make([]*sync.PlantClient, 0, len(cfg.Plants))
	for _, pc := range cfg.Plants {
		if err := database.UpsertPlant(ctx, &models.Plant{ID: pc.ID, Name: pc.Name}); err != nil {
			zlog.Fatal("failed to register plant", zap.String("plant_id", pc.ID), zap.Error(err))
		}
		clients = append(clients, sync.NewPlantClient(pc, zlog))
	}

	pipeline := engine.NewPipeline(database, database, database, zlog)

	syncer := sync.NewSyncer(
		clients,
		database,
		time.Duration(cfg.Sync.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Sync.WindowHours)*time.Hour,
		loc,
		zlog,
	)

	if cfg.Discord.Enabled {
		notifier, err := notify.New(cfg.Discord.Token, cfg.Discord.ChannelID, zlog)
		if err != nil {
			zlog.Fatal("failed to create notifier", zap.Error(err))
		}
		defer notifier.Close()

		syncer.OnCycleDone = func(ctx context.Context) {
			today := engine.DateOf(time.Now().In(loc))
			issues, err := pipeline.Validate(ctx, today, today)
			if err != nil {
				zlog.Error("post-sync validation failed", zap.Error(err))
				return
			}
			if err := notifier.SendValidationSummary(today, issues); err != nil {
				zlog.Error("validation summary not delivered", zap.Error(err))
			}
		}
	}

	go syncer.Run(ctx)

	srv := server.New(cfg.Server.Addr, pipeline, database, loc, zlog)

	// Set up signal handling
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-signals
		zlog.Info("received signal", zap.String("signal", s.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("http shutdown", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("http server failed", zap.Error(err))
	}

	zlog.Info("shutdown complete")
}
