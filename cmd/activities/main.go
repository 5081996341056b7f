// Package main is the entry point for the Mergington activities API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nuclearlighters/activities/internal/api"
	"github.com/nuclearlighters/activities/internal/config"
	"github.com/nuclearlighters/activities/internal/database"
	"github.com/nuclearlighters/activities/internal/journal"
	"github.com/nuclearlighters/activities/internal/metrics"
	"github.com/nuclearlighters/activities/internal/registry"
)

func main() {
	// Load configuration
	cfg := config.Get()

	// Setup logging
	setupLogging(cfg.LogLevel)

	log.Info().
		Str("version", cfg.Version).
		Str("listen", cfg.ListenAddr()).
		Msg("Starting activities API server")

	reg, err := loadRegistry(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load activity catalog")
	}
	log.Info().
		Int("activities", reg.Len()).
		Bool("enforce_capacity", cfg.EnforceCapacity).
		Msg("Activity registry ready")

	// Optional enrollment journal
	var j api.Journal
	if cfg.JournalEnabled() {
		db, err := database.OpenAndMigrate(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("Failed to open enrollment journal")
		}
		defer database.Close(db)
		j = journal.NewGuarded(journal.NewStore(db), journal.GuardConfig{
			Threshold: cfg.JournalFailureThreshold,
			Cooldown:  cfg.JournalCooldown,
		})
		log.Info().Str("path", cfg.JournalPath).Msg("Enrollment journal enabled")
	} else {
		log.Info().Msg("Enrollment journal disabled")
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      api.NewRouter(cfg, reg, j),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", cfg.ListenAddr()).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// setupLogging configures zerolog based on log level.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadRegistry builds the registry from SEED_FILE, or the built-in catalog.
func loadRegistry(cfg *config.Settings) (*registry.Registry, error) {
	activities := registry.DefaultActivities()
	if cfg.SeedFile != "" {
		var err error
		activities, err = registry.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SeedFile).Msg("Loaded activity catalog from file")
	}
	return registry.New(activities,
		registry.WithCapacityEnforcement(cfg.EnforceCapacity),
		registry.WithRosterObserver(metrics.SetParticipants),
	)
}
