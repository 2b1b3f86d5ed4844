package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/equipment-loan-tracker/internal/api"
	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/database"
	"github.com/equipment-loan-tracker/internal/repository"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/equipment-loan-tracker/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("archive", cfg.Snapshot.Archive).Msg("Starting Equipment Loan Tracker server...")

	// Initialize snapshot archive
	snapshots, closeArchive, err := openArchive(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot archive")
	}
	defer closeArchive()

	// Initialize repositories
	repos := repository.New(snapshots)

	// Initialize services
	services := service.NewServices(repos, cfg, log)

	if cfg.Snapshot.RestoreOnStart && snapshots != nil {
		result, err := services.Snapshot.RestoreLatest(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to restore archived snapshot")
		}
		if result != nil {
			log.Info().
				Int("users", result.Users).
				Int("materials", result.Materials).
				Int("loans", result.Loans).
				Msg("Archived snapshot restored")
		}
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// openArchive builds the configured snapshot archive.
// A nil repository means archiving is disabled.
func openArchive(cfg *config.Config, log zerolog.Logger) (repository.SnapshotRepository, func(), error) {
	noop := func() {}

	switch cfg.Snapshot.Archive {
	case config.ArchivePostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to run database migrations: %w", err)
		}
		if err := db.HealthCheck(context.Background()); err != nil {
			db.Close()
			return nil, noop, err
		}
		return repository.NewSnapshotRepo(db), func() { db.Close() }, nil

	case config.ArchiveDir:
		repo, err := repository.NewDirSnapshotRepo(cfg.Snapshot.ArchiveDir)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("dir", cfg.Snapshot.ArchiveDir).Msg("Directory snapshot archive ready")
		return repo, noop, nil

	default:
		return nil, noop, nil
	}
}
