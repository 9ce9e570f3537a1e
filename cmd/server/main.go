package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roster-api/internal/api"
	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/database"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/service"
	"github.com/roster-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log, cfg.App.Env, cfg.App.Name)
	log.Info().Str("env", cfg.App.Env).Str("driver", cfg.Database.Driver).Msg("Starting roster server...")
	if cfg.Security.InsecureSecret {
		log.Warn().Msg("SECRET_KEY not set, using the development key for flash cookies")
	}

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(repos, cfg, log)

	// Seed an empty roster from the reference file
	seeded, err := services.Seed.Bootstrap(context.Background(), cfg.Import.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Import.SeedFile).Msg("Failed to seed roster")
	}
	if seeded > 0 {
		log.Info().Int("employees", seeded).Str("file", cfg.Import.SeedFile).Msg("Roster seeded")
	}

	// Initialize router
	router, err := api.NewRouter(services, db, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
