// Command rosterctl runs roster maintenance tasks against the configured
// database without starting the web server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roster-api/internal/config"
	"github.com/roster-api/internal/database"
	"github.com/roster-api/internal/repository"
	"github.com/roster-api/internal/service"
	"github.com/roster-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles what every subcommand needs
type app struct {
	cfg      *config.Config
	db       *database.DB
	services *service.Services
	log      zerolog.Logger
}

func (a *app) Close() error {
	return a.db.Close()
}

// openApp loads configuration and connects to a migrated database
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log, cfg.App.Env, "rosterctl")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	services := service.NewServices(repository.New(db), cfg, log)
	return &app{cfg: cfg, db: db, services: services, log: log}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Maintenance commands for the employee roster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(),
		newExportCmd(),
		newSeedCmd(),
		newMigrateCmd(),
		newStatsCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, service.ErrImportRejected) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
