// Command enrollment-api serves the Course Enrollment REST API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file, .env, or environment)
//  2. Initialise the logger
//  3. Connect to the database and ensure the schema exists
//  4. Start the HTTP server in a separate goroutine
//  5. Block until SIGINT/SIGTERM, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/enrollment-api --config=config/local.yaml
//
// or, with the environment only:
//
//	DATABASE_URL=enrollment.db go run ./cmd/enrollment-api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/config"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/http/server"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/logging"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage/sqlstore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "enrollment-api",
		Short:        "Course Enrollment API server",
		Long:         "Serves the students, courses and enrollments REST API.\n\nEnvironment variables:\n" + config.Usage(),
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (or set CONFIG_PATH)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist, then exit",
		RunE:  runMigrate,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("enrollment-api %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, configures logging and opens the migrated store.
func setup(ctx context.Context) (*config.Config, *sqlstore.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logging.Apply(cfg)

	store, err := sqlstore.New(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return cfg, store, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, store, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info().Msg("Database schema is up to date")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, store, err := setup(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info().
		Str("version", version).
		Str("env", cfg.Env).
		Str("driver", cfg.Database.Driver).
		Msg("Starting enrollment-api")

	srv := server.New(cfg, store)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.HTTPServer.Addr).Msg("server started")

		// ListenAndServe returns http.ErrServerClosed after Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server encountered an error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}
