package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/phrazzld/pharmacy-api/internal/config"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// defaultSeedCount is the number of pharmacies the seed command inserts
// when --count is not given.
const defaultSeedCount = 50

// cliState is shared by the subcommands once the root pre-run has loaded
// configuration and logging.
type cliState struct {
	configFile string
	envFile    string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "pharmacy-api",
		Short:         "Pharmacy CRUD and distance query API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.load()
		},
	}

	root.PersistentFlags().StringVar(&state.configFile, "config", "", "config file (default ./config.yaml if present)")
	root.PersistentFlags().StringVar(&state.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(serveCmd(state), migrateCmd(state), seedCmd(state))
	return root
}

// load reads the dotenv file, configuration and sets up the logger.
// A missing dotenv file is not an error.
func (s *cliState) load() error {
	if s.envFile != "" {
		if err := godotenv.Load(s.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", s.envFile, err)
		}
	}

	cfg, err := config.LoadFile(s.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	s.cfg = cfg
	s.logger = l
	return nil
}

func serveCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(cmd.Context(), state.cfg, state.logger)
			if err != nil {
				return err
			}
			return app.startHTTPServer(cmd.Context(), app.setupRouter())
		},
	}
}

func migrateCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	for _, sub := range []struct {
		use   string
		short string
	}{
		{migrateUp, "Apply all pending migrations"},
		{migrateDown, "Roll back the most recent migration"},
		{migrateStatus, "Show the status of every migration"},
		{migrateVersion, "Print the current schema version"},
	} {
		command := sub.use
		cmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrations(cmd.Context(), state.cfg, command)
			},
		})
	}
	return cmd
}

func seedCmd(state *cliState) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert random pharmacies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(cmd.Context(), state.cfg, state.logger)
			if err != nil {
				return err
			}
			defer app.cleanup()

			created, err := app.seed(cmd.Context(), count)
			if err != nil {
				return err
			}
			cmd.Printf("Inserted %d pharmacies\n", created)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultSeedCount, "number of pharmacies to insert")
	return cmd
}
