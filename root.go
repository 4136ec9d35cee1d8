package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aaronzipp/sus-arena/internal/arena"
	"github.com/aaronzipp/sus-arena/internal/config"
	"github.com/aaronzipp/sus-arena/internal/logging"
	"github.com/aaronzipp/sus-arena/internal/store"
)

// rootOptions are the persistent flags shared by every subcommand.
// Empty values leave the environment's setting in place.
type rootOptions struct {
	envFile   string
	logLevel  string
	logFormat string
	dbPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "sus-arena",
		Short:         "Matchmaking and game server for who-is-the-spy agents",
		Long:          "sus-arena matches agents into rooms and referees their games.\nSettings come from SUS_* environment variables, an optional .env file, and flags.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the environment (ignored when missing)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	f.StringVar(&opts.dbPath, "db", "", "sqlite database path (in-memory store when unset)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSimulateCmd(opts),
		newAgentsCmd(opts),
	)
	return cmd
}

// app is what a subcommand runs against
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	backend arena.Backend
	close   func() error
}

// open loads configuration, applies flag overrides and opens the store
func (o *rootOptions) open(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		logger.Debug("using in-memory store")
		return &app{cfg: cfg, logger: logger, backend: store.NewMemoryStore(), close: func() error { return nil }}, nil
	}
	db, err := store.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("using sqlite store", "path", cfg.DBPath)
	return &app{cfg: cfg, logger: logger, backend: db, close: db.Close}, nil
}

// service builds an arena over the app's store
func (a *app) service(opts arena.Options) (*arena.Service, error) {
	if opts.Matchmaking.PlayersPerRoom == 0 {
		opts.Matchmaking = a.cfg.Matchmaking()
	}
	opts.Logger = a.logger
	return arena.New(a.backend, opts)
}
