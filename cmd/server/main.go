// Package main implements the entry point for the cowork API server, the
// team collaboration backend serving users, teams, tasks and comments.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/cowork-api/internal/config"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
)

// options are the command-line flags.
type options struct {
	configPath    string
	migrateCmd    string
	migrationName string
	migrationsDir string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (default: search ./config.yaml and ./config/config.yaml)")
	fs.StringVar(&opts.migrateCmd, "migrate", "", "run a migration command and exit: up|down|status|version|create")
	fs.StringVar(&opts.migrationName, "name", "", "name of the migration to create (with -migrate create)")
	fs.StringVar(&opts.migrationsDir, "migrations-dir", defaultMigrationsDir, "directory new migrations are written to")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	// allow "-migrate create add_labels" as well as "-name add_labels"
	if opts.migrateCmd == "create" && opts.migrationName == "" && fs.NArg() > 0 {
		opts.migrationName = fs.Arg(0)
	}
	return opts, nil
}

// main loads configuration, sets up logging and then either runs a
// migration command or serves HTTP until SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig(opts.configPath)
	if err != nil {
		return err
	}

	log, closer, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	if opts.migrateCmd != "" {
		return handleMigrations(ctx, cfg, log, opts)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the configuration from path, or from the default
// search locations when path is empty.
func loadAppConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the application logger from the server and
// logging sections and installs it as the slog default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	l, closer, err := logger.Setup(logger.LoggerConfig{
		Level:      cfg.Server.LogLevel,
		Format:     cfg.Logging.Format,
		FilePath:   cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_driver", cfg.Database.Driver)
	if cfg.Database.URL != "" {
		l.Debug("database configuration", "url", maskDatabaseURL(cfg.Database.URL))
	}

	return l, closer, nil
}
