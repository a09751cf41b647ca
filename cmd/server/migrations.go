package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/phrazzld/cowork-api/internal/config"
	"github.com/phrazzld/cowork-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// defaultMigrationsDir is where "-migrate create" writes new files. Applied
// migrations are embedded in the binary.
const defaultMigrationsDir = "internal/platform/postgres/migrations"

var migrateCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"create":  true,
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It logs at error level and does NOT exit;
// the error is returned to main, which decides the exit code.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// handleMigrations executes a single migration command and returns.
func handleMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts options) error {
	log := logger.With("component", "migrations", "command", opts.migrateCmd)

	if !migrateCommands[opts.migrateCmd] {
		return fmt.Errorf("unknown migration command %q (want up, down, status, version or create)", opts.migrateCmd)
	}
	goose.SetLogger(&slogGooseLogger{logger: log})

	if opts.migrateCmd == "create" {
		if opts.migrationName == "" {
			return errors.New("migration name is required: -migrate create -name <name>")
		}
		if err := goose.Create(nil, opts.migrationsDir, opts.migrationName, "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		return nil
	}

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, configured driver is %q",
			config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", "error", err)
		}
	}()

	log.Info("executing migrations", "url", maskDatabaseURL(cfg.Database.URL))
	return postgres.RunMigrations(ctx, db, opts.migrateCmd)
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}

	return dbURL
}
