// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"docsearch/internal/config"
	"docsearch/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// URL builds the golang-migrate database URL (pgx5 scheme) for c.
func URL(c config.DatabaseConfig) (string, error) {
	return database.URL("pgx5", c)
}

// Migrator runs schema migrations against one database.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
	host   string
}

// New opens a Migrator for the database described by c.
func New(c config.DatabaseConfig, logger *slog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dbURL, err := URL(c)
	if err != nil {
		return nil, err
	}
	return NewWithURL(dbURL, c.Host, logger)
}

// NewWithURL opens a Migrator for a ready database URL.
func NewWithURL(dbURL, host string, logger *slog.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return &Migrator{
		m:      m,
		logger: logger.With("component", "database"),
		host:   host,
	}, nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (mg *Migrator) Up(ctx context.Context) error {
	return mg.run(ctx, "up", mg.m.Up)
}

// Down reverts every applied migration.
func (mg *Migrator) Down(ctx context.Context) error {
	return mg.run(ctx, "down", mg.m.Down)
}

// Version reports the applied schema version. ok is false when no
// migration has been applied yet.
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

func (mg *Migrator) run(ctx context.Context, direction string, fn func() error) error {
	start := time.Now()
	mg.logger.InfoContext(ctx, "database migration",
		"event", "db_migration_start",
		"status", "in_progress",
		"direction", direction,
		"db_host", mg.host,
	)

	stop := context.AfterFunc(ctx, func() {
		select {
		case mg.m.GracefulStop <- true:
		default:
		}
	})
	defer stop()

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.InfoContext(ctx, "database migration",
			"event", "db_migration_skip",
			"status", "success",
			"detail", "schema already up to date",
			"direction", direction,
			"db_host", mg.host,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
	if err != nil {
		mg.logger.ErrorContext(ctx, "database migration",
			"event", "db_migration_failed",
			"status", "error",
			"direction", direction,
			"error_message", err.Error(),
			"db_host", mg.host,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, _, _ := mg.Version()
	mg.logger.InfoContext(ctx, "database migration",
		"event", "db_migration_success",
		"status", "success",
		"direction", direction,
		"version", version,
		"dirty", dirty,
		"db_host", mg.host,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// EnsureMigrated applies pending migrations and closes the migrator.
func EnsureMigrated(ctx context.Context, c config.DatabaseConfig, logger *slog.Logger) error {
	mg, err := New(c, logger)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up(ctx)
}
