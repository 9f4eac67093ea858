package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"docsearch/internal/config"
	"docsearch/internal/database"
	"docsearch/internal/database/migration"
	"docsearch/internal/extract"
	"docsearch/internal/metrics"
	"docsearch/internal/repository/postgres"
	"docsearch/internal/service"
	"docsearch/internal/storage"
)

// app is the wired service graph shared by serve and reindex.
type app struct {
	db       *sql.DB
	registry *prometheus.Registry
	service  service.DocumentService
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	if cfg.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, cfg.Database, logger); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize file storage: %w", err), db.Close())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := database.RegisterMetrics(reg, db, cfg.Database.Name); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	ingestMetrics, err := metrics.NewIngest(reg)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	extractor, err := extract.New(ctx, extract.Config{
		MaxBytes: cfg.Ingest.MaxExtractBytes,
		Logger:   logger,
		Metrics:  ingestMetrics,
	})
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	svc := service.NewDocumentService(store, postgres.NewDocumentPostgres(db), extractor, service.Options{
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Logger:         logger,
		Metrics:        ingestMetrics,
	})
	return &app{db: db, registry: reg, service: svc}, nil
}
