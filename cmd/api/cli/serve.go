package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	handlers "docsearch/internal/http/handler"
	"docsearch/internal/otel"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g)
		},
	}
}

func runServe(cmd *cobra.Command, g *globals) error {
	ctx := cmd.Context()
	cfg := g.config(cmd)
	logger := g.logger(cfg)

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	deps := handlers.Deps{
		DB:       a.db,
		Service:  a.service,
		Registry: a.registry,
		Location: time.Local,
	}
	if cfg.Storage.Driver == "local" {
		deps.UploadDir = cfg.Storage.UploadDir
		deps.PublicPrefix = cfg.Storage.PublicPrefix
	}

	server := handlers.NewApp(cfg.Ingest.MaxUploadBytes)
	if err := handlers.RegisterRoutes(server, deps); err != nil {
		return err
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		logger.Info("shutting down http server")
		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("http server listening", "addr", addr, "storage_driver", cfg.Storage.Driver)
	if err := server.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if ctx.Err() != nil {
		<-stopped
	}
	return nil
}
