// Command timescale-mcp serves a TimescaleDB-backed MCP server over stdio.
//
// The binary connects a bounded pgx pool to a TimescaleDB instance and
// exposes query execution, schema introspection and timeseries tooling to
// MCP clients. stdout carries the protocol; all logging goes to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/koustreak/timescale-mcp/internal/config"
	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/database/postgres"
	"github.com/koustreak/timescale-mcp/internal/export"
	exportminio "github.com/koustreak/timescale-mcp/internal/export/minio"
	"github.com/koustreak/timescale-mcp/internal/health"
	"github.com/koustreak/timescale-mcp/internal/logger"
	"github.com/koustreak/timescale-mcp/internal/mcp"
	"github.com/koustreak/timescale-mcp/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional; TIMESCALEDB_* env vars apply on top)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		// The logger config was never loaded; report with defaults.
		fallback := logger.New(logger.Config{})
		fallback.Error().Err(err).Msg("failed to load config")
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	log.Info().
		Str("version", version.String()).
		Str("config", configPath).
		Msg("starting timescale-mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, database.Config{
		DSN:            cfg.Database.DSN(),
		MinConns:       int32(cfg.Database.MinPoolSize),
		MaxConns:       int32(cfg.Database.MaxPoolSize),
		ConnectTimeout: time.Duration(cfg.Database.ConnectTimeout),
		AcquireTimeout: time.Duration(cfg.Database.AcquireTimeout),
		QueryTimeout:   time.Duration(cfg.Database.QueryTimeout),
	}, log.With().Str("component", "database").Logger())
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer db.Close()

	exporter, closeStore, err := setupExport(ctx, cfg.Export, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to export storage")
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	srv := mcp.New(db, exporter, mcp.Config{
		Name:    "timescale-mcp",
		Version: version.Version,
	}, log.With().Str("component", "mcp").Logger())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// When the MCP client hangs up, bring the rest down too.
		defer stop()
		if err := srv.ServeStdio(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.Health.Addr != "" {
		healthSrv := health.New(cfg.Health.Addr, db, log.With().Str("component", "health").Logger())
		g.Go(func() error {
			return healthSrv.Serve(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}

	log.Info().Msg("timescale-mcp stopped")
	return nil
}

// setupExport connects the optional MinIO-backed export sink. The returned
// close function is nil when exports are disabled.
func setupExport(ctx context.Context, cfg config.ExportConfig, log zerolog.Logger) (*export.Exporter, func(), error) {
	if !cfg.Enabled() {
		return nil, nil, nil
	}

	store, err := exportminio.New(ctx, export.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Msg("export storage ready")

	return export.NewExporter(store, cfg.Bucket, time.Duration(cfg.URLTTL)),
		func() { _ = store.Close() },
		nil
}
