package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Boutique/internal/catalog"
	"Boutique/internal/config"
	"Boutique/pkg/kit"
)

const (
	preloadTimeout = 10 * time.Second
	searchWindow   = time.Minute
	displayName    = "Boutique API"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE
}

func serve(ctx context.Context, cfg config.Config) error {
	log := kit.NewLogger(service, cfg.Debug)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, closeStore, err := openStore(ctx, cfg, catalog.WithMetrics(catalog.NewStoreMetrics(reg)))
	if err != nil {
		log.Fatal("open catalog store failed", zap.Error(err), zap.String("source", cfg.Source))
	}
	defer closeStore()

	pctx, cancel := context.WithTimeout(ctx, preloadTimeout)
	if err := store.Ping(pctx); err != nil {
		log.Warn("catalog preload failed, will retry on first request", zap.Error(err))
	}
	cancel()

	s := &catalog.Server{
		Store:   store,
		Log:     log,
		Service: displayName,
	}
	if cfg.SearchRateLimit > 0 {
		s.SearchLimiter = kit.NewIPRateLimiter(cfg.SearchRateLimit, searchWindow)
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		CORSOrigins:    cfg.CORSOrigins(),
	})

	log.Info("catalog configured",
		zap.String("environment", cfg.Environment),
		zap.String("source", cfg.Source),
		zap.String("data_file", cfg.DataFile),
		zap.Strings("cors_origins", cfg.CORSOrigins()),
	)

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, opts ...catalog.Option) (catalog.Store, func(), error) {
	if cfg.Source != config.SourcePostgres {
		return catalog.NewFileStore(cfg.DataFile, opts...), func() {}, nil
	}

	db, err := catalog.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewPostgresStore(db, opts...), func() { _ = db.Close() }, nil
}
