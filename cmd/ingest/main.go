package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tick_backend/internal/app/di"
	catalogusecase "tick_backend/internal/feature/catalog/usecase"
	"tick_backend/internal/feature/ticks/usecase"
	"tick_backend/internal/platform/config"
	"tick_backend/internal/platform/logger"
	"tick_backend/internal/platform/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML config file (environment variables are used when empty)")
	flag.Parse()

	// .env はローカル開発用。存在しなくてもよい
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := di.OpenDB(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		return 1
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis（書き込み時にキャッシュを無効化するため）
	rdb := di.NewRedis(ctx, cfg, log)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewIngestMetrics(reg)

	errc := make(chan error, 1)
	if cfg.Metrics.Enabled {
		srv := metrics.StartMetricsServer(cfg.Metrics.Addr, cfg.Metrics.Path, reg, errc)
		log.Info("metrics server listening", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	catalog := di.NewCatalog(cfg, gdb, log)
	uc := usecase.NewIngestUsecase(
		di.NewMarket(cfg, log),
		di.NewTickRepository(gdb, rdb, cfg, log),
		di.IngestConfig(cfg),
		usecase.WithLogger(log),
		usecase.WithRecorder(recorder),
	)

	if cfg.Ingest.Interval == 0 {
		return runOnce(ctx, log, catalog, uc)
	}

	ticker := time.NewTicker(cfg.Ingest.Interval)
	defer ticker.Stop()
	for {
		runOnce(ctx, log, catalog, uc)
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return 0
		case err := <-errc:
			log.Error("metrics server failed", "error", err)
			return 1
		case <-ticker.C:
		}
	}
}

// runOnce はカタログを読み直して1回分の取り込みを実行します。
// 1銘柄でも完了しなかった場合は終了コード1を返します。
func runOnce(ctx context.Context, log *slog.Logger, catalog *catalogusecase.CatalogUsecase, uc *usecase.IngestUsecase) int {
	secs, err := catalog.ListSecurities(ctx)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		return 1
	}

	summary, err := uc.IngestAll(ctx, catalogusecase.ISINs(secs))
	switch {
	case errors.Is(err, usecase.ErrEmptyCatalog):
		log.Warn("catalog is empty, nothing to ingest")
		return 1
	case errors.Is(err, context.Canceled):
		log.Warn("ingest run cancelled", "completed", len(summary.Results)-len(summary.Failed()))
		return 1
	case err != nil:
		log.Error("ingest run failed", "error", err)
		return 1
	}
	if len(summary.Failed()) > 0 {
		return 1
	}
	log.Info("ingest ok", "ticks", summary.Ticks())
	return 0
}
