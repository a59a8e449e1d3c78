package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tick_backend/internal/app/di"
	"tick_backend/internal/app/router"
	cataloghandler "tick_backend/internal/feature/catalog/transport/handler"
	tickshandler "tick_backend/internal/feature/ticks/transport/handler"
	"tick_backend/internal/feature/ticks/usecase"
	"tick_backend/internal/platform/config"
	"tick_backend/internal/platform/db"
	platformhandler "tick_backend/internal/platform/http/handler"
	"tick_backend/internal/platform/logger"
	"tick_backend/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (environment variables are used when empty)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := di.OpenDB(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	checks := map[string]platformhandler.Check{"database": db.Ping(gdb)}
	rdb := di.NewRedis(ctx, cfg, log)
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Usecase
	ticksUC := usecase.NewTicksUsecase(di.NewTickRepository(gdb, rdb, cfg, log))
	catalogUC := di.NewCatalog(cfg, gdb, log)

	// Handler
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsHandler = metrics.Handler(reg)
	}
	r := router.NewRouter(
		platformhandler.NewHealthHandler(checks),
		tickshandler.NewTicksHandler(ticksUC, di.NewMarket(cfg, log)),
		cataloghandler.NewSecurityHandler(catalogUC),
		metricsHandler,
	)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
