package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/metrics"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ratelimiter"
	"github.com/graphicode-dev/classroom/internal/infrastructure/repository"
	"github.com/graphicode-dev/classroom/internal/infrastructure/tracing"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
	"github.com/graphicode-dev/classroom/internal/presentation/api"
)

func main() {
	configFlag := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := configs.Load(configs.DetermineConfigPath(*configFlag))
	if err != nil {
		logging.MustNewLogger(logging.NewDefaultConfig()).Fatal(logging.General, logging.Startup, "load config", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	logger := logging.MustNewLogger(&cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal(logging.General, logging.Startup, "init tracer", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	metrics.RegisterServerMetrics(prometheus.DefaultRegisterer)

	repositories := repository.NewRepositories(cfg.Store.Capacity, cfg.Store.SessionTTL, repository.DemoUsers()...)
	if err := repositories.Seed(ctx, time.Now()); err != nil {
		logger.Fatal(logging.General, logging.Startup, "seed repositories", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	rateLimiter := ratelimiter.NewFixedWindow(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, repositories, hub, logger, rateLimiter)
	if err := app.Run(ctx, app.Mount()); err != nil {
		logger.Error(logging.General, logging.Shutdown, "server stopped with error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		os.Exit(1)
	}
}
