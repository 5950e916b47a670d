package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/meridian-shop/meridian/internal/app"
	"github.com/meridian-shop/meridian/internal/catalog"
	"github.com/meridian-shop/meridian/internal/media"
	"github.com/meridian-shop/meridian/internal/orders"
	"github.com/meridian-shop/meridian/internal/platform/cache"
	"github.com/meridian-shop/meridian/internal/platform/db"
	"github.com/meridian-shop/meridian/internal/shared"
	"github.com/meridian-shop/meridian/internal/stockledger"
	"github.com/meridian-shop/meridian/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	imageStore, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Error("init upload dir", slog.Any("error", err))
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)

	ledger := stockledger.New(logger)
	statsCache := orders.NewStatsCache(redisClient, cfg.StatsCacheTTL)
	idempotencyStore := shared.NewIdempotencyStore(pool)
	ordersRepo := orders.NewRepository(pool)
	// No warmup queue here: the worker is the warmup executor and must not
	// enqueue more of itself.
	ordersService := orders.NewService(ordersRepo, ledger, nil, idempotencyStore, statsCache, nil)

	jobMetrics := jobs.NewMetrics(nil)

	statsTask, err := jobs.NewStatsWarmupTask(time.Now())
	if err != nil {
		logger.Error("build stats warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	sweepTask, err := jobs.NewMediaSweepTask(time.Now())
	if err != nil {
		logger.Error("build media sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	cleanupTask, err := jobs.NewIdempotencyCleanupTask(cfg.IdempotencyTTL)
	if err != nil {
		logger.Error("build idempotency cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStatsWarmup, Handler: jobs.NewStatsWarmupHandler(ordersService, logger, jobMetrics)},
			{Type: jobs.TaskMediaSweep, Handler: jobs.NewMediaSweepHandler(catalogService, imageStore, logger, jobMetrics)},
			{Type: jobs.TaskIdempotencyCleanup, Handler: jobs.NewIdempotencyCleanupHandler(idempotencyStore, logger, jobMetrics)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/5 * * * *", Task: statsTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 4 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
