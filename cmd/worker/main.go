package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finpulse/finpulse/internal/app"
	"github.com/finpulse/finpulse/internal/connector"
	"github.com/finpulse/finpulse/internal/connector/moneybird"
	jobmetrics "github.com/finpulse/finpulse/internal/jobs"
	"github.com/finpulse/finpulse/internal/mail"
	"github.com/finpulse/finpulse/internal/narrative"
	"github.com/finpulse/finpulse/internal/platform/cache"
	"github.com/finpulse/finpulse/internal/platform/db"
	"github.com/finpulse/finpulse/internal/report"
	"github.com/finpulse/finpulse/internal/view"
	"github.com/finpulse/finpulse/jobs"
)

// weeklyCron fires every Friday at 17:00 UTC, after the reporting week closed.
const weeklyCron = "0 17 * * 5"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

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
		logger.Error("connect database", slog.Any("error", err))
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

	registry := connector.NewRegistry()
	registry.Register(moneybird.System, moneybird.Factory(cfg.MoneybirdBaseURL, cfg.ConnectorTimeout))

	engine, err := view.NewEngine()
	if err != nil {
		logger.Error("init template engine", slog.Any("error", err))
		os.Exit(1)
	}

	repo := report.NewRepository(pool)
	service := report.NewService(report.Deps{
		Directory:  repo,
		Store:      repo,
		Connectors: registry,
		Narrator:   narrative.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel),
		Renderer:   engine,
		Sender:     mail.NewMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.FromEmail, logger),
		Logger:     logger,
	})

	metrics := jobmetrics.NewMetrics(nil)
	weeklyJob := jobs.NewWeeklyReportsJob(service, logger, metrics)

	weeklyTask, err := jobs.NewWeeklyReportsTask("cron")
	if err != nil {
		logger.Error("build weekly task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWeeklyReports, Handler: weeklyJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: weeklyCron, Task: weeklyTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		_ = inspector.Close()
	}()

	opsRouter := chi.NewRouter()
	opsRouter.Use(app.OpsMiddleware()...)
	opsRouter.Handle("/metrics", promhttp.Handler())
	opsRouter.Route("/jobs", jobs.NewHandler(inspector, logger).MountRoutes)

	opsServer := &http.Server{
		Addr:              cfg.OpsAddr,
		Handler:           opsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("ops server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = opsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
