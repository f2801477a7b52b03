package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cyberiseeyou/pceventmanager-sub004/config"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/constraint"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/engine"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/health"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/postgres"
	ctxlog "github.com/cyberiseeyou/pceventmanager-sub004/internal/log"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/metrics"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/notify"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/ranker"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/rotation"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	tz, err := cfg.Location()
	if err != nil {
		stop()
		log.Fatalf("timezone: %v", err)
	}

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	employeeRepo := postgres.NewEmployeeRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	scheduleRepo := postgres.NewScheduleRepository(pool)
	pendingRepo := postgres.NewPendingRepository(pool)
	runRepo := postgres.NewRunRepository(pool)
	rotationRepo := postgres.NewRotationRepository(pool)
	availabilityRepo := postgres.NewAvailabilityRepository(pool)

	rotationMgr := rotation.NewManager(rotationRepo, employeeRepo)
	validator := constraint.NewValidator(
		eventRepo, scheduleRepo, pendingRepo, runRepo, availabilityRepo, employeeRepo,
		constraint.Config{
			MaxCorePerDay:  cfg.MaxCorePerDay,
			MaxCorePerWeek: cfg.MaxCorePerWeek,
			Timezone:       tz,
		},
	)
	resolver := conflict.NewResolver(scheduleRepo, eventRepo, employeeRepo)
	conflict.MinDaysToDue = cfg.MinDaysToDue
	rank := ranker.NewRuleBased()

	engCfg := engine.DefaultConfig(tz)
	engCfg.SchedulingWindowDays = cfg.SchedulingWindowDays
	engCfg.MaxBumpsPerEvent = cfg.MaxBumpsPerEvent
	engCfg.ShortNoticeDays = cfg.ShortNoticeDays

	eng := engine.NewEngine(
		employeeRepo, eventRepo, scheduleRepo, pendingRepo, runRepo,
		rotationMgr, validator, resolver, rank, engCfg, logger,
	)

	notifier := newNotifier(cfg, logger)

	dispatcher, err := scheduler.NewDispatcher(eng, notifier, logger, "CRON_TZ="+cfg.ExternalTimezone+" "+cfg.AutoRunCron)
	if err != nil {
		stop()
		log.Fatalf("dispatcher cron: %v", err)
	}
	go dispatcher.Start(ctx)

	worker := scheduler.NewWorker(eng, notifier, logger, 4)
	go worker.Start(ctx)

	reaper := scheduler.NewReaper(runRepo, logger, time.Minute, time.Duration(cfg.StaleRunTimeoutMin)*time.Minute)
	go reaper.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("scheduler shut down")
}

// newNotifier wires a ResendNotifier when the environment has email
// configured, falling back to logging the run summary otherwise.
func newNotifier(cfg *config.Config, logger *slog.Logger) notify.Notifier {
	if cfg.ResendAPIKey == "" || cfg.ResendFrom == "" || cfg.NotifyTo == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewResendNotifier(cfg.ResendAPIKey, cfg.ResendFrom, strings.Split(cfg.NotifyTo, ","))
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
