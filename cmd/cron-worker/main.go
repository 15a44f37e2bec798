package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/vendora/internal/app"
	"github.com/angelmondragon/vendora/internal/carts"
	"github.com/angelmondragon/vendora/internal/cron"
	"github.com/angelmondragon/vendora/internal/notifications"
	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/instance"
	"github.com/angelmondragon/vendora/pkg/logger"
	"github.com/angelmondragon/vendora/pkg/metrics"
	"github.com/angelmondragon/vendora/pkg/redis"
)

const lockKeyFormat = "cron-worker:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	reg := prometheus.NewRegistry()
	a, err := app.New(ctx, cfg, logg, reg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap", err)
		os.Exit(1)
	}

	service, err := buildService(a, reg)
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		closeApp(ctx, a)
		os.Exit(1)
	}

	logg.Info(ctx, "starting cron worker")
	if *once {
		failed, err := service.RunOnce(ctx)
		closeApp(ctx, a)
		if err != nil || failed > 0 {
			logg.Error(logg.WithField(ctx, "failed_jobs", failed), "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	err = service.Run(ctx)
	closeApp(ctx, a)
	if err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildService(a *app.App, reg prometheus.Registerer) (*cron.Service, error) {
	cfg := a.Config
	conn := a.DB.DB()

	var lock cron.Lock = &cron.LocalLock{}
	if a.Redis != nil {
		locker, err := redis.NewKeyLocker(a.Redis, cfg.Maintenance.LockTTL)
		if err != nil {
			return nil, err
		}
		if lock, err = cron.NewKeyLock(locker, lockKey(cfg.App.Env)); err != nil {
			return nil, err
		}
	}

	notificationJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     a.Logger,
		Repository: notifications.NewRepository(conn),
		Retention:  cfg.Maintenance.NotificationRetention,
	})
	if err != nil {
		return nil, err
	}
	cartJob, err := cron.NewCartCleanupJob(cron.CartCleanupJobParams{
		Logger:     a.Logger,
		Repository: carts.NewRepository(conn),
		Deleter:    a.Store,
		Retention:  cfg.Maintenance.CartRetention,
	})
	if err != nil {
		return nil, err
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   a.Logger,
		Registry: cron.NewRegistry(notificationJob, cartJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(reg),
		Interval: cfg.Maintenance.Interval,
	})
}

func closeApp(ctx context.Context, a *app.App) {
	if err := a.Close(); err != nil {
		a.Logger.Error(ctx, "error closing resources", err)
	}
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
