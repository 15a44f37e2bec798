package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/vendora/internal/app"
	"github.com/angelmondragon/vendora/internal/seed"
	"github.com/angelmondragon/vendora/pkg/config"
	"github.com/angelmondragon/vendora/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	password := flag.String("password", "vendora-demo", "password for the seeded accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	a, err := app.New(ctx, cfg, logg, nil)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap", err)
		os.Exit(1)
	}

	summary, err := seed.Run(ctx, a, *password)
	if closeErr := a.Close(); closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
	}
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"vendor":       summary.VendorEmail,
		"buyer":        summary.BuyerEmail,
		"products":     summary.Products,
		"order_number": summary.OrderNumber,
	}), "seed completed")
}
