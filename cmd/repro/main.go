package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/catalogkit/sku-roundtrip/internal/catalog"
	"github.com/catalogkit/sku-roundtrip/pkg/config"
	"github.com/catalogkit/sku-roundtrip/pkg/db"
	"github.com/catalogkit/sku-roundtrip/pkg/db/models"
	"github.com/catalogkit/sku-roundtrip/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "repro"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "repro",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithBackend(context.Background(), cfg.DB.Backend())

	client, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	requireResource(logg, "database ping", ping(ctx, client))

	err = client.Reset(ctx, &models.Product{}, &models.ProductItem{}, &models.Listing{})
	requireResource(logg, "schema", err)
	logg.Info(ctx, "schema reconstructed")

	svc := catalog.NewService(catalog.NewRepository(client.DB()), logg)
	report, err := svc.CheckRoundTrip(ctx)
	if err != nil {
		logg.Error(ctx, "round-trip check aborted", err)
		os.Exit(1)
	}

	if !report.OK() {
		for _, violation := range report.Violations {
			logg.Warn(logg.WithField(ctx, "violation", violation), "round-trip property violated")
		}
		os.Exit(1)
	}

	logg.Info(ctx, "round-trip property held on both entity shapes")
}

func ping(ctx context.Context, pinger db.Pinger) error {
	return pinger.Ping(ctx)
}

func requireResource(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to initialize "+name, err)
	os.Exit(1)
}
