// Command pipelines refreshes every processed file by running the
// registered data pipelines in sequence. Used both locally and from CI.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/fiscaldata"
	"github.com/maxesser1776/mcf-dashboard/internal/fred"
	"github.com/maxesser1776/mcf-dashboard/internal/logging"
	"github.com/maxesser1776/mcf-dashboard/internal/pipeline"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
	"github.com/maxesser1776/mcf-dashboard/internal/yahoo"
)

func main() {
	// Optional .env for local runs, environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	// The credential check happens before any client exists, so a missing
	// key can never surface as a mid-run network error.
	if err := cfg.RequireFREDKey(); err != nil {
		logger.WithError(err).Fatal("missing credential")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients := pipeline.Clients{
		FRED:     fred.NewClient(&cfg.FRED),
		Treasury: fiscaldata.NewClient(&cfg.FiscalData),
		Prices:   yahoo.NewClient(&cfg.Yahoo),
	}
	csvStore := store.NewCSVStore(cfg.Data.ProcessedDir)
	runner := pipeline.NewRunner(csvStore, logger, cfg.Pipelines)

	logger.WithField("processed_dir", cfg.Data.ProcessedDir).Info("starting data refresh")

	if err := runner.Run(ctx, pipeline.All(clients)); err != nil {
		logger.WithError(err).Error("data refresh finished with failures")
		os.Exit(1)
	}
	logger.Info("all pipelines finished successfully")
}
