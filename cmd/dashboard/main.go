// Command dashboard serves the chart panels over the processed files.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/maxesser1776/mcf-dashboard/internal/api"
	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/logging"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	csvStore := store.NewCSVStore(cfg.Data.ProcessedDir)

	router := gin.Default()
	api.SetupRoutes(router, csvStore, logger, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}
	logger.Info("server exited")
}
