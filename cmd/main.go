package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pulsehq/teampulse-backend/internal/app"
	redisclient "github.com/pulsehq/teampulse-backend/internal/clients/redis"
	"github.com/pulsehq/teampulse-backend/internal/handlers"
	"github.com/pulsehq/teampulse-backend/internal/platform/logger"
	"github.com/pulsehq/teampulse-backend/internal/server"
	"github.com/pulsehq/teampulse-backend/internal/tracker"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration...")
	cfg := app.LoadConfig(log)

	// Redis
	rdb, err := redisclient.New(log, cfg.Redis)
	if err != nil {
		log.Fatal("Could not connect to Redis", "error", err)
	}

	// Tracker service
	trackerService, err := tracker.New(log, tracker.NewRedisStore(rdb), cfg.Tracker)
	if err != nil {
		log.Fatal("Could not init tracker service", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	trackerService.Start(ctx)

	// Router
	performanceHandler := handlers.NewPerformanceHandler(trackerService)
	notificationHandler := handlers.NewNotificationHandler(log, trackerService)
	router := server.NewRouter(server.RouterConfig{
		PerformanceHandler:  performanceHandler,
		NotificationHandler: notificationHandler,
		AllowOrigins:        cfg.AllowOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	if err := trackerService.Close(); err != nil {
		log.Error("Tracker shutdown failed", "error", err)
	}
	log.Info("Shutdown complete")
}
