package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticketdesk/internal/config"
	"ticketdesk/internal/consumers"
	"ticketdesk/internal/logger"
	"ticketdesk/internal/metrics"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	metrics.Register()

	slog.Info("Starting consumers service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumerService, err := consumers.NewConsumerService(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create consumer service", "error", err)
		os.Exit(1)
	}

	if err := consumerService.Start(); err != nil {
		slog.Error("Failed to start consumers", "error", err)
		_ = consumerService.Shutdown(context.Background())
		os.Exit(1)
	}

	slog.Info("Consumers service started successfully")

	<-ctx.Done()
	slog.Info("Shutting down consumers service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	slog.Info("Consumers service stopped")
}
