package main

import (
	"context"
	"log/slog"
	"time"

	"ticketdesk/internal/config"
	"ticketdesk/internal/external"
	"ticketdesk/internal/logger"
	"ticketdesk/internal/search"
	"ticketdesk/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	pageSize := pflag.Int("page-size", 100, "Events fetched per platform API page")
	timeout := pflag.Duration("timeout", 5*time.Minute, "Overall sync timeout")
	pflag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	slog.Info("Starting event synchronization",
		"platform", cfg.Platform.BaseURL,
		"index", cfg.Elasticsearch.Index)

	es, err := search.NewElasticsearchClient(ctx, cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	events := service.NewEventService(external.NewClient(cfg.Platform), es)

	start := time.Now()
	indexed, err := events.Sync(ctx, *pageSize)
	if err != nil {
		logger.Fatal("Event synchronization failed", "indexed", indexed, "error", err)
	}

	slog.Info("Event synchronization completed", "indexed", indexed, "duration", time.Since(start).String())
}
