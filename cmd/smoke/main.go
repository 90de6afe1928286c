package main

import (
	"log/slog"
	"os"

	"ticketdesk/internal/logger"
	"ticketdesk/internal/validation"

	"github.com/spf13/pflag"
)

func main() {
	baseURL := pflag.String("url", "http://localhost:8081", "Base URL of the running gateway")
	eventID := pflag.String("event-id", "", "Open event to run the session checks against")
	logLevel := pflag.String("log-level", "info", "Log level")
	pflag.Parse()

	logger.Init(*logLevel, "text")

	validator := validation.NewSmokeValidator(*baseURL, *eventID)
	if err := validator.ValidateAll(); err != nil {
		slog.Error("Smoke validation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Smoke validation passed")
}
