package main

import (
	"log/slog"
	"os"
	"strings"

	"helpdesk-console/internal/app"
	"helpdesk-console/internal/logger"
)

func main() {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	slog.SetDefault(logger.New(os.Stdout, format, slog.LevelInfo))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
