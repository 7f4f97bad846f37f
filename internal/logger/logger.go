// Package logger configures structured logging for the client.
package logger

import (
	"log/slog"
	"os"

	"github.com/tarminik/transcribe/internal/config"
)

// Setup configures the default slog logger based on configuration.
// CLI output goes to stderr so transcripts printed on stdout stay clean.
func Setup(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
