package config

import (
	"log/slog"
	"os"
	"strings"
)

func NewLogger(cfg *LogConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	if cfg != nil && cfg.Level != "" {
		if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
			logLevel = slog.LevelInfo
		}
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
