package app

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLoggerHonorsLevel(t *testing.T) {
	logger := NewLogger(&Config{LogFormat: "pretty", LogLevel: "warn"})
	if logger.Handler().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info must be suppressed at warn level")
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error must pass at warn level")
	}

	logger = NewLogger(nil)
	if !logger.Handler().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("nil config defaults to info")
	}
}
