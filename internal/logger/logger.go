package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"bookmarksync/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup initializes the global logger based on the configuration and returns it.
func Setup(cfg config.LoggingConfig) *slog.Logger {
	handler := newHandler(writer(cfg), cfg.Format, ParseLevel(cfg.Level))

	logger := slog.New(handler).With("service", "bookmarksync")
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a configured level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writer(cfg config.LoggingConfig) io.Writer {
	if strings.ToLower(cfg.Output) == "file" && cfg.FilePath != "" {
		return &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}
	return os.Stdout
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
