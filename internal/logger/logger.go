package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/gravitas-games/aftermath/internal/config"
)

// Init installs the default slog logger from config and returns it.
func Init(cfg config.LogConfig) *slog.Logger {
	return InitWriter(os.Stderr, cfg)
}

// InitWriter is Init writing to w.
func InitWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	l.With("component", "logger").Debug("Logger initialized", "level", cfg.Level, "json_format", cfg.JSON)
	return l
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
