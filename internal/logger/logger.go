// Package logger builds the application's structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"docsearch/internal/config"
)

// TimeKey is the JSON key used for timestamps, matching the request log lines.
const TimeKey = "ts"

// New returns a JSON slog.Logger writing to stdout and, when cfg.File is set,
// to a size-rotated file as well.
func New(cfg config.LogConfig) *slog.Logger {
	return NewWithWriter(writer(cfg), cfg.Level)
}

// NewWithWriter returns a JSON slog.Logger writing to w at the given level.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Key = TimeKey
			}
			return a
		},
	})
	return slog.New(contextHandler{h})
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func writer(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}
