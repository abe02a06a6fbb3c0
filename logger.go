package eidgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with registry-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithID adds an identifier field to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInitialize logs a bulk load.
func (l *Logger) LogInitialize(ctx context.Context, count int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "initialize failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "initialize completed",
			"count", count,
			"duration", duration,
		)
	}
}

// LogAddEntry logs a single record insert/replace.
func (l *Logger) LogAddEntry(ctx context.Context, id string, replaced bool) {
	l.DebugContext(ctx, "entry added",
		"id", id,
		"replaced", replaced,
	)
}

// LogUsage logs a usage record. Unknown ids are a no-op by contract but still
// worth a debug line for callers chasing registration races.
func (l *Logger) LogUsage(ctx context.Context, id string, known bool) {
	if !known {
		l.DebugContext(ctx, "usage recorded for unknown id",
			"id", id,
		)
		return
	}
	l.DebugContext(ctx, "usage recorded",
		"id", id,
	)
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, query string, resultsFound int, duration time.Duration) {
	l.DebugContext(ctx, "search completed",
		"query", query,
		"results", resultsFound,
		"duration", duration,
	)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, target string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot "+op+" completed",
			"target", target,
		)
	}
}
