package vptree

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vptree-specific helpers.
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

// LogBuild logs a bulk construction.
func (l *Logger) LogBuild(count int, strategy PivotStrategy, err error) {
	if err != nil {
		l.Error("build failed",
			"count", count,
			"pivot_strategy", strategy.String(),
			"error", err,
		)
	} else {
		l.Debug("build completed",
			"count", count,
			"pivot_strategy", strategy.String(),
		)
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(point any, err error) {
	if err != nil {
		l.Error("insert failed",
			"point", point,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"point", point,
		)
	}
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(point any, removed bool, err error) {
	if err != nil {
		l.Error("remove failed",
			"point", point,
			"error", err,
		)
	} else {
		l.Debug("remove completed",
			"point", point,
			"removed", removed,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(k, resultsFound int, err error) {
	if err != nil {
		l.Error("search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.Debug("search completed",
			"k", k,
			"results", resultsFound,
		)
	}
}
