package multiview

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with multiview-specific context.
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

// WithCorrespondences adds a correspondence-count field to the logger.
func (l *Logger) WithCorrespondences(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("correspondences", n),
	}
}

// WithViews adds a view-count field to the logger.
func (l *Logger) WithViews(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("views", n),
	}
}

// LogReconstruction logs the outcome of a reconstruction pipeline run.
func (l *Logger) LogReconstruction(ctx context.Context, rows, cols, matched, reconstructed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reconstruction failed",
			"rows", rows,
			"cols", cols,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reconstruction completed",
			"rows", rows,
			"cols", cols,
			"matched", matched,
			"reconstructed", reconstructed,
		)
	}
}
