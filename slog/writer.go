package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scholarly"
)

// Ensure LoggingWriter implements scholarly.ResultWriter.
var _ scholarly.ResultWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a ResultWriter with logging.
type LoggingWriter struct {
	next   scholarly.ResultWriter
	name   string
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter. The name identifies the
// destination in log records.
func NewLoggingWriter(next scholarly.ResultWriter, name string, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, name: name, logger: logger}
}

// WriteResults delegates to the wrapped writer. Failures are logged at
// error level.
func (w *LoggingWriter) WriteResults(ctx context.Context, records []*scholarly.Record) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		w.logger.Log(ctx, level, "write results",
			"destination", w.name,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteResults(ctx, records)
}
