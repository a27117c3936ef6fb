// Package slog decorates scholarly services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scholarly"
)

// Ensure LoggingFetcher implements scholarly.Fetcher.
var _ scholarly.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   scholarly.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next scholarly.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the attempt.
func (f *LoggingFetcher) Fetch(ctx context.Context, target, endpoint string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"target", target,
			"endpoint", endpoint,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "code", scholarly.ErrorCode(err), "err", err)
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, target, endpoint)
}
