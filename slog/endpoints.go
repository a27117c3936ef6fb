package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scholarly"
)

// Ensure LoggingEndpointSource implements scholarly.EndpointSource.
var _ scholarly.EndpointSource = (*LoggingEndpointSource)(nil)

// LoggingEndpointSource wraps an EndpointSource with logging.
type LoggingEndpointSource struct {
	next   scholarly.EndpointSource
	name   string
	logger *slog.Logger
}

// NewLoggingEndpointSource creates a new LoggingEndpointSource. The name
// identifies the source in log records.
func NewLoggingEndpointSource(next scholarly.EndpointSource, name string, logger *slog.Logger) *LoggingEndpointSource {
	return &LoggingEndpointSource{next: next, name: name, logger: logger}
}

// Load delegates to the wrapped source and logs the result.
func (s *LoggingEndpointSource) Load(ctx context.Context) (endpoints []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("load endpoints",
			"source", s.name,
			"count", len(endpoints),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}
