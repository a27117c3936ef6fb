package slog

import (
	"log/slog"

	"github.com/fwojciec/scholarly"
)

// ProgressLogger returns a ProgressFunc logging every harvest event.
// Unclassified failures and abandoned pages are logged as warnings.
func ProgressLogger(logger *slog.Logger) scholarly.ProgressFunc {
	return func(p scholarly.Progress) {
		attrs := []any{
			"outcome", p.Outcome.String(),
			"offset", p.Locator.Offset,
			"done", p.Done(),
			"total", p.Total,
			"sweep", p.Sweep,
		}
		if p.Endpoint != "" {
			attrs = append(attrs, "endpoint", p.Endpoint)
		}
		if p.Outcome == scholarly.OutcomeRetrieved {
			attrs = append(attrs, "records", p.Records)
		}
		if p.Err != nil {
			attrs = append(attrs, "err", p.Err)
		}

		switch p.Outcome {
		case scholarly.OutcomeAbandoned:
			logger.Warn("page abandoned", attrs...)
		case scholarly.OutcomeFailed:
			logger.Warn("harvest attempt failed", attrs...)
		default:
			logger.Debug("harvest attempt", attrs...)
		}
	}
}
