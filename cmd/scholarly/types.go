package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Endpoints scholarly.EndpointSource
	Fetcher   scholarly.Fetcher
	Extractor scholarly.Extractor
	Writers   []scholarly.ResultWriter

	// Optional harvest tuning; zero values select the crawl defaults.
	Limiter     scholarly.RateLimiter
	Pause       crawl.PauseFunc
	MaxAttempts int
	SweepDelays []time.Duration

	// Observers receive every harvest event after the status line is printed.
	Observers []scholarly.ProgressFunc
}

// HarvestCmd harvests one query and writes the ranked results.
type HarvestCmd struct {
	Query *scholarly.Query

	// Top is the number of ranked records printed on completion.
	Top int
}
