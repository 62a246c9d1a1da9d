// Package ratelimit implements the fixed pacing applied between fetch
// batches. The upstream is a shared community file host with no rate-limit
// feedback channel, so pacing is a fixed inter-batch delay rather than
// adaptive backoff.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for pacing.
var (
	pacingWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itemdb_pacing_waits_total",
		Help: "Total number of inter-batch pacing waits",
	})

	pacingWaitSeconds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "itemdb_pacing_wait_seconds_total",
		Help: "Total time spent waiting between batches in seconds",
	})
)

// DefaultDelay is the default pause between fetch batches.
const DefaultDelay = 1 * time.Second

// Pacer enforces a fixed delay between batches of upstream requests.
type Pacer struct {
	delay  time.Duration
	logger zerolog.Logger
}

// NewPacer creates a pacer with the given inter-batch delay.
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration, logger zerolog.Logger) *Pacer {
	return &Pacer{
		delay:  delay,
		logger: logger,
	}
}

// Delay returns the configured inter-batch delay.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Wait pauses for the configured delay, honoring context cancellation.
// Callers skip the call after the final batch.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}

	p.logger.Debug().Dur("delay", p.delay).Msg("Pacing before next batch")
	pacingWaitsTotal.Inc()
	pacingWaitSeconds.Add(p.delay.Seconds())

	select {
	case <-ctx.Done():
		p.logger.Warn().Msg("Context cancelled during pacing wait")
		return ctx.Err()
	case <-time.After(p.delay):
		return nil
	}
}
