// Interval trigger for the pipeline. The clock logic is deliberately thin:
// run now, then every interval, and never let two runs overlap.

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"go-leadscout/internal/config"
	"go-leadscout/internal/pipeline"
)

type Runner struct {
	cfg *config.Config
	log zerolog.Logger

	// mu guards against a tick firing while the previous run is still in
	// flight; the browser session and store are single-owner resources.
	mu sync.Mutex
}

func NewRunner(cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Start runs the pipeline immediately, then on every interval tick until
// ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	interval := time.Duration(r.cfg.Scheduler.IntervalMinutes) * time.Minute
	r.log.Info().Dur("interval", interval).Msg("⏰ scheduler started")

	r.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	if !r.mu.TryLock() {
		r.log.Warn().Msg("previous run still in flight, skipping this tick")
		return
	}
	defer r.mu.Unlock()

	summary, err := pipeline.RunOnce(ctx, r.cfg, r.log)
	if err != nil {
		r.log.Error().Err(err).Str("run_id", summary.RunID).Msg("scheduled run failed")
		return
	}
	r.log.Info().Str("run_id", summary.RunID).
		Int("stored", summary.Stored).
		Int("updated", summary.Updated).
		Msg("scheduled run complete")
}
