package janitor

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is a store that can drop its stale entries.
type Sweeper interface {
	// Sweep removes stale entries and returns how many it removed.
	Sweep() int
}

// SweepFunc adapts a function to Sweeper.
type SweepFunc func() int

func (f SweepFunc) Sweep() int { return f() }

// Runner periodically sweeps the parse cache and the rate limiter table.
type Runner struct {
	sweepers map[string]Sweeper
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a janitor runner. A non-positive interval selects one
// minute.
func NewRunner(interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		sweepers: make(map[string]Sweeper),
		interval: interval,
		logger:   logger,
	}
}

// Add registers a sweeper under name. Not safe to call once Run has started.
func (r *Runner) Add(name string, s Sweeper) *Runner {
	r.sweepers[name] = s
	return r
}

// Run starts the background task and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			r.logger.Info("janitor runner stopped")
			return
		}
	}
}

// RunOnce sweeps every registered store once and returns the total removed.
func (r *Runner) RunOnce(ctx context.Context) int {
	total := 0
	for name, s := range r.sweepers {
		if ctx.Err() != nil {
			return total
		}
		n := s.Sweep()
		if n > 0 {
			r.logger.Debug("swept stale entries", "store", name, "count", n)
		}
		total += n
	}
	return total
}
