package wire

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/dailybugle/internal/logging"
	"github.com/abelbrown/dailybugle/internal/news"
	"golang.org/x/time/rate"
)

const (
	// DefaultLatency is the simulated network delay.
	DefaultLatency = 800 * time.Millisecond

	// DefaultMinInterval spaces consecutive fetches. Callers are paced, never rejected.
	DefaultMinInterval = 2 * time.Second
)

// Fetcher implements news.Fetcher on top of a Generator.
type Fetcher struct {
	gen     *Generator
	latency time.Duration
	limiter *rate.Limiter
}

var _ news.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher. A zero latency returns batches immediately;
// a zero minInterval disables pacing.
func NewFetcher(gen *Generator, latency, minInterval time.Duration) *Fetcher {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Fetcher{
		gen:     gen,
		latency: latency,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch waits for the limiter, then the simulated latency, then returns a
// batch. The context aborts either wait.
func (f *Fetcher) Fetch(ctx context.Context) ([]news.Item, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for wire: %w", err)
	}

	logging.Debug("Simulating news fetch", "latency", f.latency)
	if f.latency > 0 {
		timer := time.NewTimer(f.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return f.gen.Generate(), nil
}
