// Package digest generates the current day's article on a fixed schedule so
// downstream consumers of the news topic receive one article per period
// without anyone visiting the site.
package digest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = time.Minute
)

// Generator produces the article for a date. news.Service satisfies it and
// publishes what it generates.
type Generator interface {
	Narrate(ctx context.Context, date time.Time) (domain.Article, error)
}

// Runner issues one article per interval.
type Runner struct {
	gen      Generator
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
	issued   atomic.Int64
}

// New creates a Runner. A nil clock uses real time.
func New(gen Generator, clock clockwork.Clock, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		gen:      gen,
		clock:    clock,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Issued returns how many articles the runner has generated.
func (r *Runner) Issued() int64 {
	return r.issued.Load()
}

// Run issues an article immediately and then once per interval until the
// context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("digest started", "interval", r.interval)
	r.metrics.DigestRunning.Set(1)
	defer r.metrics.DigestRunning.Set(0)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if !r.issue(ctx) {
			r.logger.Info("digest stopping", "reason", ctx.Err())
			return nil
		}

		select {
		case <-ctx.Done():
			r.logger.Info("digest stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// issue generates today's article, retrying with exponential backoff until it
// succeeds. Returns false if the context ended first.
func (r *Runner) issue(ctx context.Context) bool {
	backoff := initialBackoff
	for {
		date := domain.NormalizeDate(r.clock.Now())
		article, err := r.gen.Narrate(ctx, date)
		if err == nil {
			n := r.issued.Add(1)
			r.metrics.DigestRuns.WithLabelValues("success").Inc()
			r.logger.Info("digest issued", "id", article.ID, "date", date.Format(time.DateOnly), "issued", n)
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		r.metrics.DigestRuns.WithLabelValues("error").Inc()
		r.logger.Error("digest failed", "error", err, "retry_in", backoff)
		if !r.sleep(ctx, backoff) {
			return false
		}
		backoff = nextBackoff(backoff)
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) bool {
	timer := r.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func nextBackoff(current time.Duration) time.Duration {
	return min(current*2, maxBackoff)
}
