package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-news-service/internal/domain"
	"github.com/couchcryptid/weather-news-service/internal/observability"
)

// --- mocks ---

type stubGenerator struct {
	dates chan time.Time
	errs  []error // returned in order, then nil
}

func newStubGenerator(errs ...error) *stubGenerator {
	return &stubGenerator{dates: make(chan time.Time, 16), errs: errs}
}

func (g *stubGenerator) Narrate(_ context.Context, date time.Time) (domain.Article, error) {
	g.dates <- date
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		return domain.Article{}, err
	}
	return domain.Article{ID: "a-" + date.Format(time.DateOnly), Date: date}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitDate(t *testing.T, g *stubGenerator) time.Time {
	t.Helper()
	select {
	case d := <-g.dates:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Narrate")
		return time.Time{}
	}
}

// start runs the runner in the background and returns a stop func that
// cancels it and waits for Run to return.
func start(t *testing.T, r *Runner) (context.Context, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	return ctx, func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	}
}

// --- tests ---

func TestRunner_IssuesImmediatelyAndEachInterval(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2025, time.April, 15, 6, 30, 0, 0, time.UTC))
	gen := newStubGenerator()
	r := New(gen, fc, 24*time.Hour, discardLogger(), observability.NewMetricsForTesting())

	ctx, stop := start(t, r)
	defer stop()

	assert.Equal(t, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), waitDate(t, gen))

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(24 * time.Hour)
	assert.Equal(t, time.Date(2025, time.April, 16, 0, 0, 0, 0, time.UTC), waitDate(t, gen))

	require.Eventually(t, func() bool { return r.Issued() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRunner_RetriesWithBackoff(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC))
	gen := newStubGenerator(errors.New("no dataset loaded"))
	r := New(gen, fc, time.Hour, discardLogger(), observability.NewMetricsForTesting())

	ctx, stop := start(t, r)
	defer stop()

	waitDate(t, gen)
	// Ticker plus the backoff timer.
	require.NoError(t, fc.BlockUntilContext(ctx, 2))
	fc.Advance(initialBackoff)

	waitDate(t, gen)
	require.Eventually(t, func() bool { return r.Issued() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRunner_StopsWhileBackingOff(t *testing.T) {
	fc := clockwork.NewFakeClock()
	gen := newStubGenerator(errors.New("boom"))
	r := New(gen, fc, time.Hour, discardLogger(), observability.NewMetricsForTesting())

	ctx, stop := start(t, r)
	waitDate(t, gen)
	require.NoError(t, fc.BlockUntilContext(ctx, 2))
	stop()

	assert.Equal(t, int64(0), r.Issued())
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		current time.Duration
		want    time.Duration
	}{
		{initialBackoff, 400 * time.Millisecond},
		{40 * time.Second, maxBackoff},
		{maxBackoff, maxBackoff},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextBackoff(tt.current))
	}
}
