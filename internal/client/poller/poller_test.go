package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

const interval = 5 * time.Second

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func startWithFakeClock(t *testing.T, tick TickFunc) (*Poller, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	p := New(clock, tick)
	p.Start(context.Background(), interval)
	t.Cleanup(p.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker never armed: %v", err)
	}
	return p, clock
}

func TestTicksEveryInterval(t *testing.T) {
	var ticks atomic.Int32
	p, clock := startWithFakeClock(t, func(ctx context.Context) { ticks.Add(1) })

	if !p.Running() {
		t.Fatal("Running() = false after Start")
	}

	clock.Advance(interval - time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != 0 {
		t.Fatalf("ticked before the interval elapsed")
	}

	clock.Advance(time.Millisecond)
	waitFor(t, "first tick", func() bool { return ticks.Load() == 1 })

	clock.Advance(interval)
	waitFor(t, "second tick", func() bool { return ticks.Load() == 2 })
}

func TestBusyTickIsSkipped(t *testing.T) {
	var started atomic.Int32
	release := make(chan struct{})

	p, clock := startWithFakeClock(t, func(ctx context.Context) {
		started.Add(1)
		<-release
	})

	clock.Advance(interval)
	waitFor(t, "first tick", func() bool { return started.Load() == 1 })

	clock.Advance(interval)
	waitFor(t, "skipped tick", func() bool { return p.Skipped() == 1 })
	if started.Load() != 1 {
		t.Fatalf("tick ran concurrently with a busy one")
	}

	close(release)
	waitFor(t, "busy flag cleared", func() bool { return !p.busy.Load() })

	clock.Advance(interval)
	waitFor(t, "tick after release", func() bool { return started.Load() == 2 })
}

func TestStopCancelsTickContext(t *testing.T) {
	entered := make(chan context.Context, 1)
	p, clock := startWithFakeClock(t, func(ctx context.Context) {
		entered <- ctx
		<-ctx.Done()
	})

	clock.Advance(interval)
	tickCtx := <-entered

	p.Stop()
	if p.Running() {
		t.Fatal("Running() = true after Stop")
	}

	select {
	case <-tickCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("tick context not cancelled by Stop")
	}

	// Stopping twice is harmless.
	p.Stop()
}

func TestStartReplacesLoop(t *testing.T) {
	var ticks atomic.Int32
	clock := clockwork.NewFakeClock()
	p := New(clock, func(ctx context.Context) { ticks.Add(1) })
	defer p.Stop()

	p.Start(context.Background(), interval)
	p.Start(context.Background(), interval)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("ticker never armed: %v", err)
	}

	clock.Advance(interval)
	waitFor(t, "tick", func() bool { return ticks.Load() >= 1 })
	time.Sleep(10 * time.Millisecond)
	if got := ticks.Load(); got != 1 {
		t.Fatalf("ticks = %d, want exactly 1 from a single loop", got)
	}
}
