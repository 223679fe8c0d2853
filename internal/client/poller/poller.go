/*
Package poller runs the client's fixed-interval refresh loop.

A Poller owns at most one repeating ticker. Starting it again replaces the previous loop,
stopping it cancels the loop and the context handed to in-flight tick work. A tick that
arrives while the previous tick's work is still running is skipped, never queued.
*/
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"izmetro/internal/pkg/logx"
)

// DefaultInterval is the refresh period of the client.
const DefaultInterval = 5 * time.Second

// TickFunc is the work done on every tick. ctx is cancelled when the poller stops.
type TickFunc func(ctx context.Context)

// Poller drives a TickFunc on a clock.
type Poller struct {
	clock clockwork.Clock
	tick  TickFunc

	// mu guards cancel and done.
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	busy    atomic.Bool
	skipped atomic.Int64

	logger zerolog.Logger
}

// New creates a stopped poller. A nil clock means the real clock.
func New(clock clockwork.Clock, tick TickFunc) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		clock:  clock,
		tick:   tick,
		logger: logx.Component("poller"),
	}
}

// Start begins ticking every interval, replacing any loop already running.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.run(loopCtx, interval, done)

	p.logger.Debug().Dur("interval", interval).Msg("Polling started.")
}

// Stop cancels the loop and waits for it to exit. Work already handed to a tick sees its
// context cancelled but is not waited for. Stop on a stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	p.logger.Debug().Msg("Polling stopped.")
}

// Running reports whether a loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Skipped returns how many ticks were dropped because the previous one was still busy.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

func (p *Poller) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.fire(ctx)
		}
	}
}

// fire hands the tick to its own goroutine unless the previous tick is still running.
func (p *Poller) fire(ctx context.Context) {
	if !p.busy.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug().Msg("Previous tick still running, tick skipped.")
		return
	}

	go func() {
		defer p.busy.Store(false)
		p.tick(ctx)
	}()
}
