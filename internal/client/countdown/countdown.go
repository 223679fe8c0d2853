/*
Package countdown implements the rider's meeting countdown as a small state machine.

The countdown moves Idle → Running on Start, Running → Expired when it reaches zero and
back to Idle on Stop. Start, Stop and the one-second tick are its only transitions. It
knows nothing about the display: every change is reported through the Hooks.
*/
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"izmetro/internal/client/view"
)

// Phase is the state of the countdown.
type Phase int

const (
	Idle Phase = iota
	Running
	Expired
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Hooks receive the countdown's effects. Nil hooks are skipped.
type Hooks struct {
	// Render is called with the new label after every change.
	Render func(label string)

	// Push sends (timer, timerTotal) to the user store. It is best-effort: the countdown
	// ignores failures. Reset is signalled with an empty timer and total 0.
	Push func(ctx context.Context, timer string, totalMinutes int)

	// Expired is called once when the countdown reaches zero.
	Expired func()
}

// Countdown is safe for concurrent use.
type Countdown struct {
	clock clockwork.Clock
	hooks Hooks

	mu        sync.Mutex
	phase     Phase
	remaining int
	total     int
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates an idle countdown. A nil clock means the real clock.
func New(clock clockwork.Clock, hooks Hooks) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Countdown{clock: clock, hooks: hooks}
}

// Start begins counting down from minutes. It returns false, changing nothing, while a
// countdown is already running or minutes is not positive.
func (c *Countdown) Start(ctx context.Context, minutes int) bool {
	if minutes <= 0 {
		return false
	}

	c.mu.Lock()
	if c.phase == Running {
		c.mu.Unlock()
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.phase = Running
	c.total = minutes
	c.remaining = minutes * 60
	c.cancel = cancel
	c.done = done
	label := view.FormatClock(c.remaining)
	c.mu.Unlock()

	c.render(label)

	go c.run(loopCtx, done)
	return true
}

// Stop cancels a running countdown, resets it to Idle and pushes the reset state.
func (c *Countdown) Stop(ctx context.Context) {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.phase = Idle
	c.remaining = 0
	c.total = 0
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	c.render(view.TimerNotStarted)
	c.push(ctx, "", 0)
}

// Phase returns the current state.
func (c *Countdown) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Label returns what the display should show right now.
func (c *Countdown) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Idle {
		return view.TimerNotStarted
	}
	return view.FormatClock(c.remaining)
}

func (c *Countdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := c.clock.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if c.step(ctx) {
				return
			}
		}
	}
}

// step applies one tick and reports whether the countdown has expired.
func (c *Countdown) step(ctx context.Context) bool {
	c.mu.Lock()
	if c.phase != Running {
		c.mu.Unlock()
		return true
	}

	c.remaining--
	expired := c.remaining <= 0
	var release context.CancelFunc
	if expired {
		c.remaining = 0
		c.phase = Expired
		release = c.cancel
		c.cancel = nil
		c.done = nil
	}
	label := view.FormatClock(c.remaining)
	total := c.total
	c.mu.Unlock()

	c.render(label)
	c.push(ctx, label, total)

	if expired {
		c.push(ctx, "", 0)
		if c.hooks.Expired != nil {
			c.hooks.Expired()
		}
		release()
	}
	return expired
}

func (c *Countdown) render(label string) {
	if c.hooks.Render != nil {
		c.hooks.Render(label)
	}
}

func (c *Countdown) push(ctx context.Context, timer string, total int) {
	if c.hooks.Push != nil {
		c.hooks.Push(ctx, timer, total)
	}
}
