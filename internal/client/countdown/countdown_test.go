package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"izmetro/internal/client/view"
)

type push struct {
	Timer string
	Total int
}

type recorder struct {
	mu      sync.Mutex
	labels  []string
	pushes  []push
	expired int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		Render: func(label string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.labels = append(r.labels, label)
		},
		Push: func(_ context.Context, timer string, total int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.pushes = append(r.pushes, push{timer, total})
		},
		Expired: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.expired++
		},
	}
}

func (r *recorder) lastLabel() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.labels) == 0 {
		return ""
	}
	return r.labels[len(r.labels)-1]
}

func TestOneMinuteExpiresAfterSixtyTicks(t *testing.T) {
	rec := &recorder{}
	c := New(clockwork.NewFakeClock(), rec.hooks())
	ctx := context.Background()

	if !c.Start(ctx, 1) {
		t.Fatal("Start() = false")
	}
	if c.Label() != "1:00" || c.Phase() != Running {
		t.Fatalf("after start: %s %s", c.Label(), c.Phase())
	}

	for i := 0; i < 59; i++ {
		if c.step(ctx) {
			t.Fatalf("expired early at tick %d", i+1)
		}
	}
	if c.Label() != "0:01" {
		t.Fatalf("label after 59 ticks = %q", c.Label())
	}

	if !c.step(ctx) {
		t.Fatal("not expired after 60 ticks")
	}

	if c.Phase() != Expired || c.Label() != "0:00" || rec.lastLabel() != "0:00" {
		t.Fatalf("after expiry: phase %s, label %q, rendered %q", c.Phase(), c.Label(), rec.lastLabel())
	}
	if rec.expired != 1 {
		t.Fatalf("Expired hook called %d times", rec.expired)
	}

	last := rec.pushes[len(rec.pushes)-2:]
	if diff := cmp.Diff([]push{{"0:00", 1}, {"", 0}}, last); diff != "" {
		t.Fatalf("final pushes mismatch (-want +got):\n%s", diff)
	}
	if len(rec.pushes) != 61 {
		t.Fatalf("pushes = %d, want one per tick plus the reset", len(rec.pushes))
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	rec := &recorder{}
	c := New(clockwork.NewFakeClock(), rec.hooks())
	ctx := context.Background()
	defer c.Stop(ctx)

	c.Start(ctx, 5)
	c.step(ctx)

	if c.Start(ctx, 1) {
		t.Fatal("second Start() = true")
	}
	if c.Remaining() != 5*60-1 {
		t.Fatalf("Remaining() = %d, countdown was restarted", c.Remaining())
	}
	if c.Start(ctx, 0) {
		t.Fatal("Start(0) = true")
	}
}

func TestStopResets(t *testing.T) {
	rec := &recorder{}
	c := New(clockwork.NewFakeClock(), rec.hooks())
	ctx := context.Background()

	c.Start(ctx, 3)
	c.Stop(ctx)

	if c.Phase() != Idle || c.Label() != view.TimerNotStarted || rec.lastLabel() != view.TimerNotStarted {
		t.Fatalf("after stop: %s %q", c.Phase(), c.Label())
	}
	if got := rec.pushes[len(rec.pushes)-1]; got != (push{"", 0}) {
		t.Fatalf("last push = %+v, want reset", got)
	}

	if !c.Start(ctx, 1) {
		t.Fatal("Start() after Stop = false")
	}
	c.Stop(ctx)
}

func TestRunsOnClockTicks(t *testing.T) {
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	c := New(clock, rec.hooks())
	ctx := context.Background()
	defer c.Stop(ctx)

	c.Start(ctx, 1)

	wait, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(wait, 1); err != nil {
		t.Fatalf("ticker never armed: %v", err)
	}

	clock.Advance(TickInterval)

	deadline := time.Now().Add(2 * time.Second)
	for rec.lastLabel() != "0:59" {
		if time.Now().After(deadline) {
			t.Fatalf("label = %q, want 0:59", rec.lastLabel())
		}
		time.Sleep(time.Millisecond)
	}
}
