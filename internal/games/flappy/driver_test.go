package flappy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

func startDriver(t *testing.T, cfg config.FlappyConfig) (*Driver, func()) {
	t.Helper()
	sim := newTestSim(t, cfg, 1)
	d := NewDriver(sim, time.Millisecond, WithMetrics(telemetry.Noop()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	return d, func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	}
}

func waitFor(t *testing.T, d *Driver, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := d.Snapshot(); cond(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; last snapshot %+v", what, d.Snapshot())
	return Snapshot{}
}

func TestDriverRunsToCollision(t *testing.T) {
	d, stop := startDriver(t, config.DefaultFlappyConfig())
	defer stop()

	collisions := make(chan Event, 1)
	d.Subscribe(func(e Event) {
		if e.Kind == EventCollision {
			collisions <- e
		}
	})

	d.Start()
	snap := waitFor(t, d, "game over", func(s Snapshot) bool { return s.State == StateOver })
	if snap.Tick != 70 {
		t.Errorf("free fall ended at tick %d, want 70", snap.Tick)
	}

	select {
	case e := <-collisions:
		if e.Cause != CauseFloor {
			t.Errorf("cause = %v, want floor", e.Cause)
		}
	case <-time.After(time.Second):
		t.Fatal("no collision event")
	}

	// The timer is not re-armed after the run ends.
	time.Sleep(10 * time.Millisecond)
	if got := d.Snapshot().Tick; got != 70 {
		t.Errorf("ticks advanced to %d after game over", got)
	}
}

func TestDriverPauseStopsTicking(t *testing.T) {
	d, stop := startDriver(t, hoverConfig())
	defer stop()

	d.Start()
	waitFor(t, d, "a few ticks", func(s Snapshot) bool { return s.Tick >= 3 })

	d.Pause()
	paused := waitFor(t, d, "pause", func(s Snapshot) bool { return s.State == StatePaused })
	time.Sleep(10 * time.Millisecond)
	if got := d.Snapshot().Tick; got != paused.Tick {
		t.Fatalf("ticks advanced from %d to %d while paused", paused.Tick, got)
	}

	d.TogglePause()
	waitFor(t, d, "resume", func(s Snapshot) bool { return s.State == StateRunning && s.Tick > paused.Tick })
}

func TestDriverConcurrentCommands(t *testing.T) {
	d, stop := startDriver(t, hoverConfig())
	defer stop()

	d.Start()
	waitFor(t, d, "running", func(s Snapshot) bool { return s.State == StateRunning })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Jump()
				_ = d.Snapshot()
			}
		}()
	}
	wg.Wait()
	after := d.Snapshot().Tick

	// Without gravity the velocity stays at the impulse once any jump lands.
	want := hoverConfig().Physics.JumpImpulse
	snap := waitFor(t, d, "jumps applied", func(s Snapshot) bool { return s.Tick > after+1 || s.State == StateOver })
	if snap.Velocity != want {
		t.Errorf("velocity = %d, want %d", snap.Velocity, want)
	}
}

func TestDriverIgnoresCommandsWhenIdle(t *testing.T) {
	d, stop := startDriver(t, config.DefaultFlappyConfig())
	defer stop()

	d.Jump()
	d.Pause()
	time.Sleep(5 * time.Millisecond)

	snap := d.Snapshot()
	if snap.State != StateIdle || snap.Tick != 0 {
		t.Errorf("idle driver changed state: %+v", snap)
	}
}

type runCtxKey struct{}

// ctxMeter hands out counters that remember the context of every Add.
type ctxMeter struct {
	noop.Meter

	mu   sync.Mutex
	seen map[string][]context.Context
}

func (m *ctxMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return &ctxCounter{name: name, meter: m}, nil
}

func (m *ctxMeter) contexts(name string) []context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]context.Context(nil), m.seen[name]...)
}

type ctxCounter struct {
	noop.Int64Counter
	name  string
	meter *ctxMeter
}

func (c *ctxCounter) Add(ctx context.Context, _ int64, _ ...metric.AddOption) {
	c.meter.mu.Lock()
	defer c.meter.mu.Unlock()
	c.meter.seen[c.name] = append(c.meter.seen[c.name], ctx)
}

func TestDriverMetricsUseRunContext(t *testing.T) {
	meter := &ctxMeter{seen: map[string][]context.Context{}}
	metrics, err := telemetry.New(meter)
	if err != nil {
		t.Fatalf("telemetry.New: %v", err)
	}

	sim := newTestSim(t, config.DefaultFlappyConfig(), 1)
	d := NewDriver(sim, time.Millisecond, WithMetrics(metrics))

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), runCtxKey{}, "run"))
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	d.Start()
	waitFor(t, d, "game over", func(s Snapshot) bool { return s.State == StateOver })
	cancel()
	<-done

	for _, name := range []string{"flappy.runs", "flappy.ticks", "flappy.events"} {
		ctxs := meter.contexts(name)
		if len(ctxs) == 0 {
			t.Errorf("%s: nothing recorded", name)
			continue
		}
		for i, c := range ctxs {
			if c.Value(runCtxKey{}) != "run" {
				t.Errorf("%s: record %d did not carry the Run context", name, i)
				break
			}
		}
	}
	if n := len(meter.contexts("flappy.runs")); n != 1 {
		t.Errorf("flappy.runs recorded %d times, want 1", n)
	}
}
