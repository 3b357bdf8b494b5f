package flappy

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

type command int

const (
	cmdStart command = iota
	cmdJump
	cmdPause
	cmdResume
	cmdTogglePause
)

// Driver runs a Simulation on a fixed-interval scheduler in its own
// goroutine. Commands may be issued from any goroutine; they are queued
// and applied at the next tick boundary, so a tick never observes a
// half-applied input. The timer is re-armed after each tick only while the
// simulation is running; a late tick delays the next one, there is no
// catch-up.
type Driver struct {
	mu       sync.Mutex
	sim      *Simulation
	interval time.Duration
	queue    []command
	wake     chan struct{}
	logger   *log.Logger
	metrics  *telemetry.Metrics
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(l *log.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the telemetry instruments.
func WithMetrics(m *telemetry.Metrics) DriverOption {
	return func(d *Driver) {
		d.metrics = m
	}
}

// NewDriver wraps sim. The driver takes ownership: callers must not use
// sim directly while Run is active.
func NewDriver(sim *Simulation, interval time.Duration, opts ...DriverOption) *Driver {
	if interval <= 0 {
		interval = time.Second / 60
	}
	d := &Driver{
		sim:      sim,
		interval: interval,
		wake:     make(chan struct{}, 1),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start queues a new run.
func (d *Driver) Start() { d.enqueue(cmdStart) }

// Jump queues a jump for the next tick.
func (d *Driver) Jump() { d.enqueue(cmdJump) }

// Pause queues a pause.
func (d *Driver) Pause() { d.enqueue(cmdPause) }

// Resume queues a resume.
func (d *Driver) Resume() { d.enqueue(cmdResume) }

// TogglePause queues a pause or resume depending on the state at the tick boundary.
func (d *Driver) TogglePause() { d.enqueue(cmdTogglePause) }

// Subscribe registers an event handler. Handlers run on the driver
// goroutine with the driver locked and must not call back into it.
func (d *Driver) Subscribe(h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sim.Subscribe(h)
}

// Snapshot returns a consistent copy of the simulation state.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Snapshot()
}

func (d *Driver) enqueue(c command) {
	d.mu.Lock()
	d.queue = append(d.queue, c)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run drives the simulation until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	timer := time.NewTimer(d.interval)
	timer.Stop()
	defer timer.Stop()

	armed := d.applyPending(ctx)
	if armed {
		timer.Reset(d.interval)
	}

	for {
		var tickC <-chan time.Time
		if armed {
			tickC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-d.wake:
			// While armed, queued commands wait for the tick boundary.
			if !armed && d.applyPending(ctx) {
				armed = true
				timer.Reset(d.interval)
			}

		case <-tickC:
			armed = d.tick(ctx)
			if armed {
				timer.Reset(d.interval)
			}
		}
	}
}

// applyPending drains the command queue outside a tick.
func (d *Driver) applyPending(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainLocked(ctx)
	return d.sim.Running()
}

// tick drains queued commands and advances one step.
// It reports whether the timer should be re-armed.
func (d *Driver) tick(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.drainLocked(ctx)
	if !d.sim.Running() {
		return false
	}

	start := time.Now()
	res := d.sim.Tick()
	d.metrics.ObserveTick(ctx, time.Since(start))

	for _, e := range res.Events {
		d.metrics.ObserveEvent(ctx, e.Kind.String())
		if e.Kind == EventCollision {
			d.logger.Info("run over", "score", e.Score, "ticks", e.Tick, "cause", e.Cause)
		}
	}
	return res.State == StateRunning
}

func (d *Driver) drainLocked(ctx context.Context) {
	for _, c := range d.queue {
		switch c {
		case cmdStart:
			if d.sim.Start() {
				d.metrics.ObserveRun(ctx, "driver")
				d.logger.Debug("run started", "seed", d.sim.RunSeed())
			}
		case cmdJump:
			d.sim.Jump()
		case cmdPause:
			d.sim.Pause()
		case cmdResume:
			d.sim.Resume()
		case cmdTogglePause:
			d.sim.TogglePause()
		}
	}
	d.queue = d.queue[:0]
}
