package flappy

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// ErrReplayMismatch is returned when a replayed tape does not end the way it
// was recorded.
var ErrReplayMismatch = errors.New("replay mismatch")

// Tape is everything needed to reproduce a finished run: the gap seed, the
// configuration and the tick count at which each jump was applied.
type Tape struct {
	RunSeed int64
	Config  config.FlappyConfig
	Jumps   []uint64 // Completed ticks when each jump was issued
	Ticks   uint64   // Ticks until the collision
	Score   int
}

// Recorder builds a Tape from simulation events.
type Recorder struct {
	cfg      config.FlappyConfig
	tape     Tape
	active   bool
	onFinish func(Tape)
}

// NewRecorder creates a recorder for runs of cfg. onFinish is called with
// the completed tape when a run ends in a collision; it runs inside the
// event handler and must not call back into the simulation.
func NewRecorder(cfg config.FlappyConfig, onFinish func(Tape)) *Recorder {
	return &Recorder{cfg: cfg, onFinish: onFinish}
}

// Handle is an EventHandler; pass it to Subscribe.
func (r *Recorder) Handle(e Event) {
	switch e.Kind {
	case EventRunStarted:
		r.tape = Tape{RunSeed: e.Seed, Config: r.cfg}
		r.active = true
	case EventJump:
		if r.active {
			r.tape.Jumps = append(r.tape.Jumps, e.Tick)
		}
	case EventCollision:
		if !r.active {
			return
		}
		r.active = false
		r.tape.Ticks = e.Tick
		r.tape.Score = e.Score
		if r.onFinish != nil {
			r.onFinish(r.Last())
		}
	}
}

// Last returns a copy of the most recent tape, complete or not.
func (r *Recorder) Last() Tape {
	t := r.tape
	t.Jumps = append([]uint64(nil), r.tape.Jumps...)
	return t
}

// Replay re-runs a tape headlessly and returns the final snapshot.
// The result must end in a collision at the recorded tick with the recorded
// score, otherwise ErrReplayMismatch is returned along with the snapshot.
func Replay(t Tape) (Snapshot, error) {
	sim, err := New(t.Config, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("flappy: replay: %w", err)
	}
	sim.StartWithSeed(t.RunSeed)

	next := 0
	for sim.Running() && sim.Ticks() < t.Ticks {
		for next < len(t.Jumps) && t.Jumps[next] <= sim.Ticks() {
			sim.Jump()
			next++
		}
		sim.Tick()
	}

	snap := sim.Snapshot()
	switch {
	case snap.State != StateOver:
		return snap, fmt.Errorf("flappy: replay: run still %s after %d ticks: %w", snap.State, snap.Tick, ErrReplayMismatch)
	case snap.Tick != t.Ticks:
		return snap, fmt.Errorf("flappy: replay: ended at tick %d, recorded %d: %w", snap.Tick, t.Ticks, ErrReplayMismatch)
	case snap.Score != t.Score:
		return snap, fmt.Errorf("flappy: replay: score %d, recorded %d: %w", snap.Score, t.Score, ErrReplayMismatch)
	}
	return snap, nil
}
