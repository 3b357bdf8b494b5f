// Package flappy implements the flappy simulation: a character falling under
// gravity, a fixed pool of scrolling pipe pairs, gap scoring and collision
// detection. The package is synchronous and has no rendering or audio
// dependencies; frontends read Snapshots and call the command methods.
package flappy

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// trackingIndex is the pool slot that drives scoring and pipe collision.
// The other obstacles only scroll and recycle.
const trackingIndex = 0

// State is the session state machine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateOver
)

// String returns a lowercase name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StepResult is returned by Tick.
// Events holds everything emitted since the previous Tick, including jumps.
type StepResult struct {
	State  State
	Score  int
	Events []Event
}

// Simulation owns one character and the obstacle pool of a session.
// It is not safe for concurrent use; see Driver for a goroutine-safe wrapper.
type Simulation struct {
	cfg       config.FlappyConfig
	seeds     *rand.Rand // Produces one seed per run
	rng       *rand.Rand // Gap placement for the current run
	runSeed   int64
	character *Character
	obstacles []*Obstacle
	state     State
	points    int
	hasPassed bool // Tracking obstacle already scored this cycle
	tick      uint64
	trackTop  core.Rect
	trackBot  core.Rect
	handlers  []EventHandler
	pending   []Event
}

// New creates an idle simulation. The seed makes every run reproducible.
func New(cfg config.FlappyConfig, seed int64) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:   cfg,
		seeds: rand.New(rand.NewSource(seed)),
		state: StateIdle,
	}, nil
}

// Config returns the session configuration.
func (s *Simulation) Config() config.FlappyConfig {
	return s.cfg
}

// Subscribe registers a handler for every future event.
func (s *Simulation) Subscribe(h EventHandler) {
	if h != nil {
		s.handlers = append(s.handlers, h)
	}
}

// Start begins a new run with a seed drawn from the session seed.
// It is accepted from Idle and Over only.
func (s *Simulation) Start() bool {
	if s.state != StateIdle && s.state != StateOver {
		return false
	}
	s.StartWithSeed(s.seeds.Int63())
	return true
}

// StartWithSeed (re)creates every entity for a run with the given gap seed.
// Replays use it to reproduce a recorded run. Any previous run is discarded.
func (s *Simulation) StartWithSeed(runSeed int64) {
	s.runSeed = runSeed
	s.rng = rand.New(rand.NewSource(runSeed))
	s.character = NewCharacter(s.cfg.Character, s.cfg.Physics)

	n := s.cfg.Obstacles.Count
	if cap(s.obstacles) < n {
		s.obstacles = make([]*Obstacle, n)
	}
	s.obstacles = s.obstacles[:n]
	for i := range s.obstacles {
		startX := s.cfg.World.Width + i*s.cfg.Obstacles.Spacing
		s.obstacles[i] = NewObstacle(startX, s.cfg.World, s.cfg.Obstacles, s.cfg.Physics.ObstacleSpeed, s.rng)
	}

	s.points = 0
	s.hasPassed = false
	s.tick = 0
	s.pending = s.pending[:0]
	s.trackTop = s.obstacles[trackingIndex].TopRect()
	s.trackBot = s.obstacles[trackingIndex].BottomRect()
	s.state = StateRunning
	s.emit(Event{Kind: EventRunStarted, Seed: runSeed})
}

// Jump applies a jump impulse. Ignored unless Running.
func (s *Simulation) Jump() bool {
	if s.state != StateRunning {
		return false
	}
	s.character.Jump()
	s.emit(Event{Kind: EventJump, Tick: s.tick, Score: s.points})
	return true
}

// Pause suspends a running session without touching entity state.
func (s *Simulation) Pause() bool {
	if s.state != StateRunning {
		return false
	}
	s.state = StatePaused
	return true
}

// Resume continues a paused session.
func (s *Simulation) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StateRunning
	return true
}

// TogglePause pauses a running session or resumes a paused one.
func (s *Simulation) TogglePause() bool {
	if s.state == StatePaused {
		return s.Resume()
	}
	return s.Pause()
}

// Tick advances the run by one step. Outside Running it only drains
// pending events. The order of the steps is fixed:
//  1. character physics
//  2. obstacle movement, scoring on the tracking obstacle, recycling
//  3. collision against the tracking obstacle and the screen bounds
func (s *Simulation) Tick() StepResult {
	if s.state != StateRunning {
		return s.result()
	}

	s.tick++
	s.character.Update()

	for i, o := range s.obstacles {
		o.Update()
		if i == trackingIndex {
			s.trackTop = o.TopRect()
			s.trackBot = o.BottomRect()
			s.scoreTracking(o)
		}
		if o.Offscreen() {
			s.recycle(i)
		}
	}

	if cause := s.detectCollision(); cause != CauseNone {
		s.state = StateOver
		s.emit(Event{Kind: EventCollision, Tick: s.tick, Score: s.points, Cause: cause})
	}

	return s.result()
}

// scoreTracking awards a point the first tick the character is fully inside
// the gap and past the trailing edge, and re-arms once the obstacle leaves.
func (s *Simulation) scoreTracking(o *Obstacle) {
	c := s.character.Rect()
	inGap := c.Top() > s.trackTop.Bottom() && c.Bottom() < s.trackBot.Top()
	if !s.hasPassed && inGap && c.Left() > o.Right() {
		s.points++
		s.hasPassed = true
		s.emit(Event{Kind: EventPointScored, Tick: s.tick, Score: s.points})
	}
	if o.Offscreen() {
		s.hasPassed = false
	}
}

// recycle moves obstacle i behind the rightmost obstacle of the pool.
func (s *Simulation) recycle(i int) {
	rightmost := -1
	for _, p := range s.obstacles {
		rightmost = max(rightmost, p.X())
	}
	newX := rightmost + s.cfg.Obstacles.Spacing
	s.obstacles[i].ResetPosition(newX)
	s.emit(Event{Kind: EventObstacleRecycled, Tick: s.tick, Score: s.points, Obstacle: i, NewX: newX})
}

func (s *Simulation) emit(e Event) {
	s.pending = append(s.pending, e)
	for _, h := range s.handlers {
		h(e)
	}
}

func (s *Simulation) result() StepResult {
	res := StepResult{State: s.state, Score: s.points}
	if len(s.pending) > 0 {
		res.Events = make([]Event, len(s.pending))
		copy(res.Events, s.pending)
		s.pending = s.pending[:0]
	}
	return res
}

// State returns the current session state.
func (s *Simulation) State() State {
	return s.state
}

// Running reports whether ticks currently advance the run.
func (s *Simulation) Running() bool {
	return s.state == StateRunning
}

// Score returns the points of the current run.
func (s *Simulation) Score() int {
	return s.points
}

// Ticks returns the number of completed ticks in the current run.
func (s *Simulation) Ticks() uint64 {
	return s.tick
}

// RunSeed returns the gap seed of the current run.
func (s *Simulation) RunSeed() int64 {
	return s.runSeed
}
