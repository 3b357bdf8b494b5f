package flappy

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

func newTestSim(t *testing.T, cfg config.FlappyConfig, seed int64) *Simulation {
	t.Helper()
	s, err := New(cfg, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// hoverConfig disables gravity and opens a gap wide enough that the
// character at its spawn point never touches a pipe.
func hoverConfig() config.FlappyConfig {
	cfg := config.DefaultFlappyConfig()
	cfg.Physics.Gravity = 0
	cfg.Obstacles.Gap = 1400
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Obstacles.Count = 0
	if _, err := New(cfg, 1); err == nil {
		t.Fatal("expected error for empty obstacle pool")
	}
}

func TestIdleBeforeStart(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)

	if s.State() != StateIdle {
		t.Fatalf("state = %v, want idle", s.State())
	}
	if s.Jump() {
		t.Error("jump should be ignored while idle")
	}
	res := s.Tick()
	if res.State != StateIdle || len(res.Events) != 0 {
		t.Errorf("idle tick = %+v, want idle with no events", res)
	}

	snap := s.Snapshot()
	if snap.CharacterX != 100 || snap.CharacterY != 300 {
		t.Errorf("idle character at (%d,%d), want (100,300)", snap.CharacterX, snap.CharacterY)
	}
	if len(snap.Obstacles) != 0 {
		t.Errorf("idle snapshot has %d obstacles, want 0", len(snap.Obstacles))
	}
}

func TestStartSpawnsPool(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	if !s.Start() {
		t.Fatal("start from idle rejected")
	}
	if s.Start() {
		t.Error("start while running should be rejected")
	}

	snap := s.Snapshot()
	wantX := []int{1000, 1400, 1800}
	if len(snap.Obstacles) != len(wantX) {
		t.Fatalf("pool size = %d, want %d", len(snap.Obstacles), len(wantX))
	}
	for i, o := range snap.Obstacles {
		if o.X != wantX[i] {
			t.Errorf("obstacle %d at x=%d, want %d", i, o.X, wantX[i])
		}
		if o.Tracking != (i == 0) {
			t.Errorf("obstacle %d tracking = %v", i, o.Tracking)
		}
	}
	if snap.Velocity != 0 || snap.Score != 0 || snap.Tick != 0 {
		t.Errorf("fresh run snapshot = %+v", snap)
	}
}

func TestGravityIntegerHalving(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	s.Start()

	s.Tick()
	snap := s.Snapshot()
	if snap.Velocity != 1 || snap.CharacterY != 300 {
		t.Fatalf("after 1 tick v=%d y=%d, want v=1 y=300", snap.Velocity, snap.CharacterY)
	}

	prev := snap.CharacterY
	for i := 2; i <= 30; i++ {
		s.Tick()
		y := s.Snapshot().CharacterY
		if y < prev {
			t.Fatalf("tick %d: y went up from %d to %d without a jump", i, prev, y)
		}
		prev = y
	}
	if prev != 525 {
		t.Errorf("after 30 ticks y=%d, want 525", prev)
	}
}

func TestJumpThenTick(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	s.Start()

	if !s.Jump() {
		t.Fatal("jump rejected while running")
	}
	s.Tick()

	snap := s.Snapshot()
	if snap.Velocity != -29 || snap.CharacterY != 286 {
		t.Errorf("after jump+tick v=%d y=%d, want v=-29 y=286", snap.Velocity, snap.CharacterY)
	}
}

func TestJumpOverridesVelocity(t *testing.T) {
	tests := []struct {
		name      string
		fallTicks int
		jumps     int
	}{
		{"from rest", 0, 1},
		{"while falling", 10, 1},
		{"double jump", 0, 2},
		{"falling double jump", 15, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, config.DefaultFlappyConfig(), 1)
			s.Start()
			for i := 0; i < tt.fallTicks; i++ {
				s.Tick()
			}
			for i := 0; i < tt.jumps; i++ {
				s.Jump()
			}
			s.Tick()
			if v := s.Snapshot().Velocity; v != -29 {
				t.Errorf("velocity = %d, want -29", v)
			}
		})
	}
}

func TestFreeFallHitsFloor(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	var got []Event
	s.Subscribe(func(e Event) {
		if e.Kind == EventCollision {
			got = append(got, e)
		}
	})
	s.Start()

	for i := 0; i < 200 && s.Running(); i++ {
		s.Tick()
	}

	if s.State() != StateOver {
		t.Fatalf("state = %v, want over", s.State())
	}
	if len(got) != 1 {
		t.Fatalf("got %d collision events, want 1", len(got))
	}
	if got[0].Cause != CauseFloor || got[0].Tick != 70 {
		t.Errorf("collision = %+v, want floor at tick 70", got[0])
	}
}

func TestJumpingHitsCeiling(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	s.Start()

	var last StepResult
	for i := 0; i < 100 && s.Running(); i++ {
		s.Jump()
		last = s.Tick()
	}

	if last.State != StateOver {
		t.Fatalf("state = %v, want over", last.State)
	}
	ev := last.Events[len(last.Events)-1]
	if ev.Kind != EventCollision || ev.Cause != CauseCeiling {
		t.Errorf("last event = %+v, want ceiling collision", ev)
	}
	if s.Ticks() != 22 {
		t.Errorf("ceiling hit at tick %d, want 22", s.Ticks())
	}
	if y := s.Snapshot().CharacterY; y != 0 {
		t.Errorf("y = %d, want clamped to 0", y)
	}
}

func TestOverIsTerminalUntilStart(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	s.Start()
	for s.Running() {
		s.Tick()
	}
	frozen := s.Snapshot()

	if s.Jump() || s.Pause() || s.Resume() {
		t.Error("commands other than start must be ignored when over")
	}
	res := s.Tick()
	if res.State != StateOver {
		t.Errorf("tick changed state to %v", res.State)
	}
	if !reflect.DeepEqual(frozen, s.Snapshot()) {
		t.Error("entities moved after game over")
	}

	if !s.Start() {
		t.Fatal("restart from over rejected")
	}
	snap := s.Snapshot()
	if snap.State != StateRunning || snap.Tick != 0 || snap.Score != 0 {
		t.Errorf("restart snapshot = %+v", snap)
	}
	if snap.CharacterY != 300 || snap.Velocity != 0 {
		t.Errorf("character not respawned: y=%d v=%d", snap.CharacterY, snap.Velocity)
	}
	if snap.Obstacles[0].X != 1000 {
		t.Errorf("pool not respawned: obstacle 0 at %d", snap.Obstacles[0].X)
	}
}

func TestPausePreservesState(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 3)
	s.Start()
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	if !s.Pause() {
		t.Fatal("pause rejected")
	}
	before := s.Snapshot()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.Jump() {
		t.Error("jump accepted while paused")
	}
	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("paused state changed:\nbefore %+v\nafter  %+v", before, after)
	}

	if !s.TogglePause() {
		t.Fatal("toggle from paused rejected")
	}
	s.Tick()
	if s.Ticks() != 6 {
		t.Errorf("ticks = %d after resume, want 6", s.Ticks())
	}
}

func TestPipeCollision(t *testing.T) {
	// The hovering character spans x 100..175 and y 300..375. A pipe placed
	// at x=200 first overlaps it on tick 4 (x=172).
	tests := []struct {
		name      string
		slot      int
		gapTop    int
		wantCause CollisionCause
	}{
		{"top half", trackingIndex, 500, CauseTopObstacle},
		{"bottom half", trackingIndex, 100, CauseBottomObstacle},
		{"non-tracking slot is ignored", 1, 500, CauseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSim(t, hoverConfig(), 3)
			s.Start()

			if tt.slot != trackingIndex {
				s.obstacles[trackingIndex].x = 3000
			}
			blocker := s.obstacles[tt.slot]
			blocker.x = 200
			blocker.gapTop = tt.gapTop
			blocker.gapHeight = 100

			var collision *Event
			for i := 0; i < 60 && s.Running(); i++ {
				for _, e := range s.Tick().Events {
					if e.Kind == EventCollision {
						collision = &e
					}
				}
			}

			if tt.wantCause == CauseNone {
				if collision != nil || s.State() != StateRunning {
					t.Fatalf("run ended on a non-tracking pipe: %+v", collision)
				}
				return
			}
			if collision == nil {
				t.Fatalf("no collision, state = %v", s.State())
			}
			if collision.Cause != tt.wantCause || collision.Tick != 4 {
				t.Errorf("collision = %v at tick %d, want %v at tick 4", collision.Cause, collision.Tick, tt.wantCause)
			}
			if s.State() != StateOver {
				t.Errorf("state = %v, want over", s.State())
			}
		})
	}
}

func TestScoreOncePerPass(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 5)
	var points []Event
	var recycles []Event
	s.Subscribe(func(e Event) {
		switch e.Kind {
		case EventPointScored:
			points = append(points, e)
		case EventObstacleRecycled:
			recycles = append(recycles, e)
		}
	})
	s.Start()

	// Put the tracking obstacle just ahead of the character with a gap
	// the falling character stays inside.
	tracking := s.obstacles[0]
	tracking.x = 180
	tracking.gapTop = 250

	for i := 0; i < 22; i++ {
		s.Tick()
	}
	if len(points) != 0 {
		t.Fatalf("scored before the trailing edge passed: %+v", points)
	}

	s.Tick()
	if len(points) != 1 || points[0].Tick != 23 || points[0].Score != 1 {
		t.Fatalf("points after tick 23 = %+v, want one point at tick 23", points)
	}

	for s.Ticks() < 36 {
		s.Tick()
	}
	if len(points) != 1 {
		t.Fatalf("scored %d times for one pass", len(points))
	}
	if !s.hasPassed {
		t.Fatal("pass flag cleared before the obstacle left the screen")
	}

	// Tick 37 moves the trailing edge below zero and recycles the slot.
	s.Tick()
	if s.hasPassed {
		t.Error("pass flag not re-armed after the obstacle left")
	}
	if len(recycles) != 1 || recycles[0].Obstacle != 0 {
		t.Fatalf("recycles = %+v, want slot 0 once", recycles)
	}
	// Slots 1 and 2 have moved 36 times when slot 0 is recycled.
	if recycles[0].NewX != 1800-36*7+400 {
		t.Errorf("recycled to x=%d, want %d", recycles[0].NewX, 1800-36*7+400)
	}
	if s.State() != StateRunning {
		t.Errorf("state = %v, want running", s.State())
	}
}

func TestPoolStableOverLongRun(t *testing.T) {
	cfg := hoverConfig()
	s := newTestSim(t, cfg, 9)

	var kinds []Event
	s.Subscribe(func(e Event) {
		if e.Kind == EventPointScored || (e.Kind == EventObstacleRecycled && e.Obstacle == 0) {
			kinds = append(kinds, e)
		}
	})
	s.Start()

	pool := append([]*Obstacle(nil), s.obstacles...)
	for i := 0; i < 2000; i++ {
		s.Tick()
		if !s.Running() {
			t.Fatalf("run ended at tick %d", s.Ticks())
		}
	}

	if len(s.obstacles) != len(pool) {
		t.Fatalf("pool size changed to %d", len(s.obstacles))
	}
	for i := range pool {
		if s.obstacles[i] != pool[i] {
			t.Errorf("obstacle %d was reallocated", i)
		}
	}

	if s.Score() == 0 {
		t.Fatal("expected points over a long hover run")
	}
	// Points and tracking recycles alternate: one score per cycle.
	for i := 1; i < len(kinds); i++ {
		if kinds[i].Kind == EventPointScored && kinds[i-1].Kind == EventPointScored {
			t.Fatalf("two points without a recycle in between at tick %d", kinds[i].Tick)
		}
	}
}

func TestRecycledGapInRange(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	rng := rand.New(rand.NewSource(42))
	o := NewObstacle(cfg.World.Width, cfg.World, cfg.Obstacles, cfg.Physics.ObstacleSpeed, rng)

	lo := cfg.Obstacles.MinMargin
	hi := cfg.World.Height - cfg.Obstacles.Gap - cfg.Obstacles.MinMargin
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		o.ResetPosition(500)
		if o.GapTop() < lo || o.GapTop() >= hi {
			t.Fatalf("gapTop %d outside [%d,%d)", o.GapTop(), lo, hi)
		}
		if o.GapBottom() > cfg.World.Height-cfg.Obstacles.MinMargin {
			t.Fatalf("gap bottom %d inside bottom margin", o.GapBottom())
		}
		seen[o.GapTop()] = true
	}
	if len(seen) < 100 {
		t.Errorf("only %d distinct gaps in 1000 draws", len(seen))
	}
}

func TestGapRangeExcludesUpperBound(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	// One pixel of slack: the range [margin, margin+1) holds a single value.
	cfg.World.Height = cfg.Obstacles.Gap + 2*cfg.Obstacles.MinMargin + 1
	rng := rand.New(rand.NewSource(7))
	o := NewObstacle(cfg.World.Width, cfg.World, cfg.Obstacles, cfg.Physics.ObstacleSpeed, rng)

	for i := 0; i < 100; i++ {
		o.ResetPosition(500)
		if o.GapTop() != cfg.Obstacles.MinMargin {
			t.Fatalf("gapTop = %d, want %d", o.GapTop(), cfg.Obstacles.MinMargin)
		}
	}
}

func TestDegenerateScreenClampsGap(t *testing.T) {
	cfg := hoverConfig()
	cfg.World.Height = 500
	cfg.Obstacles.Gap = 425
	cfg.Character.Y = 150
	cfg.Character.Height = 20

	s := newTestSim(t, cfg, 1)
	s.Start()
	for i := 0; i < 600 && s.Running(); i++ {
		s.Tick()
	}
	for _, o := range s.Snapshot().Obstacles {
		if o.GapTop != cfg.Obstacles.MinMargin {
			t.Errorf("obstacle %d gapTop = %d, want clamped to %d", o.Index, o.GapTop, cfg.Obstacles.MinMargin)
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() []Snapshot {
		s := newTestSim(t, config.DefaultFlappyConfig(), 12345)
		s.Start()
		var snaps []Snapshot
		for i := 0; i < 500 && s.Running(); i++ {
			if i%9 == 0 {
				s.Jump()
			}
			s.Tick()
			snaps = append(snaps, s.Snapshot())
		}
		return snaps
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed and inputs produced different runs")
	}
}

func TestRunSeedsDifferPerRun(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 7)
	s.Start()
	first := s.RunSeed()
	for s.Running() {
		s.Tick()
	}
	s.Start()
	if s.RunSeed() == first {
		t.Error("restart reused the previous run seed")
	}
}

func TestEventsDelivered(t *testing.T) {
	s := newTestSim(t, config.DefaultFlappyConfig(), 1)
	var handled []EventKind
	s.Subscribe(func(e Event) { handled = append(handled, e.Kind) })

	s.Start()
	s.Jump()
	res := s.Tick()

	if len(res.Events) != 2 || res.Events[0].Kind != EventRunStarted || res.Events[1].Kind != EventJump {
		t.Fatalf("step events = %+v, want start then jump", res.Events)
	}
	if res.Events[1].Tick != 0 {
		t.Errorf("jump tick = %d, want 0", res.Events[1].Tick)
	}
	if !reflect.DeepEqual(handled, []EventKind{EventRunStarted, EventJump}) {
		t.Errorf("handler saw %v", handled)
	}

	if res := s.Tick(); len(res.Events) != 0 {
		t.Errorf("events not drained: %+v", res.Events)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateIdle:    "idle",
		StateRunning: "running",
		StatePaused:  "paused",
		StateOver:    "over",
		State(9):     "state(9)",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(st), got, want)
		}
	}
}
