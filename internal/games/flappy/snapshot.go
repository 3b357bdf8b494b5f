package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// ObstacleSnapshot is a read-only copy of one pool slot.
type ObstacleSnapshot struct {
	Index     int
	X         int
	GapTop    int
	GapHeight int
	Width     int
	Top       core.Rect
	Bottom    core.Rect
	Visible   bool
	Tracking  bool // Drives scoring and pipe collision
}

// Snapshot captures everything a frontend needs to draw a frame.
// It shares no memory with the simulation.
type Snapshot struct {
	Tick          uint64
	State         State
	Score         int
	RunSeed       int64
	Scroll        int // World distance scrolled this run, for backdrops
	WorldW        int
	WorldH        int
	CharacterX    int
	CharacterY    int
	Velocity      int
	CharacterRect core.Rect
	Obstacles     []ObstacleSnapshot
}

// Snapshot returns a copy of the current session state.
// Before the first Start the character sits at its spawn point and the
// pool is empty.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.tick,
		State:   s.state,
		Score:   s.points,
		RunSeed: s.runSeed,
		Scroll:  int(s.tick) * s.cfg.Physics.ObstacleSpeed,
		WorldW:  s.cfg.World.Width,
		WorldH:  s.cfg.World.Height,
	}

	ch := s.character
	if ch == nil {
		ch = NewCharacter(s.cfg.Character, s.cfg.Physics)
	}
	snap.CharacterX = ch.X()
	snap.CharacterY = ch.Y()
	snap.Velocity = ch.Velocity()
	snap.CharacterRect = ch.Rect()

	if len(s.obstacles) > 0 {
		snap.Obstacles = make([]ObstacleSnapshot, len(s.obstacles))
		for i, o := range s.obstacles {
			snap.Obstacles[i] = ObstacleSnapshot{
				Index:     i,
				X:         o.X(),
				GapTop:    o.GapTop(),
				GapHeight: o.GapHeight(),
				Width:     o.Width(),
				Top:       o.TopRect(),
				Bottom:    o.BottomRect(),
				Visible:   o.Visible(),
				Tracking:  i == trackingIndex,
			}
		}
	}
	return snap
}
