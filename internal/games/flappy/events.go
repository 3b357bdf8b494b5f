package flappy

import "fmt"

// EventKind identifies what happened during a tick or command.
type EventKind int

const (
	// EventRunStarted fires when Start creates a fresh run.
	EventRunStarted EventKind = iota
	// EventJump is the sound intent emitted by an accepted jump.
	EventJump
	// EventPointScored fires once per passed obstacle.
	EventPointScored
	// EventObstacleRecycled fires when an obstacle wraps to the end of the pool.
	// It is cosmetic only.
	EventObstacleRecycled
	// EventCollision is terminal: the run is over.
	EventCollision
)

// String returns a lowercase name suitable for logs and metric attributes.
func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "start"
	case EventJump:
		return "jump"
	case EventPointScored:
		return "point"
	case EventObstacleRecycled:
		return "recycle"
	case EventCollision:
		return "collision"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// CollisionCause tells what the character hit.
type CollisionCause int

const (
	CauseNone CollisionCause = iota
	CauseTopObstacle
	CauseBottomObstacle
	CauseCeiling
	CauseFloor
)

// String returns a human-readable cause.
func (c CollisionCause) String() string {
	switch c {
	case CauseTopObstacle:
		return "top pipe"
	case CauseBottomObstacle:
		return "bottom pipe"
	case CauseCeiling:
		return "ceiling"
	case CauseFloor:
		return "floor"
	default:
		return "none"
	}
}

// Event is a notification for the presentation layer.
type Event struct {
	Kind     EventKind
	Tick     uint64         // Completed ticks when the event was emitted
	Score    int            // Score after the event; final score for collisions
	Obstacle int            // Pool index for recycle events
	NewX     int            // Recycle target
	Cause    CollisionCause // Set for collisions
	Seed     int64          // Run seed for start events
}

// EventHandler receives events synchronously from the simulation.
// Handlers must not call back into the simulation.
type EventHandler func(Event)
