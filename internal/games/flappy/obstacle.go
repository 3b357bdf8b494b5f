package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Obstacle is a pipe pair: a top and a bottom half separated by a gap.
// Obstacles are never destroyed; once off screen the simulation recycles
// them with ResetPosition.
type Obstacle struct {
	x         int // Left edge
	gapTop    int // Y where the opening starts
	gapHeight int
	width     int
	speed     int
	minMargin int
	screenW   int
	screenH   int
	rng       *rand.Rand
}

// NewObstacle creates an obstacle at startX with a random gap.
func NewObstacle(startX int, world config.WorldConfig, oc config.ObstacleConfig, speed int, rng *rand.Rand) *Obstacle {
	o := &Obstacle{
		gapHeight: oc.Gap,
		width:     oc.Width,
		speed:     speed,
		minMargin: oc.MinMargin,
		screenW:   world.Width,
		screenH:   world.Height,
		rng:       rng,
	}
	o.ResetPosition(startX)
	return o
}

// Update moves the obstacle left by its speed.
func (o *Obstacle) Update() {
	o.x -= o.speed
}

// ResetPosition moves the obstacle to newX and draws a new gap.
// The draw is uniform in [minMargin, screenH-gap-minMargin) and independent
// of the previous gap. A collapsed range is widened to 1 so small screens
// still get a valid draw.
func (o *Obstacle) ResetPosition(newX int) {
	o.x = newX
	lo := o.minMargin
	hi := o.screenH - o.gapHeight - o.minMargin
	o.gapTop = lo + o.rng.Intn(max(1, hi-lo))
}

// X returns the left (leading) edge.
func (o *Obstacle) X() int { return o.x }

// Right returns the right (trailing) edge.
func (o *Obstacle) Right() int { return o.x + o.width }

// Width returns the obstacle width.
func (o *Obstacle) Width() int { return o.width }

// GapTop returns the y-coordinate where the opening starts.
func (o *Obstacle) GapTop() int { return o.gapTop }

// GapBottom returns the y-coordinate where the opening ends.
func (o *Obstacle) GapBottom() int { return o.gapTop + o.gapHeight }

// GapHeight returns the size of the opening.
func (o *Obstacle) GapHeight() int { return o.gapHeight }

// Offscreen reports whether the trailing edge has passed x = 0.
func (o *Obstacle) Offscreen() bool {
	return o.Right() < 0
}

// Visible reports whether any part of the obstacle is on screen.
func (o *Obstacle) Visible() bool {
	return o.Right() > 0 && o.x < o.screenW
}

// TopRect returns the collision rectangle of the upper half.
func (o *Obstacle) TopRect() core.Rect {
	return core.RectFromEdges(o.x, 0, o.Right(), o.gapTop)
}

// BottomRect returns the collision rectangle of the lower half.
func (o *Obstacle) BottomRect() core.Rect {
	return core.RectFromEdges(o.x, o.GapBottom(), o.Right(), o.screenH)
}
