package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Character is the player-controlled body.
// It only moves vertically; horizontal scrolling is simulated by the obstacles.
type Character struct {
	x, y     int // Top-left of the hitbox; x never changes after spawn
	velocity int // Pixels per two ticks, positive = down
	width    int
	height   int
	gravity  int
	impulse  int
}

// NewCharacter creates a character at the configured spawn point with zero velocity.
func NewCharacter(cc config.CharacterConfig, pc config.PhysicsConfig) *Character {
	return &Character{
		x:       cc.X,
		y:       cc.Y,
		width:   cc.Width,
		height:  cc.Height,
		gravity: pc.Gravity,
		impulse: pc.JumpImpulse,
	}
}

// Update advances the character by one tick.
// Integration is semi-implicit with integer halving: velocity first, then
// position from the new velocity. The character cannot rise above y = 0;
// the floor is left to collision detection.
func (c *Character) Update() {
	c.velocity += c.gravity / 2
	c.y += c.velocity / 2
	if c.y < 0 {
		c.y = 0
	}
}

// Jump overrides the current velocity with the jump impulse.
func (c *Character) Jump() {
	c.velocity = c.impulse
}

// X returns the fixed horizontal position.
func (c *Character) X() int { return c.x }

// Y returns the vertical position of the top edge.
func (c *Character) Y() int { return c.y }

// Velocity returns the current vertical velocity.
func (c *Character) Velocity() int { return c.velocity }

// Rect returns the collision rectangle at the current position.
func (c *Character) Rect() core.Rect {
	return core.NewRect(c.x, c.y, c.width, c.height)
}
