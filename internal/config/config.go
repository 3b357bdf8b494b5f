// Package config provides YAML-based configuration for the flappy simulation:
// world geometry, physics constants, obstacle pool layout and tick timing.
package config

import (
	"errors"
	"fmt"
	"time"
)

// FlappyConfig contains all tunables of a session.
// Values are fixed for the lifetime of a session.
type FlappyConfig struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Obstacles ObstacleConfig  `yaml:"obstacles"`
	Character CharacterConfig `yaml:"character"`
	Timing    TimingConfig    `yaml:"timing"`
}

// WorldConfig is the size of the simulated playfield in pixels.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig defines the per-tick integration constants.
type PhysicsConfig struct {
	Gravity       int `yaml:"gravity"`        // G; velocity grows by G/2 per tick
	JumpImpulse   int `yaml:"jump_impulse"`   // Velocity set by a jump (negative = up)
	ObstacleSpeed int `yaml:"obstacle_speed"` // Pixels obstacles move left per tick
}

// ObstacleConfig defines the obstacle pool.
type ObstacleConfig struct {
	Count     int `yaml:"count"`      // Pool size, fixed for the session
	Width     int `yaml:"width"`      // Obstacle width in pixels
	Gap       int `yaml:"gap"`        // Vertical opening between the halves
	Spacing   int `yaml:"spacing"`    // Horizontal distance between consecutive obstacles
	MinMargin int `yaml:"min_margin"` // Minimum distance between the gap and a screen edge
}

// CharacterConfig defines the character spawn point and hitbox.
type CharacterConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TimingConfig defines the tick cadence.
type TimingConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// Interval returns the tick interval, falling back to 60 Hz.
func (t TimingConfig) Interval() time.Duration {
	if t.IntervalMS <= 0 {
		return time.Second / 60
	}
	return time.Duration(t.IntervalMS) * time.Millisecond
}

// Validate checks the construction invariants the simulation relies on.
// Degenerate gap placement is not an error: the simulation clamps it.
func (c FlappyConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height))
	}
	if c.Obstacles.Count < 1 {
		errs = append(errs, fmt.Errorf("obstacles.count must be at least 1, got %d", c.Obstacles.Count))
	}
	if c.Obstacles.Width <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.width must be positive, got %d", c.Obstacles.Width))
	}
	if c.Obstacles.Gap <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.gap must be positive, got %d", c.Obstacles.Gap))
	}
	if c.Obstacles.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("obstacles.spacing must be positive, got %d", c.Obstacles.Spacing))
	}
	if c.Obstacles.MinMargin < 0 {
		errs = append(errs, fmt.Errorf("obstacles.min_margin must not be negative, got %d", c.Obstacles.MinMargin))
	}
	if c.Character.Width <= 0 || c.Character.Height <= 0 {
		errs = append(errs, fmt.Errorf("character size must be positive, got %dx%d", c.Character.Width, c.Character.Height))
	}
	if c.Physics.ObstacleSpeed <= 0 {
		errs = append(errs, fmt.Errorf("physics.obstacle_speed must be positive, got %d", c.Physics.ObstacleSpeed))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid flappy config: %w", err)
	}
	return nil
}

// DifficultyPreset is a named adjustment applied before a session starts.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty converts a flag value into a preset.
// An empty string selects normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, nil
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// ApplyPreset adjusts gap size and obstacle speed for the preset.
// Normal leaves the config untouched.
func ApplyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.Gap += cfg.Obstacles.Gap / 6
		cfg.Physics.ObstacleSpeed = max(cfg.Physics.ObstacleSpeed-1, 1)
	case DifficultyHard:
		cfg.Obstacles.Gap -= cfg.Obstacles.Gap / 6
		cfg.Physics.ObstacleSpeed += 2
	}
}
