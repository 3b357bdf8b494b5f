package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in configuration.
// Tuning: 60 Hz ticks, G = 2, a jump of -15G,
// obstacles 75 px wide moving 7 px per tick with a 425 px gap.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Width:  1000,
			Height: 1600,
		},
		Physics: PhysicsConfig{
			Gravity:       2,
			JumpImpulse:   -30,
			ObstacleSpeed: 7,
		},
		Obstacles: ObstacleConfig{
			Count:     3,
			Width:     75,
			Gap:       425,
			Spacing:   400,
			MinMargin: 100,
		},
		Character: CharacterConfig{
			X:      100,
			Y:      300,
			Width:  75,
			Height: 75,
		},
		Timing: TimingConfig{
			IntervalMS: 17,
		},
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
