package core

// RuntimeConfig carries the frontend-facing settings of a session.
// World geometry lives in the game config; these values describe the
// terminal or window the session is displayed in.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells (TUI) or pixels (GUI)
	ScreenH  int   // Screen height in cells (TUI) or pixels (GUI)
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means derive one from the clock
	Muted    bool  // Start with sound cues disabled
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
