// Package tui provides the Bubble Tea frontend for the flappy simulation.
// It handles the terminal UI loop, input mapping, scene drawing and
// recording of finished runs.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// idleFrameInterval paces redraws while the simulation is not running.
const idleFrameInterval = 100 * time.Millisecond

// TickMsg is sent to trigger a frame. Gen identifies the tick chain that
// produced it; messages from a superseded chain are dropped.
type TickMsg struct {
	Gen int
	At  time.Time
}

// tickCmd returns a Bubble Tea command that sends one tick after interval.
// The handler re-arms it, so exactly one chain is live per generation.
func tickCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}
