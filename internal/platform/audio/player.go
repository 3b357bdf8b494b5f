package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

const sampleRate = beep.SampleRate(44100)

// Player mixes cues onto the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewPlayer creates a player. Nothing is audible until Initialize succeeds.
func NewPlayer(muted bool) *Player {
	return &Player{
		mixer: &beep.Mixer{},
		muted: muted,
	}
}

// Initialize opens the output device. A failure is not fatal: the player
// stays silent and every Play call becomes a no-op.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup stops all cues and closes the device.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	p.mixer.Clear()
	p.initialized = false
}

// Play queues a cue. It is ignored while muted or without a device.
func (p *Player) Play(c Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return false
	}
	s := Streamer(c, sampleRate)
	if s == nil {
		return false
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return true
}

// Handle is a flappy.EventHandler that turns sound intents into cues.
func (p *Player) Handle(e flappy.Event) {
	if c := CueFor(e.Kind); c != CueNone {
		p.Play(c)
	}
}

// SetMuted mutes or unmutes future cues.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// ToggleMuted flips the mute flag and returns the new value.
func (p *Player) ToggleMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Muted reports whether cues are muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Available reports whether an output device was opened.
func (p *Player) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// CueFor maps a simulation event to its cue.
func CueFor(k flappy.EventKind) Cue {
	switch k {
	case flappy.EventJump:
		return CueJump
	case flappy.EventPointScored:
		return CuePoint
	case flappy.EventCollision:
		return CueCollision
	default:
		return CueNone
	}
}
