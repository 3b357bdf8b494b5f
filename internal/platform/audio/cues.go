// Package audio plays short synthesized cues for simulation events.
// Audio is optional: when no output device is available the player stays
// silent and the game runs unchanged.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Cue is one sound effect.
type Cue int

const (
	CueNone Cue = iota
	CueJump
	CuePoint
	CueCollision
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CuePoint:
		return "point"
	case CueCollision:
		return "collision"
	default:
		return "none"
	}
}

const (
	jumpDuration      = 90 * time.Millisecond
	pointNoteDuration = 80 * time.Millisecond
	collisionDuration = 350 * time.Millisecond
)

// Streamer builds a fresh, finite streamer for the cue.
// It returns nil for CueNone.
func Streamer(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueJump:
		return volume(newDecay(newSweep(420, 780, jumpDuration, rate), 18, rate), 0.35)
	case CuePoint:
		return volume(beep.Seq(
			tone(988, pointNoteDuration, rate),
			tone(1319, 2*pointNoteDuration, rate),
		), 0.3)
	case CueCollision:
		return volume(newDecay(newBuzz(70, collisionDuration, rate), 6, rate), 0.45)
	default:
		return nil
	}
}

// tone is a decaying sine note.
func tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		// Frequency above Nyquist; fall back to the sweep oscillator.
		return newDecay(newSweep(freq, freq, d, rate), 10, rate)
	}
	return newDecay(beep.Take(rate.N(d), sine), 10, rate)
}

// sweep is a sine whose frequency glides linearly over its duration.
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	total    int
	rate     beep.SampleRate
}

func newSweep(from, to float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, total: rate.N(d), rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = v
		samples[i][1] = v

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// buzz is a square wave with a little detuned second voice.
type buzz struct {
	freq  float64
	pos   int
	total int
	rate  beep.SampleRate
}

func newBuzz(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &buzz{freq: freq, total: rate.N(d), rate: rate}
}

func (b *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.pos >= b.total {
			return i, i > 0
		}
		t := float64(b.pos) / float64(b.rate)
		v := 0.6*square(b.freq*t) + 0.4*square(b.freq*1.01*t)
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *buzz) Err() error { return nil }

func square(cycles float64) float64 {
	if cycles-math.Floor(cycles) < 0.5 {
		return 1
	}
	return -1
}

// decay applies an exponential fade to a stream.
type decay struct {
	streamer beep.Streamer
	rate     beep.SampleRate
	speed    float64
	pos      int
}

func newDecay(s beep.Streamer, speed float64, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, rate: rate, speed: speed}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(d.pos) / float64(d.rate)
		env := math.Exp(-t * d.speed)
		samples[i][0] *= env
		samples[i][1] *= env
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// volume scales linearly; zero or less is silent.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
