package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// drain streams s to the end and returns the sample count and peak.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			for _, v := range buf[j] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("sample %d is %v", total+j, v)
				}
				peak = math.Max(peak, math.Abs(v))
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never ended")
	return 0, 0
}

func TestCueStreamersAreFinite(t *testing.T) {
	rate := beep.SampleRate(44100)
	tests := []struct {
		cue     Cue
		maxSecs float64
	}{
		{CueJump, 0.1},
		{CuePoint, 0.25},
		{CueCollision, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			s := Streamer(tt.cue, rate)
			if s == nil {
				t.Fatal("nil streamer")
			}
			n, peak := drain(t, s)
			if n == 0 {
				t.Fatal("cue produced no samples")
			}
			if limit := int(tt.maxSecs * float64(rate)); n > limit {
				t.Errorf("cue lasts %d samples, want at most %d", n, limit)
			}
			if peak == 0 || peak > 1 {
				t.Errorf("peak amplitude %f outside (0, 1]", peak)
			}
			if err := s.Err(); err != nil {
				t.Errorf("Err() = %v", err)
			}
		})
	}
}

func TestStreamerNone(t *testing.T) {
	if s := Streamer(CueNone, 44100); s != nil {
		t.Error("CueNone should have no streamer")
	}
}

func TestCueFor(t *testing.T) {
	tests := map[flappy.EventKind]Cue{
		flappy.EventRunStarted:       CueNone,
		flappy.EventJump:             CueJump,
		flappy.EventPointScored:      CuePoint,
		flappy.EventObstacleRecycled: CueNone,
		flappy.EventCollision:        CueCollision,
	}
	for kind, want := range tests {
		if got := CueFor(kind); got != want {
			t.Errorf("CueFor(%v) = %v, want %v", kind, got, want)
		}
	}
}

func TestPlayerWithoutDevice(t *testing.T) {
	p := NewPlayer(false)

	if p.Available() {
		t.Fatal("player should not be available before Initialize")
	}
	if p.Play(CueJump) {
		t.Error("Play should be a no-op without a device")
	}
	p.Handle(flappy.Event{Kind: flappy.EventCollision})
	p.Cleanup()
}

func TestPlayerMute(t *testing.T) {
	p := NewPlayer(true)
	if !p.Muted() {
		t.Fatal("expected muted player")
	}
	if p.ToggleMuted() {
		t.Error("toggle should unmute")
	}
	p.SetMuted(true)
	if !p.Muted() {
		t.Error("SetMuted(true) had no effect")
	}
}
