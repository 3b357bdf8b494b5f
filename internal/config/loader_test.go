package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Errorf("embedded YAML differs from DefaultFlappyConfig:\n got  %+v\n want %+v", cfg, DefaultFlappyConfig())
	}
}

func TestParsePartialDocument(t *testing.T) {
	cfg, err := Parse([]byte("obstacles:\n  gap: 300\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Obstacles.Gap != 300 {
		t.Errorf("Gap = %d, expected 300", cfg.Obstacles.Gap)
	}
	if cfg.Obstacles.Spacing != 400 || cfg.Physics.Gravity != 2 {
		t.Error("unspecified keys should keep their defaults")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty pool", "obstacles:\n  count: 0\n", "obstacles.count"},
		{"zero world", "world:\n  width: 0\n", "world size"},
		{"negative speed", "physics:\n  obstacle_speed: -1\n", "obstacle_speed"},
		{"bad yaml", "world: [", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("world:\n  width: 800\n  height: 1200\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.World.Width != 800 || cfg.World.Height != 1200 {
		t.Errorf("World = %+v, expected 800x1200", cfg.World)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom path")
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flappy", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flappy.yaml"), []byte("obstacles:\n  count: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Obstacles.Count != 5 {
		t.Errorf("Count = %d, expected 5 from user config", cfg.Obstacles.Count)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != DefaultFlappyConfig() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}
}

func TestTimingInterval(t *testing.T) {
	if got := (TimingConfig{IntervalMS: 17}).Interval(); got != 17*time.Millisecond {
		t.Errorf("Interval() = %v, expected 17ms", got)
	}
	if got := (TimingConfig{}).Interval(); got != time.Second/60 {
		t.Errorf("Interval() fallback = %v, expected 1/60s", got)
	}
}

func TestDifficultyPresets(t *testing.T) {
	base := DefaultFlappyConfig()

	easy := base
	ApplyPreset(&easy, DifficultyEasy)
	if easy.Obstacles.Gap <= base.Obstacles.Gap || easy.Physics.ObstacleSpeed >= base.Physics.ObstacleSpeed {
		t.Errorf("easy should widen the gap and slow obstacles: %+v", easy)
	}

	hard := base
	ApplyPreset(&hard, DifficultyHard)
	if hard.Obstacles.Gap >= base.Obstacles.Gap || hard.Physics.ObstacleSpeed <= base.Physics.ObstacleSpeed {
		t.Errorf("hard should narrow the gap and speed obstacles up: %+v", hard)
	}

	normal := base
	ApplyPreset(&normal, DifficultyNormal)
	if normal != base {
		t.Error("normal should not change the config")
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]DifficultyPreset{"": DifficultyNormal, "easy": DifficultyEasy, "hard": DifficultyHard} {
		got, err := ParseDifficulty(in)
		if err != nil || got != want {
			t.Errorf("ParseDifficulty(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := ParseDifficulty("insane"); err == nil {
		t.Error("ParseDifficulty should reject unknown presets")
	}
}
