package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Space/Up/W  - Flap (also starts the first run)
  P/Esc       - Pause or resume
  R/Enter     - New game
  M           - Toggle sound
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Wider gaps, slower pipes
  normal - Default geometry
  hard   - Narrower gaps, faster pipes

Finished runs are recorded and can be replayed with 'flappy replay'.

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --seed 42 --mute
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	if _, err := playTerminal(nil); err != nil {
		fail(err)
	}
}

// playTerminal runs the terminal frontend, either as a game or, when tape
// is set, as a replay of a recorded run.
func playTerminal(tape *flappy.Tape) (flappy.Snapshot, error) {
	w, closeLog := openLogFile()
	defer closeLog()

	logger, err := newLogger(w)
	if err != nil {
		return flappy.Snapshot{}, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return flappy.Snapshot{}, err
	}

	width, height := terminalSize()
	opts := tui.Options{
		Config:  cfg,
		Runtime: runtimeConfig(width, height),
		Logger:  logger,
		Metrics: telemetry.Default(),
		Replay:  tape,
	}

	if tape == nil {
		opts.Store = openStore(logger)
		if opts.Store != nil {
			defer opts.Store.Close()
		}
	}

	player := openPlayer(logger)
	defer player.Cleanup()
	opts.Player = player

	snap, err := tui.Run(opts)
	if err != nil {
		return snap, err
	}
	logger.Debug("session closed", "state", snap.State, "score", snap.Score)
	return snap, nil
}
