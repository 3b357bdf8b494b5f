package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/gui"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

var (
	flagWidth  int
	flagHeight int
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Play in a desktop window",
	Long: `Open a desktop window and play with the mouse or keyboard.

Controls:
  Click/Space/Up  - Flap (also starts the first run)
  P/Esc           - Pause or resume
  R/Enter         - New game
  M               - Toggle sound
  Q               - Quit

The window shows the whole world scaled to fit; resize it freely.

Examples:
  flappy gui
  flappy gui --width 400 --height 640
  flappy gui --difficulty easy`,
	Args: cobra.NoArgs,
	Run:  runGUI,
}

func init() {
	guiCmd.Flags().IntVar(&flagWidth, "width", 0, "Window width in pixels (0 = half the world)")
	guiCmd.Flags().IntVar(&flagHeight, "height", 0, "Window height in pixels (0 = half the world)")
}

func runGUI(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	player := openPlayer(logger)
	defer player.Cleanup()

	snap, err := gui.Run(cmd.Context(), gui.Options{
		Config:  cfg,
		Runtime: runtimeConfig(flagWidth, flagHeight),
		Store:   store,
		Player:  player,
		Logger:  logger,
		Metrics: telemetry.Default(),
	})
	if err != nil {
		logger.Error("window closed with an error", "err", err)
		fail(err)
	}
	logger.Info("window closed", "state", snap.State, "score", snap.Score)
}
