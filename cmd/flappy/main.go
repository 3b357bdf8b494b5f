// flappy is a side-scrolling reflex game for the terminal and the desktop.
//
// Usage:
//
//	flappy                   - Play in the terminal
//	flappy play              - Play in the terminal
//	flappy gui               - Play in a desktop window
//	flappy simulate          - Run the simulation headlessly
//	flappy runs              - List recorded runs
//	flappy replay <id>       - Verify or watch a recorded run
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: config timing, ~60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.flappy/flappy.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--mute                - Start with sound off
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagMute       bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - dodge the pipes in your terminal",
	Long: `Flappy is a side-scrolling reflex game. Flap through the gaps between
pipes; touching a pipe, the ceiling or the floor ends the run.

Available commands:
  play      - Play in the terminal (default)
  gui       - Play in a desktop window
  simulate  - Run the simulation without a frontend
  runs      - List recorded runs
  replay    - Verify or watch a recorded run

Examples:
  flappy
  flappy play --difficulty hard
  flappy gui --mute
  flappy simulate --ticks 2000 --jump-every 14
  flappy runs --browse
  flappy replay 3f2a9c1e --watch`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config timing)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/flappy.db", "Path to recordings database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Start with sound cues disabled")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
}
