package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Verify or watch a recorded run",
	Long: `Re-run a recorded run from its seed and jump tape.

By default the tape is replayed headlessly and the final score and tick
are compared with the recording. With --watch the run plays back in the
terminal at normal speed; R restarts the playback, P pauses it.

The id may be any unique prefix shown by 'flappy runs'.

Examples:
  flappy replay 3f2a9c1e
  flappy replay 3f2a --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play the run back in the terminal")
}

func runReplay(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail(fmt.Errorf("opening recordings database: %w", err))
	}

	rec, err := store.GetRun(args[0])
	store.Close()
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			fmt.Fprintln(os.Stderr, "Run 'flappy runs' to see recorded runs.")
		}
		fail(err)
	}

	if flagWatch {
		err = watchRun(rec)
	} else {
		err = verifyRun(rec)
	}
	if err != nil {
		fail(err)
	}
}

// verifyRun replays a tape headlessly and reports whether it reproduces.
func verifyRun(rec *storage.RunRecord) error {
	t := rec.Tape
	fmt.Printf("Run %s (%s, seed %d)\n", rec.ID, rec.Frontend, t.RunSeed)
	fmt.Printf("  recorded: score %d in %d ticks, %d jumps\n", t.Score, t.Ticks, len(t.Jumps))

	snap, err := flappy.Replay(t)
	if err != nil && !errors.Is(err, flappy.ErrReplayMismatch) {
		return err
	}
	fmt.Printf("  replayed: score %d in %d ticks (%s)\n", snap.Score, snap.Tick, snap.State)

	if err != nil {
		return err
	}
	fmt.Println("  OK")
	return nil
}

// watchRun plays a tape back in the terminal.
func watchRun(rec *storage.RunRecord) error {
	tape := rec.Tape
	snap, err := playTerminal(&tape)
	if err != nil {
		return err
	}
	if snap.State == flappy.StateOver && (snap.Score != tape.Score || snap.Tick != tape.Ticks) {
		return fmt.Errorf("%w: recorded score %d at tick %d, watched %d at tick %d",
			flappy.ErrReplayMismatch, tape.Score, tape.Ticks, snap.Score, snap.Tick)
	}
	return nil
}
