package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagLimit  int
	flagBrowse bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Display the most recently recorded runs.

With --browse the runs open in an interactive table: Enter verifies the
selected run, W watches it, D deletes it.

Examples:
  flappy runs
  flappy runs --limit 5
  flappy runs --browse`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse runs interactively")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail(fmt.Errorf("opening recordings database: %w", err))
	}

	if flagBrowse {
		err = browseRuns(store)
	} else {
		err = listRuns(store)
	}
	if err != nil {
		fail(err)
	}
}

func listRuns(store *storage.Store) error {
	defer store.Close()

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Println("Recorded Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy' to record the first one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-8s  %-6s  %-7s  %-6s  %-9s  %s\n", "ID", "Score", "Ticks", "Jumps", "Via", "Date")
	fmt.Printf("  %-8s  %-6s  %-7s  %-6s  %-9s  %s\n", "--", "-----", "-----", "-----", "---", "----")

	for _, r := range runs {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-8s  %-6d  %-7d  %-6d  %-9s  %s\n", r.ID[:8], r.Score, r.Ticks, r.Jumps, r.Frontend, dateStr)
	}
	return nil
}

// browseRuns opens the interactive table and acts on the picked run.
func browseRuns(store *storage.Store) error {
	width, height := terminalSize()
	action, id, err := tui.RunRunsBrowser(store, width, height)
	if err != nil {
		store.Close()
		return err
	}
	if action == tui.RunsActionNone {
		store.Close()
		return nil
	}

	rec, err := store.GetRun(id)
	store.Close()
	if err != nil {
		return err
	}

	if action == tui.RunsActionWatch {
		return watchRun(rec)
	}
	return verifyRun(rec)
}
