package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

var (
	flagTicks     int
	flagJumpEvery int
	flagRealtime  bool
	flagSave      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the simulation without a frontend",
	Long: `Run a game headlessly with a fixed jump schedule and print the final state.

The run stops at the first collision or after --ticks ticks. With
--jump-every K the character jumps before every K-th tick; 0 never jumps.
With --realtime the run goes through the fixed-interval driver at the
configured tick rate instead of as fast as possible.

Examples:
  flappy simulate
  flappy simulate --ticks 5000 --jump-every 14 --seed 7
  flappy simulate --jump-every 14 --realtime --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 1000, "Maximum number of ticks")
	simulateCmd.Flags().IntVar(&flagJumpEvery, "jump-every", 0, "Jump every N ticks (0 = never)")
	simulateCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Tick at the configured rate")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run if it ends in a collision")
}

func runSimulate(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := flappy.New(cfg, seed)
	if err != nil {
		fail(err)
	}

	var tape *flappy.Tape
	rec := flappy.NewRecorder(cfg, func(t flappy.Tape) { tape = &t })

	var snap flappy.Snapshot
	if flagRealtime {
		snap, err = simulateRealtime(cmd.Context(), sim, rec, cfg, logger)
	} else {
		snap = simulateFast(sim, rec)
	}
	if err != nil {
		fail(err)
	}

	printSnapshot(snap)

	if flagSave {
		if tape == nil {
			fmt.Println()
			fmt.Println("Run did not finish; nothing recorded.")
			return
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail(fmt.Errorf("opening recordings database: %w", err))
		}
		defer store.Close()

		id, err := store.SaveRun("simulate", *tape)
		if err != nil {
			fail(fmt.Errorf("saving run: %w", err))
		}
		fmt.Println()
		fmt.Printf("Saved run %s\n", id)
	}
}

// simulateFast ticks the simulation directly, as fast as possible.
func simulateFast(sim *flappy.Simulation, rec *flappy.Recorder) flappy.Snapshot {
	sim.Subscribe(rec.Handle)
	metrics := telemetry.Default()
	ctx := context.Background()

	sim.Start()
	metrics.ObserveRun(ctx, "simulate")
	for i := 0; i < flagTicks && sim.Running(); i++ {
		if flagJumpEvery > 0 && i%flagJumpEvery == 0 {
			sim.Jump()
		}
		start := time.Now()
		res := sim.Tick()
		metrics.ObserveTick(ctx, time.Since(start))
		for _, e := range res.Events {
			metrics.ObserveEvent(ctx, e.Kind.String())
		}
	}
	return sim.Snapshot()
}

// simulateRealtime runs the simulation on a driver and issues jumps from
// this goroutine, polling the driver between ticks.
func simulateRealtime(ctx context.Context, sim *flappy.Simulation, rec *flappy.Recorder, cfg config.FlappyConfig, logger *log.Logger) (flappy.Snapshot, error) {
	interval := cfg.Timing.Interval()
	if flagFPS > 0 {
		interval = time.Second / time.Duration(flagFPS)
	}

	d := flappy.NewDriver(sim, interval,
		flappy.WithLogger(logger),
		flappy.WithMetrics(telemetry.Default()))
	d.Subscribe(rec.Handle)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- d.Run(ctx)
	}()

	d.Start()
	logger.Info("simulating", "interval", interval, "ticks", flagTicks)

	poll := time.NewTicker(max(interval/2, time.Millisecond))
	defer poll.Stop()

	var nextJump uint64
	for {
		select {
		case <-ctx.Done():
			return d.Snapshot(), ctx.Err()
		case <-poll.C:
		}

		snap := d.Snapshot()
		if snap.State == flappy.StateOver || snap.Tick >= uint64(flagTicks) {
			cancel()
			<-errc
			return d.Snapshot(), nil
		}
		if flagJumpEvery > 0 && snap.State == flappy.StateRunning && snap.Tick >= nextJump {
			d.Jump()
			nextJump = snap.Tick + uint64(flagJumpEvery)
		}
	}
}

func printSnapshot(snap flappy.Snapshot) {
	fmt.Printf("State:     %s\n", snap.State)
	fmt.Printf("Ticks:     %d\n", snap.Tick)
	fmt.Printf("Score:     %d\n", snap.Score)
	fmt.Printf("Run seed:  %d\n", snap.RunSeed)
	fmt.Printf("Character: x=%d y=%d velocity=%d\n", snap.CharacterX, snap.CharacterY, snap.Velocity)
	fmt.Println()

	fmt.Printf("  %-4s  %-6s  %-7s  %s\n", "Slot", "X", "GapTop", "GapBottom")
	fmt.Printf("  %-4s  %-6s  %-7s  %s\n", "----", "-", "------", "---------")
	for _, o := range snap.Obstacles {
		tag := ""
		if o.Tracking {
			tag = "tracking"
		}
		fmt.Printf("  %-4d  %-6d  %-7d  %-9d  %s\n", o.Index, o.X, o.GapTop, o.GapTop+o.GapHeight, tag)
	}
}
