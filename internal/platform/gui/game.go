// Package gui is the desktop frontend. It draws the world with ebiten and
// runs the simulation on a flappy.Driver, so ticks keep their fixed
// cadence regardless of the display refresh rate.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/audio"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

const (
	windowTitle = "flappy"
	textScale   = 4  // Overlay pixels per font pixel
	lineHeight  = 16 // Font pixels
)

// Options configures a desktop session.
type Options struct {
	Config  config.FlappyConfig
	Runtime core.RuntimeConfig // ScreenW/ScreenH are the window size in pixels
	Store   *storage.Store     // nil disables recording
	Player  *audio.Player      // nil disables sound
	Logger  *log.Logger
	Metrics *telemetry.Metrics
}

// Game implements ebiten.Game on top of a driver.
type Game struct {
	driver   *flappy.Driver
	opts     Options
	snap     flappy.Snapshot
	finished chan flappy.Tape
	overlay  *ebiten.Image
	frame    uint64
	notice   string
}

// NewGame creates a desktop session. The driver is not started.
func NewGame(opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := flappy.New(opts.Config, seed)
	if err != nil {
		return nil, fmt.Errorf("gui: %w", err)
	}

	interval := opts.Config.Timing.Interval()
	if opts.Runtime.TickRate > 0 {
		interval = time.Second / time.Duration(opts.Runtime.TickRate)
	}

	g := &Game{
		driver: flappy.NewDriver(sim, interval,
			flappy.WithLogger(opts.Logger),
			flappy.WithMetrics(opts.Metrics)),
		opts:     opts,
		finished: make(chan flappy.Tape, 1),
	}

	// Handlers run on the driver goroutine; finished tapes are handed to
	// Update, which owns the notice and the store.
	rec := flappy.NewRecorder(opts.Config, func(t flappy.Tape) {
		select {
		case g.finished <- t:
		default:
		}
	})
	g.driver.Subscribe(rec.Handle)
	if opts.Player != nil {
		g.driver.Subscribe(opts.Player.Handle)
	}

	g.snap = g.driver.Snapshot()
	return g, nil
}

// Update reads input, forwards it to the driver and refreshes the snapshot.
func (g *Game) Update() error {
	in := readInput()
	if in.Has(core.ActionQuit) {
		return ebiten.Termination
	}
	g.handle(in)
	return nil
}

func (g *Game) handle(in core.InputFrame) {
	if in.Has(core.ActionMute) && g.opts.Player != nil {
		muted := g.opts.Player.ToggleMuted()
		g.opts.Logger.Debug("sound toggled", "muted", muted)
	}
	dispatch(g.driver, in, g.snap.State)

	g.collect()
	g.snap = g.driver.Snapshot()
	if g.snap.State == flappy.StateRunning {
		g.notice = ""
	}
	g.frame++
}

// collect saves a finished run, if the driver reported one.
func (g *Game) collect() {
	select {
	case tape := <-g.finished:
		g.save(tape)
	default:
	}
}

func (g *Game) save(tape flappy.Tape) {
	if g.opts.Store == nil {
		return
	}
	id, err := g.opts.Store.SaveRun("gui", tape)
	if err != nil {
		g.opts.Logger.Warn("recording not saved", "err", err)
		g.notice = "recording not saved"
		return
	}
	g.opts.Logger.Debug("run saved", "id", id)
	g.notice = "saved run " + id[:8]
}

func (g *Game) muted() bool {
	return g.opts.Player == nil || g.opts.Player.Muted()
}

// Draw renders the last snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	for _, s := range sceneShapes(g.snap, g.frame) {
		fillRect(screen, s.rect, s.color)
	}

	if g.overlay == nil {
		g.overlay = ebiten.NewImage(g.snap.WorldW/textScale, g.snap.WorldH/textScale)
	}
	g.overlay.Clear()

	for i, line := range hudLines(g.snap, g.muted()) {
		text.Draw(g.overlay, line, basicfont.Face7x13, 6, lineHeight*(i+1), textColor)
	}

	if lines := dialogLines(g.snap, g.notice); lines != nil {
		w, h := g.overlay.Bounds().Dx(), g.overlay.Bounds().Dy()
		boxH := lineHeight*len(lines) + lineHeight
		top := (h - boxH) / 2
		vector.DrawFilledRect(g.overlay, 8, float32(top), float32(w-16), float32(boxH), dimColor, false)
		for i, line := range lines {
			x := (w - len(line)*basicfont.Face7x13.Advance) / 2
			text.Draw(g.overlay, line, basicfont.Face7x13, x, top+lineHeight*(i+1), textColor)
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	screen.DrawImage(g.overlay, op)
}

// Layout keeps the logical screen in world units; ebiten scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.snap.WorldW, g.snap.WorldH
}

// Snapshot returns the last state seen by Update.
func (g *Game) Snapshot() flappy.Snapshot {
	return g.snap
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, opts Options) (flappy.Snapshot, error) {
	g, err := NewGame(opts)
	if err != nil {
		return flappy.Snapshot{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- g.driver.Run(ctx)
	}()

	w, h := opts.Runtime.ScreenW, opts.Runtime.ScreenH
	if w <= 0 || h <= 0 {
		w, h = opts.Config.World.Width/2, opts.Config.World.Height/2
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(g)

	cancel()
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return g.snap, err
	}
	// A run that ended just before the window closed still gets saved.
	g.collect()
	return g.snap, runErr
}

func fillRect(dst *ebiten.Image, r core.Rect, c color.Color) {
	if r.Empty() {
		return
	}
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}
