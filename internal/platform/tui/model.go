package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/audio"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

// Options configures a terminal session.
type Options struct {
	Config  config.FlappyConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store // nil disables recording
	Player  *audio.Player  // nil disables sound
	Logger  *log.Logger
	Metrics *telemetry.Metrics
	Replay  *flappy.Tape // Plays the tape back instead of reading jumps
}

// Model is the Bubble Tea model for the flappy game screen.
type Model struct {
	sim      *flappy.Simulation
	recorder *flappy.Recorder
	screen   *core.Screen
	keys     *KeyMapper
	help     help.Model
	input    core.InputFrame
	opts     Options
	interval time.Duration
	gen      int    // Current tick chain
	frame    uint64 // Frames drawn, for idle animation
	nextJump int    // Replay cursor into the tape
	notice   string
	quitting bool
}

// NewModel creates a Bubble Tea model for one session.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	seed := opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := opts.Config
	if opts.Replay != nil {
		cfg = opts.Replay.Config
	}
	sim, err := flappy.New(cfg, seed)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	interval := cfg.Timing.Interval()
	if opts.Runtime.TickRate > 0 {
		interval = time.Second / time.Duration(opts.Runtime.TickRate)
	}

	m := Model{
		sim:      sim,
		screen:   core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 1)),
		keys:     NewKeyMapper(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		opts:     opts,
		interval: interval,
	}
	m.help.Width = opts.Runtime.ScreenW

	if opts.Player != nil {
		sim.Subscribe(opts.Player.Handle)
	}
	if opts.Replay != nil {
		sim.StartWithSeed(opts.Replay.RunSeed)
	} else {
		m.recorder = flappy.NewRecorder(cfg, nil)
		sim.Subscribe(m.recorder.Handle)
	}
	return m, nil
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.gen, m.frameInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// frameInterval is the simulation interval while running and the slower
// animation interval otherwise.
func (m Model) frameInterval() time.Duration {
	if m.sim.Running() {
		return m.interval
	}
	return idleFrameInterval
}

// handleKey queues the action for the next tick. Outside Running there is
// no tick to wait for, so the input is applied at once and the frame clock
// restarts at the right cadence.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionMute:
		m.toggleMute()
		return m, nil
	case core.ActionNone:
		return m, nil
	default:
		m.input.Set(action)
	}

	if m.sim.Running() {
		return m, nil
	}

	m.applyInput()
	if m.sim.Running() {
		m.gen++
		return m, tickCmd(m.gen, m.interval)
	}
	return m, nil
}

// handleResize keeps the run going; only the projection changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick applies queued input and advances the simulation one step.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.frame++

	if m.sim.Running() {
		m.applyInput()
	}
	if m.sim.Running() {
		m.step()
	}

	return m, tickCmd(m.gen, m.frameInterval())
}

// applyInput turns the accumulated frame into simulation commands.
func (m *Model) applyInput() {
	in := m.input
	m.input.Clear()

	if m.opts.Replay != nil {
		if in.Has(core.ActionRestart) {
			m.sim.StartWithSeed(m.opts.Replay.RunSeed)
			m.nextJump = 0
			m.notice = ""
		} else if in.Has(core.ActionPause) {
			m.sim.TogglePause()
		}
		return
	}

	state := m.sim.State()
	if in.Has(core.ActionRestart) || (in.Has(core.ActionJump) && state == flappy.StateIdle) {
		if m.sim.Start() {
			m.notice = ""
			m.opts.Metrics.ObserveRun(context.Background(), "tui")
			m.opts.Logger.Debug("run started", "seed", m.sim.RunSeed())
			return
		}
	}
	if in.Has(core.ActionPause) {
		m.sim.TogglePause()
	}
	if in.Has(core.ActionJump) {
		m.sim.Jump()
	}
}

func (m *Model) step() {
	if tape := m.opts.Replay; tape != nil {
		for m.nextJump < len(tape.Jumps) && tape.Jumps[m.nextJump] <= m.sim.Ticks() {
			m.sim.Jump()
			m.nextJump++
		}
	}

	ctx := context.Background()
	start := time.Now()
	res := m.sim.Tick()
	m.opts.Metrics.ObserveTick(ctx, time.Since(start))

	for _, e := range res.Events {
		m.opts.Metrics.ObserveEvent(ctx, e.Kind.String())
		if e.Kind == flappy.EventCollision {
			m.finishRun(e)
		}
	}
}

// finishRun saves the tape of a regular run, or checks a replayed one.
func (m *Model) finishRun(e flappy.Event) {
	m.opts.Logger.Info("run over", "score", e.Score, "ticks", e.Tick, "cause", e.Cause)

	if tape := m.opts.Replay; tape != nil {
		if e.Score == tape.Score && e.Tick == tape.Ticks {
			m.notice = "replay matches recording"
		} else {
			m.notice = fmt.Sprintf("replay diverged: recorded %d", tape.Score)
		}
		return
	}

	if m.opts.Store == nil || m.recorder == nil {
		return
	}
	id, err := m.opts.Store.SaveRun("tui", m.recorder.Last())
	if err != nil {
		m.opts.Logger.Warn("recording not saved", "err", err)
		m.notice = "recording not saved"
		return
	}
	m.opts.Logger.Debug("run saved", "id", id)
	m.notice = "saved run " + id[:8]
}

func (m *Model) toggleMute() {
	if m.opts.Player == nil {
		return
	}
	muted := m.opts.Player.ToggleMuted()
	m.opts.Runtime.Muted = muted
	m.opts.Logger.Debug("sound toggled", "muted", muted)
}

func (m Model) muted() bool {
	if m.opts.Player == nil {
		return true
	}
	return m.opts.Player.Muted()
}

// Snapshot returns the current simulation state.
func (m Model) Snapshot() flappy.Snapshot {
	return m.sim.Snapshot()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawScene(m.screen, m.sim.Snapshot(), SceneOptions{
		Frame:  m.frame,
		Muted:  m.muted(),
		Replay: m.opts.Replay != nil,
		Notice: m.notice,
	})

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// Run starts the Bubble Tea program and returns the last snapshot.
func Run(opts Options) (flappy.Snapshot, error) {
	model, err := NewModel(opts)
	if err != nil {
		return flappy.Snapshot{}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return flappy.Snapshot{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Snapshot(), nil
	}
	return model.Snapshot(), nil
}
