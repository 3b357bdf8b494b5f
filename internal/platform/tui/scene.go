package tui

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Scene glyphs
const (
	PipeChar   = '█'
	PipeCap    = '▓'
	BodyChar   = '▓'
	BeakChar   = '>'
	StarChar   = '·'
	GroundChar = '▁'
)

// Minimum terminal size for drawing the playfield.
const (
	minSceneW = 20
	minSceneH = 8
)

// idleBob is the vertical offset of the character on the title screen,
// one entry per idle frame.
var idleBob = []int{0, 0, 1, 1, 0, 0, -1, -1}

// SceneOptions carries presentation state that is not part of the simulation.
type SceneOptions struct {
	Frame  uint64 // UI frames drawn, drives the idle animation
	Muted  bool
	Replay bool
	Notice string // Extra line for the game-over dialog
}

// DrawScene renders a snapshot into scr. The last row is the status bar;
// the rest is the world scaled to fit.
func DrawScene(scr *core.Screen, snap flappy.Snapshot, opts SceneOptions) {
	scr.Clear()

	w, h := scr.Width(), scr.Height()
	if w < minSceneW || h < minSceneH {
		scr.DrawTextCentered(h/2, "terminal too small")
		return
	}

	rows := h - 1
	vp := core.Viewport{WorldW: snap.WorldW, WorldH: snap.WorldH, CellsW: w, CellsH: rows}

	drawBackdrop(scr, vp, snap.Scroll, rows)
	for _, o := range snap.Obstacles {
		if o.Visible {
			drawObstacle(scr, vp, o)
		}
	}
	drawCharacter(scr, vp, snap, opts.Frame)

	if snap.State != flappy.StateIdle {
		score := fmt.Sprintf("%d", snap.Score)
		scr.DrawTextColored((w-len(score))/2, 1, score, core.ColorBrightYellow)
	}

	drawStatus(scr, snap, opts, rows)

	switch snap.State {
	case flappy.StateIdle:
		drawDialog(scr, core.ColorCyan,
			"F L A P P Y",
			"",
			"space  flap",
			"q      quit",
		)
	case flappy.StatePaused:
		drawDialog(scr, core.ColorYellow,
			"PAUSED",
			"",
			"p  resume",
		)
	case flappy.StateOver:
		lines := []string{
			"GAME OVER",
			fmt.Sprintf("score %d", snap.Score),
			"",
			"r  new game",
			"q  quit",
		}
		if opts.Notice != "" {
			lines = append(lines, "", opts.Notice)
		}
		drawDialog(scr, core.ColorRed, lines...)
	}
}

// drawBackdrop draws stars scrolling at half the obstacle speed and a
// ground strip scrolling at full speed. Both wrap and never collide.
func drawBackdrop(scr *core.Screen, vp core.Viewport, scroll, rows int) {
	w := scr.Width()
	far := vp.ToCellX(scroll / 2)
	near := vp.ToCellX(scroll)

	band := max(1, rows*2/3)
	for x := 0; x < w; x++ {
		h := hashColumn(x + far)
		if h%7 == 0 {
			scr.SetColored(x, int(h/7)%band, StarChar, core.ColorGray)
		}
		if (x+near)%4 != 3 {
			scr.SetColored(x, rows-1, GroundChar, core.ColorGreen)
		}
	}
}

func hashColumn(col int) uint32 {
	h := uint32(col) * 2654435761
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h
}

func drawObstacle(scr *core.Screen, vp core.Viewport, o flappy.ObstacleSnapshot) {
	color := core.ColorGreen
	if o.Tracking {
		color = core.ColorBrightGreen
	}

	top := vp.ToCells(o.Top)
	if !top.Empty() {
		scr.FillRect(top, PipeChar, color)
		scr.FillRect(core.RectFromEdges(top.X-1, top.Bottom()-1, top.Right()+1, top.Bottom()), PipeCap, color)
	}

	bottom := vp.ToCells(o.Bottom)
	if !bottom.Empty() {
		scr.FillRect(bottom, PipeChar, color)
		scr.FillRect(core.RectFromEdges(bottom.X-1, bottom.Y, bottom.Right()+1, bottom.Y+1), PipeCap, color)
	}
}

func drawCharacter(scr *core.Screen, vp core.Viewport, snap flappy.Snapshot, frame uint64) {
	r := vp.ToCells(snap.CharacterRect)
	if snap.State == flappy.StateIdle {
		r = r.Translate(0, idleBob[frame%uint64(len(idleBob))])
	}

	color := core.ColorBrightYellow
	if snap.State == flappy.StateOver {
		color = core.ColorRed
	}
	scr.FillRect(r, BodyChar, color)

	beakY := r.Y + r.H/2
	if snap.Velocity < 0 {
		beakY = r.Y
	}
	scr.SetColored(r.Right(), beakY, BeakChar, core.ColorOrange)
}

func drawStatus(scr *core.Screen, snap flappy.Snapshot, opts SceneOptions, row int) {
	w := scr.Width()
	scr.DrawHLine(0, row, w, ' ', core.ColorDefault)

	left := fmt.Sprintf(" SCORE %d  TICK %d  %s", snap.Score, snap.Tick, snap.State)
	scr.DrawTextColored(0, row, left, core.ColorWhite)

	right := ""
	if opts.Replay {
		right = "REPLAY "
	}
	if opts.Muted {
		right += "sound off "
	}
	if right != "" {
		scr.DrawTextColored(w-len([]rune(right)), row, right, core.ColorGray)
	}
}

// drawDialog draws a centered box with the given lines. The first line is
// the title and takes the box colour.
func drawDialog(scr *core.Screen, color core.Color, lines ...string) {
	inner := 0
	for _, l := range lines {
		inner = max(inner, len([]rune(l)))
	}
	boxW := inner + 6
	boxH := len(lines) + 2
	x := (scr.Width() - boxW) / 2
	y := (scr.Height() - 1 - boxH) / 2

	box := core.NewRect(x, y, boxW, boxH)
	scr.FillRect(box, ' ', core.ColorDefault)
	scr.DrawBox(box, color)

	for i, l := range lines {
		c := core.ColorWhite
		if i == 0 {
			c = color
		}
		lx := x + (boxW-len([]rune(l)))/2
		scr.DrawTextColored(lx, y+1+i, l, c)
	}
}
