package gui

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// Palette
var (
	skyColor      = color.RGBA{R: 18, G: 24, B: 48, A: 255}
	starColor     = color.RGBA{R: 90, G: 100, B: 140, A: 255}
	groundColor   = color.RGBA{R: 60, G: 44, B: 30, A: 255}
	pipeColor     = color.RGBA{R: 40, G: 150, B: 60, A: 255}
	trackingColor = color.RGBA{R: 90, G: 220, B: 100, A: 255}
	capColor      = color.RGBA{R: 30, G: 110, B: 45, A: 255}
	bodyColor     = color.RGBA{R: 250, G: 210, B: 60, A: 255}
	deadColor     = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	beakColor     = color.RGBA{R: 250, G: 130, B: 40, A: 255}
	dimColor      = color.RGBA{A: 150}
	textColor     = color.White
)

const (
	capHeight   = 30
	capOverhang = 8
	groundH     = 12
	starSpacing = 160
	bobPixels   = 12
)

// shape is a filled rectangle in world coordinates.
type shape struct {
	rect  core.Rect
	color color.Color
}

// sceneShapes lays out one frame back to front.
func sceneShapes(snap flappy.Snapshot, frame uint64) []shape {
	shapes := make([]shape, 0, 32)
	shapes = append(shapes, shape{core.Rect{W: snap.WorldW, H: snap.WorldH}, skyColor})

	// Stars drift at half speed.
	drift := snap.Scroll / 2
	for x := -(drift % starSpacing); x < snap.WorldW; x += starSpacing {
		column := (x + drift) / starSpacing
		y := 80 + (column*397)%max(snap.WorldH/2, 1)
		shapes = append(shapes, shape{core.Rect{X: x, Y: y, W: 4, H: 4}, starColor})
	}
	shapes = append(shapes, shape{core.Rect{Y: snap.WorldH - groundH, W: snap.WorldW, H: groundH}, groundColor})

	for _, o := range snap.Obstacles {
		if !o.Visible {
			continue
		}
		fill := pipeColor
		if o.Tracking {
			fill = trackingColor
		}
		if !o.Top.Empty() {
			shapes = append(shapes, shape{o.Top, fill})
			shapes = append(shapes, shape{pipeCap(o.Top, o.Top.Bottom()-capHeight), capColor})
		}
		if !o.Bottom.Empty() {
			shapes = append(shapes, shape{o.Bottom, fill})
			shapes = append(shapes, shape{pipeCap(o.Bottom, o.Bottom.Y), capColor})
		}
	}

	body := snap.CharacterRect
	if snap.State == flappy.StateIdle {
		body = body.Translate(0, idleBob(frame))
	}
	fill := color.Color(bodyColor)
	if snap.State == flappy.StateOver {
		fill = deadColor
	}
	shapes = append(shapes, shape{body, fill})
	shapes = append(shapes, shape{core.Rect{X: body.Right(), Y: body.Y + body.H/3, W: body.W / 3, H: body.H / 4}, beakColor})

	return shapes
}

// pipeCap is a lip slightly wider than the pipe, clipped to its height.
func pipeCap(pipe core.Rect, y int) core.Rect {
	h := min(capHeight, pipe.H)
	if y < pipe.Y {
		y = pipe.Y
	}
	return core.Rect{X: pipe.X - capOverhang, Y: y, W: pipe.W + 2*capOverhang, H: h}
}

// idleBob floats the character on the title screen.
func idleBob(frame uint64) int {
	phase := int(frame/8) % 4
	switch phase {
	case 1:
		return bobPixels
	case 3:
		return -bobPixels
	default:
		return 0
	}
}

// hudLines returns the status text drawn at the top-left corner.
func hudLines(snap flappy.Snapshot, muted bool) []string {
	lines := []string{
		fmt.Sprintf("SCORE %d", snap.Score),
		fmt.Sprintf("TICK %d", snap.Tick),
	}
	if muted {
		lines = append(lines, "sound off")
	}
	return lines
}

// dialogLines returns the centered overlay for non-running states,
// or nil while a run is in progress.
func dialogLines(snap flappy.Snapshot, notice string) []string {
	switch snap.State {
	case flappy.StateIdle:
		return []string{"F L A P P Y", "", "click or space to flap"}
	case flappy.StatePaused:
		return []string{"PAUSED", "", "p to resume"}
	case flappy.StateOver:
		lines := []string{"GAME OVER", fmt.Sprintf("score %d", snap.Score)}
		if notice != "" {
			lines = append(lines, notice)
		}
		return append(lines, "", "r to play again")
	default:
		return nil
	}
}
