package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// keyBindings maps physical keys to actions.
var keyBindings = map[ebiten.Key]core.Action{
	ebiten.KeySpace:   core.ActionJump,
	ebiten.KeyArrowUp: core.ActionJump,
	ebiten.KeyW:       core.ActionJump,
	ebiten.KeyP:       core.ActionPause,
	ebiten.KeyEscape:  core.ActionPause,
	ebiten.KeyR:       core.ActionRestart,
	ebiten.KeyEnter:   core.ActionRestart,
	ebiten.KeyM:       core.ActionMute,
	ebiten.KeyQ:       core.ActionQuit,
}

// readInput collects the actions pressed since the last frame.
func readInput() core.InputFrame {
	in := core.NewInputFrame()
	for k, a := range keyBindings {
		if inpututil.IsKeyJustPressed(k) {
			in.Set(a)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Set(core.ActionJump)
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		in.Set(core.ActionJump)
	}
	return in
}

// commander is the part of the driver that input is dispatched to.
type commander interface {
	Start()
	Jump()
	TogglePause()
}

// dispatch turns one frame of input into driver commands. A jump on the
// title screen starts the first run.
func dispatch(c commander, in core.InputFrame, state flappy.State) {
	if in.Has(core.ActionRestart) || (in.Has(core.ActionJump) && state == flappy.StateIdle) {
		c.Start()
		return
	}
	if in.Has(core.ActionPause) {
		c.TogglePause()
	}
	if in.Has(core.ActionJump) && state == flappy.StateRunning {
		c.Jump()
	}
}
