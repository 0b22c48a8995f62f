package racer

import "github.com/vovakirdan/tui-racer/internal/core"

const defaultPointerSensitivity = 240.0

// drag remembers where a pointer gesture started.
type drag struct {
	startX    float64
	startLane float64
}

func (e *Engine) pointerSensitivity() float64 {
	if s := e.cfg.Input.PointerSensitivity; s > 0 {
		return s
	}
	return defaultPointerSensitivity
}

// PointerDown begins a drag gesture at horizontal position x.
func (e *Engine) PointerDown(x float64) {
	if !e.steerable() {
		return
	}
	e.drag = &drag{startX: x, startLane: e.state.player.Lane}
}

// PointerMove steers toward the lane under the pointer. Without a prior
// PointerDown it is ignored.
func (e *Engine) PointerMove(x float64) {
	if e.drag == nil {
		return
	}
	desired := core.ClampF(e.drag.startLane+(x-e.drag.startX)/e.pointerSensitivity(), -1, 1)
	e.SetTurn(core.ClampF((desired-e.state.player.Lane)*2, -1, 1))
}

// PointerUp ends the gesture and releases steering.
func (e *Engine) PointerUp() {
	if e.drag == nil {
		return
	}
	e.drag = nil
	e.SetTurn(0)
}

// Dragging reports whether a pointer gesture is in progress.
func (e *Engine) Dragging() bool {
	return e.drag != nil
}
