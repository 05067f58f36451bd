package bramble

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

type syntheticKind uint8

const (
	syntheticKey syntheticKind = iota
	syntheticButton
	syntheticMove
)

// syntheticEvent is a single injected input event.
type syntheticEvent struct {
	kind    syntheticKind
	key     ebiten.Key
	button  MouseButton
	x, y    float32
	pressed bool
}

// Injector overlays synthetic events on another InputSource. One queued
// event is applied per frame. Synthetic keys and buttons stay held until
// their release event, and the last injected cursor position sticks.
type Injector struct {
	src   InputSource
	queue []syntheticEvent

	heldKeys    []ebiten.Key
	heldButtons [mouseButtonCount]bool
	cursorSet   bool
	cursorX     float32
	cursorY     float32
}

// NewInjector wraps src. A nil src yields an otherwise idle input.
func NewInjector(src InputSource) *Injector {
	return &Injector{src: src}
}

// Pending returns the number of queued events.
func (j *Injector) Pending() int { return len(j.queue) }

// InjectKey queues a press and release of k. Consumes two frames.
func (j *Injector) InjectKey(k ebiten.Key) {
	j.InjectKeyPress(k)
	j.InjectKeyRelease(k)
}

// InjectKeyPress queues a key press.
func (j *Injector) InjectKeyPress(k ebiten.Key) {
	j.queue = append(j.queue, syntheticEvent{kind: syntheticKey, key: k, pressed: true})
}

// InjectKeyRelease queues a key release.
func (j *Injector) InjectKeyRelease(k ebiten.Key) {
	j.queue = append(j.queue, syntheticEvent{kind: syntheticKey, key: k})
}

// InjectMove queues a cursor move.
func (j *Injector) InjectMove(x, y float32) {
	j.queue = append(j.queue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectPress queues a button press at (x, y).
func (j *Injector) InjectPress(x, y float32, b MouseButton) {
	j.queue = append(j.queue, syntheticEvent{kind: syntheticButton, button: b, x: x, y: y, pressed: true})
}

// InjectRelease queues a button release at (x, y).
func (j *Injector) InjectRelease(x, y float32, b MouseButton) {
	j.queue = append(j.queue, syntheticEvent{kind: syntheticButton, button: b, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two frames.
func (j *Injector) InjectClick(x, y float32, b MouseButton) {
	j.InjectPress(x, y, b)
	j.InjectRelease(x, y, b)
}

// Sample implements InputSource.
func (j *Injector) Sample(in *Input) {
	if j.src != nil {
		j.src.Sample(in)
	} else {
		in.reset()
	}

	if len(j.queue) > 0 {
		ev := j.queue[0]
		copy(j.queue, j.queue[1:])
		j.queue = j.queue[:len(j.queue)-1]
		j.apply(ev, in)
	}

	for _, k := range j.heldKeys {
		if !in.KeyDown(k) {
			in.Down = append(in.Down, k)
		}
	}
	for b, held := range j.heldButtons {
		in.Buttons[b] = in.Buttons[b] || held
	}
	if j.cursorSet {
		in.MouseX, in.MouseY = j.cursorX, j.cursorY
	}
	in.Mods |= modifiers(j.heldKeys)
}

func (j *Injector) apply(ev syntheticEvent, in *Input) {
	switch ev.kind {
	case syntheticKey:
		i := slices.Index(j.heldKeys, ev.key)
		switch {
		case ev.pressed && i < 0:
			j.heldKeys = append(j.heldKeys, ev.key)
			in.JustPressed = append(in.JustPressed, ev.key)
		case !ev.pressed && i >= 0:
			j.heldKeys = slices.Delete(j.heldKeys, i, i+1)
			in.JustReleased = append(in.JustReleased, ev.key)
			in.Down = slices.DeleteFunc(in.Down, func(k ebiten.Key) bool { return k == ev.key })
		}
	case syntheticButton:
		j.cursorSet, j.cursorX, j.cursorY = true, ev.x, ev.y
		if ev.button >= mouseButtonCount {
			return
		}
		if ev.pressed && !j.heldButtons[ev.button] {
			in.ButtonsJustPressed[ev.button] = true
		}
		if !ev.pressed && j.heldButtons[ev.button] {
			in.ButtonsJustReleased[ev.button] = true
			in.Buttons[ev.button] = false
		}
		j.heldButtons[ev.button] = ev.pressed
	case syntheticMove:
		j.cursorSet, j.cursorX, j.cursorY = true, ev.x, ev.y
	}
}
