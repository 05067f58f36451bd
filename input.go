package bramble

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is one frame's keyboard and mouse state.
type Input struct {
	Down         []ebiten.Key
	JustPressed  []ebiten.Key
	JustReleased []ebiten.Key
	Mods         KeyModifiers

	MouseX, MouseY float32

	Buttons             [mouseButtonCount]bool
	ButtonsJustPressed  [mouseButtonCount]bool
	ButtonsJustReleased [mouseButtonCount]bool

	WheelX, WheelY float32
}

// reset clears the snapshot, keeping slice storage.
func (in *Input) reset() {
	in.Down = in.Down[:0]
	in.JustPressed = in.JustPressed[:0]
	in.JustReleased = in.JustReleased[:0]
	in.Mods = 0
	in.Buttons = [mouseButtonCount]bool{}
	in.ButtonsJustPressed = [mouseButtonCount]bool{}
	in.ButtonsJustReleased = [mouseButtonCount]bool{}
	in.WheelX, in.WheelY = 0, 0
}

// KeyDown reports whether k is held.
func (in *Input) KeyDown(k ebiten.Key) bool { return slices.Contains(in.Down, k) }

// KeyJustPressed reports whether k went down this frame.
func (in *Input) KeyJustPressed(k ebiten.Key) bool { return slices.Contains(in.JustPressed, k) }

// KeyJustReleased reports whether k went up this frame.
func (in *Input) KeyJustReleased(k ebiten.Key) bool { return slices.Contains(in.JustReleased, k) }

// ButtonDown reports whether b is held.
func (in *Input) ButtonDown(b MouseButton) bool { return b < mouseButtonCount && in.Buttons[b] }

// ButtonJustPressed reports whether b went down this frame.
func (in *Input) ButtonJustPressed(b MouseButton) bool {
	return b < mouseButtonCount && in.ButtonsJustPressed[b]
}

// ButtonJustReleased reports whether b went up this frame.
func (in *Input) ButtonJustReleased(b MouseButton) bool {
	return b < mouseButtonCount && in.ButtonsJustReleased[b]
}

// InputSource fills an Input snapshot once per frame.
type InputSource interface {
	Sample(in *Input)
}

// EbitenInput samples keyboard and mouse state from Ebitengine.
type EbitenInput struct{}

var ebitenButtons = [mouseButtonCount]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonRight:  ebiten.MouseButtonRight,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// Sample implements InputSource.
func (EbitenInput) Sample(in *Input) {
	in.reset()
	in.Down = inpututil.AppendPressedKeys(in.Down)
	in.JustPressed = inpututil.AppendJustPressedKeys(in.JustPressed)
	in.JustReleased = inpututil.AppendJustReleasedKeys(in.JustReleased)
	in.Mods = modifiers(in.Down)

	mx, my := ebiten.CursorPosition()
	in.MouseX, in.MouseY = float32(mx), float32(my)
	for b, eb := range ebitenButtons {
		in.Buttons[b] = ebiten.IsMouseButtonPressed(eb)
		in.ButtonsJustPressed[b] = inpututil.IsMouseButtonJustPressed(eb)
		in.ButtonsJustReleased[b] = inpututil.IsMouseButtonJustReleased(eb)
	}
	wx, wy := ebiten.Wheel()
	in.WheelX, in.WheelY = float32(wx), float32(wy)
}

// modifiers derives the modifier mask from the held keys.
func modifiers(down []ebiten.Key) KeyModifiers {
	var mods KeyModifiers
	for _, k := range down {
		switch k {
		case ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
			mods |= ModShift
		case ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight:
			mods |= ModCtrl
		case ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight:
			mods |= ModAlt
		case ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
			mods |= ModMeta
		}
	}
	return mods
}
