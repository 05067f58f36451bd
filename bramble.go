package bramble

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at backend submission time.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorMagenta marks placeholder output for assets that failed to resolve.
var ColorMagenta = Color{1, 0, 1, 1}

// premultiplied returns c with RGB scaled by alpha, clamped to [0, 1].
func (c Color) premultiplied() Color {
	a := clamp01(c.A)
	return Color{clamp01(c.R) * a, clamp01(c.G) * a, clamp01(c.B) * a, a}
}

// RGBA implements color.Color so a Color can be passed to image.Fill.
func (c Color) RGBA() (r, g, b, a uint32) {
	p := c.premultiplied()
	return uint32(p.R * 0xffff), uint32(p.G * 0xffff), uint32(p.B * 0xffff), uint32(p.A * 0xffff)
}

var _ color.Color = Color{}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for vertex positions, texture coordinates and
// entity positions. float32 matches what the backend uploads.
type Vec2 struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	mouseButtonCount
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
