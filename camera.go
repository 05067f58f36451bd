package bramble

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the world point shown at the center of the viewport. There is
// no zoom or rotation; world and screen differ only by a translation.
type Camera struct {
	// X and Y are the world position the camera centers on.
	X, Y float32

	viewW, viewH float32

	following     bool
	followTarget  EntityID
	followOffsetX float32
	followOffsetY float32
	followLerp    float32

	// BoundsEnabled clamps the camera so the visible area stays within
	// Bounds.
	BoundsEnabled bool
	Bounds        Rect

	scroll *scrollAnim
}

func newCamera(viewW, viewH int) *Camera {
	c := &Camera{}
	c.SetViewport(viewW, viewH)
	c.X, c.Y = c.viewW/2, c.viewH/2
	return c
}

// SetViewport sets the screen size in pixels.
func (c *Camera) SetViewport(w, h int) {
	c.viewW, c.viewH = float32(w), float32(h)
}

// Follow tracks an entity. A lerp of 1 snaps; lower values trail behind.
func (c *Camera) Follow(id EntityID, offsetX, offsetY, lerp float32) {
	c.following = true
	c.followTarget = id
	c.followOffsetX, c.followOffsetY = offsetX, offsetY
	c.followLerp = clamp01(lerp)
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() { c.following = false }

// ScrollTo animates the camera to (x, y) over duration seconds. A nil fn
// scrolls linearly.
func (c *Camera) ScrollTo(x, y, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	c.scroll = &scrollAnim{
		tweenX: gween.New(c.X, x, duration, fn),
		tweenY: gween.New(c.Y, y, duration, fn),
	}
}

// ScrollToTile scrolls to the center of a tile.
func (c *Camera) ScrollToTile(tileX, tileY, tileW, tileH int, duration float32, fn ease.TweenFunc) {
	x := float32(tileX*tileW) + float32(tileW)/2
	y := float32(tileY*tileH) + float32(tileH)/2
	c.ScrollTo(x, y, duration, fn)
}

// Scrolling reports whether a ScrollTo is running.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
	c.clampToBounds()
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() { c.BoundsEnabled = false }

// ClampToBounds applies the bounds right away. Call it after setting X or Y
// directly.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// update advances follow, scroll and clamping. Followed entities that have
// been despawned stop the follow.
func (c *Camera) update(dt float32, ents *Entities) {
	if c.following {
		if ent, ok := ents.Get(c.followTarget); ok {
			tx := ent.X + c.followOffsetX
			ty := ent.Y + c.followOffsetY
			c.X += (tx - c.X) * c.followLerp
			c.Y += (ty - c.Y) * c.followLerp
		} else {
			c.following = false
		}
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			c.X, c.scroll.doneX = c.scroll.tweenX.Update(dt)
		}
		if !c.scroll.doneY {
			c.Y, c.scroll.doneY = c.scroll.tweenY.Update(dt)
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps the visible area inside Bounds, centering on an axis
// where Bounds is smaller than the viewport.
func (c *Camera) clampToBounds() {
	halfW, halfH := c.viewW/2, c.viewH/2
	minX, maxX := c.Bounds.X+halfW, c.Bounds.X+c.Bounds.Width-halfW
	minY, maxY := c.Bounds.Y+halfH, c.Bounds.Y+c.Bounds.Height-halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = max(minX, min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = max(minY, min(c.Y, maxY))
	}
}

// Offset is the translation to pass to DrawRoom and Entities.Draw.
func (c *Camera) Offset() (ox, oy float32) {
	return c.viewW/2 - c.X, c.viewH/2 - c.Y
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	ox, oy := c.Offset()
	return wx + ox, wy + oy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	ox, oy := c.Offset()
	return sx - ox, sy - oy
}

// VisibleBounds returns the world rectangle covered by the viewport.
func (c *Camera) VisibleBounds() Rect {
	x, y := c.ScreenToWorld(0, 0)
	return Rect{X: x, Y: y, Width: c.viewW, Height: c.viewH}
}
