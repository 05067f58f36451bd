package bramble

import (
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/phanxgames/bramble/container"
)

// Renderer turns named draw requests into accumulator shapes. Lookups that
// miss are logged once per name and the draw is skipped.
type Renderer struct {
	assets *Assets
	acc    *Accumulator
	log    zerolog.Logger

	tileW, tileH int
	tileset      string

	// shader overrides the built-in texture shader for textured draws.
	shader     Handle
	viewW      float32
	viewH      float32
	missing    *container.Table[struct{}]
	missCount  int
	drawnQuads int
}

// NewRenderer returns a renderer drawing into acc with names resolved
// through assets.
func NewRenderer(cfg Config, assets *Assets, acc *Accumulator, log zerolog.Logger) *Renderer {
	return &Renderer{
		assets:  assets,
		acc:     acc,
		log:     component(log, "renderer"),
		tileW:   cfg.TileWidth,
		tileH:   cfg.TileHeight,
		tileset: cfg.TilesetTexture,
		shader:  NoHandle,
		viewW:   float32(cfg.Width),
		viewH:   float32(cfg.Height),
		missing: container.NewTable[struct{}](0),
	}
}

// Accumulator returns the accumulator the renderer draws into.
func (r *Renderer) Accumulator() *Accumulator { return r.acc }

// SetViewport sets the screen size used to cull room tiles.
func (r *Renderer) SetViewport(w, h int) {
	r.viewW, r.viewH = float32(w), float32(h)
}

// UseShader selects a Kage shader for subsequent textured draws. An empty
// name restores the built-in texture shader. Returns false if the shader is
// not loaded or is the built-in color shader, which has no texture input.
func (r *Renderer) UseShader(name string) bool {
	if name == "" {
		r.shader = NoHandle
		return true
	}
	h, ok := r.assets.Shaders.Handle(name)
	if !ok {
		r.miss("shader", name)
		return false
	}
	if h == r.assets.ColorShader {
		r.log.Warn().Str("name", name).Msg("color shader cannot draw textures, selection ignored")
		return false
	}
	r.shader = h
	return true
}

// Quads returns the number of quads drawn since the last ResetStats.
func (r *Renderer) Quads() int { return r.drawnQuads }

// Misses returns the number of distinct names that failed to resolve.
func (r *Renderer) Misses() int { return r.missCount }

// ResetStats clears the per-frame quad counter.
func (r *Renderer) ResetStats() { r.drawnQuads = 0 }

func (r *Renderer) miss(kind, name string) {
	key := kind + ":" + name
	if r.missing.Contains(key) {
		return
	}
	_ = r.missing.Add(key, struct{}{})
	r.missCount++
	r.log.Warn().Str("kind", kind).Str("name", name).Msg("unknown asset, draw skipped")
}

func (r *Renderer) bindColor() {
	r.acc.SetShader(r.assets.ColorShader, false)
	r.acc.SetTexture(NoHandle)
}

func (r *Renderer) bindTexture(tex Handle) {
	if sh, ok := r.assets.Shaders.Get(r.shader); ok {
		r.acc.SetShader(r.shader, sh.Sampled)
	} else {
		r.acc.SetShader(r.assets.TextureShader, true)
	}
	r.acc.SetTexture(tex)
}

// DrawRect draws a solid rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c Color) {
	r.bindColor()
	r.acc.PushQuadColor(rectCorners(x, y, w, h), c)
	r.drawnQuads++
}

// DrawTexture draws a whole texture at its pixel size.
func (r *Renderer) DrawTexture(name string, x, y float32) {
	h, ok := r.assets.Textures.Handle(name)
	if !ok {
		r.miss("texture", name)
		return
	}
	tex, _ := r.assets.Textures.Get(h)
	r.bindTexture(h)
	r.acc.PushQuadUV(rectCorners(x, y, float32(tex.Width), float32(tex.Height)), fullUV)
	r.drawnQuads++
}

var fullUV = [4]Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// DrawSprite draws an atlas region at its pixel size.
func (r *Renderer) DrawSprite(name string, x, y float32) {
	reg, ok := r.assets.Regions.Find(name)
	if !ok {
		r.miss("region", name)
		return
	}
	r.DrawRegion(reg, Rect{X: x, Y: y, Width: float32(reg.Width), Height: float32(reg.Height)})
}

// DrawRegion draws reg stretched over dst.
func (r *Renderer) DrawRegion(reg Region, dst Rect) {
	tex, ok := r.assets.Textures.Get(reg.Texture)
	if !ok {
		r.miss("texture", r.assets.Textures.Name(reg.Texture))
		return
	}
	r.bindTexture(reg.Texture)
	r.acc.PushQuadUV(rectCorners(dst.X, dst.Y, dst.Width, dst.Height), reg.uvCorners(tex.Width, tex.Height))
	r.drawnQuads++
}

// DrawText draws s with the named font, top-left of the first line at (x, y).
// Runes without a glyph are skipped.
func (r *Renderer) DrawText(fontName, s string, x, y float32) {
	f, ok := r.assets.Fonts.Find(fontName)
	if !ok {
		r.miss("font", fontName)
		return
	}
	tex, ok := r.assets.Textures.Get(f.Texture)
	if !ok {
		r.miss("texture", r.assets.Textures.Name(f.Texture))
		return
	}
	r.bindTexture(f.Texture)

	tw, th := float32(tex.Width), float32(tex.Height)
	var cursorX, cursorY float32
	var prev rune
	var hasPrev bool
	for i := 0; i < len(s); {
		ch, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if ch == '\n' {
			cursorX = 0
			cursorY += f.lineHeight
			hasPrev = false
			continue
		}
		g := f.glyph(ch)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			cursorX += float32(f.kern(prev, ch))
		}
		if g.width > 0 && g.height > 0 {
			gx := x + cursorX + float32(g.xOffset)
			gy := y + cursorY + float32(g.yOffset)
			u0, v0 := float32(g.x)/tw, float32(g.y)/th
			u1, v1 := float32(g.x+g.width)/tw, float32(g.y+g.height)/th
			r.acc.PushQuadUV(
				rectCorners(gx, gy, float32(g.width), float32(g.height)),
				[4]Vec2{{u0, v0}, {u1, v0}, {u0, v1}, {u1, v1}},
			)
			r.drawnQuads++
		}
		cursorX += float32(g.xAdvance)
		prev = ch
		hasPrev = true
	}
}
