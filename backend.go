package bramble

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// Backend receives the frame's batches and draws them. Implementations must
// not modify the batches; they are released by the accumulator right after
// Submit returns.
type Backend interface {
	Submit(batches []*Batch)
}

// EbitenBackend draws batches onto an ebiten.Image with one DrawTriangles32
// (or DrawTrianglesShader32 for Kage shaders) call per batch.
type EbitenBackend struct {
	assets *Assets
	target *ebiten.Image
	log    zerolog.Logger

	// Scratch buffers reused across batches and frames.
	verts []ebiten.Vertex
	inds  []uint32

	white     *ebiten.Image
	magenta   *ebiten.Image
	drawCalls int
}

// NewEbitenBackend returns a backend resolving textures and shaders through
// assets.
func NewEbitenBackend(assets *Assets, log zerolog.Logger) *EbitenBackend {
	return &EbitenBackend{
		assets: assets,
		log:    component(log, "backend"),
	}
}

// SetTarget sets the image subsequent Submit calls draw onto.
func (b *EbitenBackend) SetTarget(target *ebiten.Image) {
	b.target = target
	b.drawCalls = 0
}

// DrawCalls returns the number of draw calls issued since the last SetTarget.
func (b *EbitenBackend) DrawCalls() int { return b.drawCalls }

// Submit implements Backend.
func (b *EbitenBackend) Submit(batches []*Batch) {
	if b.target == nil {
		return
	}
	for _, batch := range batches {
		if batch.VertexCount() == 0 || batch.Indices.Len() == 0 {
			continue
		}
		b.submitBatch(batch)
	}
}

func (b *EbitenBackend) submitBatch(batch *Batch) {
	src, srcW, srcH := b.sourceImage(batch)
	b.fillVertices(batch, srcW, srcH)
	b.inds = append(b.inds[:0], batch.Indices.Slice()...)

	if sh, ok := b.assets.Shaders.Get(batch.Info.Shader); ok && sh.Program != nil {
		var op ebiten.DrawTrianglesShaderOptions
		if batch.Textured() {
			op.Images[0] = src
		}
		op.Uniforms = sh.Uniforms
		b.target.DrawTrianglesShader32(b.verts, b.inds, sh.Program, &op)
	} else {
		var op ebiten.DrawTrianglesOptions
		op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		b.target.DrawTriangles32(b.verts, b.inds, src, &op)
	}
	b.drawCalls++
}

// sourceImage resolves the image sampled by a batch. Color-only batches draw
// from a white pixel; a texture handle that no longer resolves draws magenta.
func (b *EbitenBackend) sourceImage(batch *Batch) (*ebiten.Image, float32, float32) {
	if !batch.Textured() {
		return b.whitePixel(), 1, 1
	}
	if tex, ok := b.assets.Textures.Get(batch.Info.Texture); ok && tex.Image != nil {
		return tex.Image, float32(tex.Width), float32(tex.Height)
	}
	b.log.Debug().Int32("texture", int32(batch.Info.Texture)).Msg("unresolved texture, using magenta placeholder")
	return b.magentaPixel(), 1, 1
}

// fillVertices converts a batch to ebiten vertices. Texture coordinates are
// normalized in the batch and scaled to source pixels here; colors are
// premultiplied.
func (b *EbitenBackend) fillVertices(batch *Batch, srcW, srcH float32) {
	n := batch.VertexCount()
	if cap(b.verts) < n {
		b.verts = make([]ebiten.Vertex, n)
	}
	b.verts = b.verts[:n]

	positions := batch.Positions.Slice()
	if batch.Textured() {
		uvs := batch.TexCoords.Slice()
		for i := range positions {
			b.verts[i] = ebiten.Vertex{
				DstX: positions[i].X, DstY: positions[i].Y,
				SrcX: uvs[i].X * srcW, SrcY: uvs[i].Y * srcH,
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			}
		}
		return
	}

	colors := batch.Colors.Slice()
	for i := range positions {
		c := colors[i].premultiplied()
		b.verts[i] = ebiten.Vertex{
			DstX: positions[i].X, DstY: positions[i].Y,
			SrcX: 0.5, SrcY: 0.5,
			ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
		}
	}
}

func (b *EbitenBackend) whitePixel() *ebiten.Image {
	if b.white == nil {
		b.white = ebiten.NewImage(1, 1)
		b.white.Fill(color.White)
	}
	return b.white
}

func (b *EbitenBackend) magentaPixel() *ebiten.Image {
	if b.magenta == nil {
		b.magenta = ebiten.NewImage(1, 1)
		b.magenta.Fill(ColorMagenta)
	}
	return b.magenta
}
