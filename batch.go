package bramble

import (
	"fmt"

	"github.com/phanxgames/bramble/container"
)

// Topology selects how EndShape turns buffered vertices into indices.
type Topology uint8

const (
	TopologyQuads     Topology = iota // 4 vertices per shape, 6 indices (0,1,2,3,2,1)
	TopologyTriangles                 // 3 vertices per shape, indices in order
)

// quadIndexPattern triangulates a quad whose vertices are ordered
// top-left, top-right, bottom-left, bottom-right.
var quadIndexPattern = [6]uint32{0, 1, 2, 3, 2, 1}

// BatchInfo is the render state a batch is drawn with.
type BatchInfo struct {
	Shader  Handle
	Texture Handle
	// Sampled is true when Shader reads Texture. Texture changes only split
	// batches whose shader samples.
	Sampled bool
}

// Batch is a run of vertices submitted to the backend as one draw call.
// A batch carries either per-vertex colors or per-vertex texture coordinates,
// never both. Indices are always derived from the vertex count.
type Batch struct {
	Info      BatchInfo
	Positions container.Array[Vec2]
	TexCoords container.Array[Vec2]
	Colors    container.Array[Color]
	Indices   container.Array[uint32]
}

// VertexCount returns the number of buffered vertices.
func (b *Batch) VertexCount() int { return b.Positions.Len() }

// Textured reports whether the batch carries texture coordinates.
func (b *Batch) Textured() bool { return b.TexCoords.Len() > 0 }

func (b *Batch) release() {
	b.Positions.Reset(true)
	b.TexCoords.Reset(true)
	b.Colors.Reset(true)
	b.Indices.Reset(true)
}

// Accumulator merges consecutive shapes that share render state into as few
// batches as possible. It is a per-frame state machine: BeginShape, one or
// more AddVertex calls, EndShape; Reset after the frame is presented.
//
// Misusing the protocol (nested BeginShape, vertices outside a shape, a
// partial quad at EndShape) is a programming error and panics.
type Accumulator struct {
	topology Topology

	batches   container.Array[*Batch]
	current   *Batch
	pending   BatchInfo
	committed BatchInfo
	// hasCommitted is false until the first EndShape of the frame.
	hasCommitted bool

	cursor    int // first vertex of the shape being buffered
	buffering bool
	submitted int
}

// NewAccumulator returns an empty accumulator in quad topology with no shader
// or texture selected.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		pending: BatchInfo{Shader: NoHandle, Texture: NoHandle},
	}
}

// SetTopology changes how subsequent shapes are indexed. Panics while a shape
// is being buffered.
func (a *Accumulator) SetTopology(t Topology) {
	if a.buffering {
		panic("bramble: SetTopology while buffering a shape")
	}
	a.topology = t
}

// SetShader selects the shader for subsequent shapes. sampled reports whether
// the shader reads the bound texture.
func (a *Accumulator) SetShader(shader Handle, sampled bool) {
	a.pending.Shader = shader
	a.pending.Sampled = sampled
}

// SetTexture binds the texture for subsequent shapes.
func (a *Accumulator) SetTexture(texture Handle) {
	a.pending.Texture = texture
}

// Pending returns the render state the next shape will be drawn with.
func (a *Accumulator) Pending() BatchInfo { return a.pending }

// BeginShape starts buffering a shape under the pending render state. The
// shape extends the current batch when the state is compatible with the last
// committed shape, otherwise a new batch is started.
func (a *Accumulator) BeginShape() {
	if a.buffering {
		panic("bramble: BeginShape while already buffering a shape")
	}
	if a.needsNewBatch() {
		b := &Batch{Info: a.pending}
		a.batches.Append(b)
		a.current = b
		a.cursor = 0
		a.submitted++
	} else {
		a.cursor = a.current.Positions.Len()
	}
	a.buffering = true
}

func (a *Accumulator) needsNewBatch() bool {
	if a.current == nil || !a.hasCommitted {
		return true
	}
	if a.pending.Shader != a.committed.Shader {
		return true
	}
	return a.pending.Sampled && a.pending.Texture != a.committed.Texture
}

// AddVertexUV appends a textured vertex to the shape being buffered.
func (a *Accumulator) AddVertexUV(pos, uv Vec2) {
	b := a.mustBuffer("AddVertexUV")
	if b.Colors.Len() > 0 {
		panic("bramble: AddVertexUV on a batch that carries colors")
	}
	b.Positions.Append(pos)
	b.TexCoords.Append(uv)
}

// AddVertexColor appends a colored vertex to the shape being buffered.
func (a *Accumulator) AddVertexColor(pos Vec2, c Color) {
	b := a.mustBuffer("AddVertexColor")
	if b.TexCoords.Len() > 0 {
		panic("bramble: AddVertexColor on a batch that carries texture coordinates")
	}
	b.Positions.Append(pos)
	b.Colors.Append(c)
}

func (a *Accumulator) mustBuffer(op string) *Batch {
	if !a.buffering {
		panic(fmt.Sprintf("bramble: %s outside BeginShape/EndShape", op))
	}
	return a.current
}

// EndShape triangulates the vertices added since BeginShape and commits the
// pending render state.
func (a *Accumulator) EndShape() {
	b := a.mustBuffer("EndShape")
	n := b.Positions.Len()
	added := n - a.cursor

	switch a.topology {
	case TopologyQuads:
		if added%4 != 0 {
			panic(fmt.Sprintf("bramble: EndShape with %d vertices, want a multiple of 4", added))
		}
		for q := a.cursor; q < n; q += 4 {
			for _, rel := range quadIndexPattern {
				b.Indices.Append(uint32(q) + rel)
			}
		}
	case TopologyTriangles:
		if added%3 != 0 {
			panic(fmt.Sprintf("bramble: EndShape with %d vertices, want a multiple of 3", added))
		}
		for i := a.cursor; i < n; i++ {
			b.Indices.Append(uint32(i))
		}
	}

	a.committed = a.pending
	a.hasCommitted = true
	a.buffering = false
}

// Buffering reports whether a shape is open.
func (a *Accumulator) Buffering() bool { return a.buffering }

// Batches returns the batches accumulated this frame, in submission order.
// The slice is only valid until Reset.
func (a *Accumulator) Batches() []*Batch { return a.batches.Slice() }

// Submitted returns how many batches were started this frame.
func (a *Accumulator) Submitted() int { return a.submitted }

// Reset releases every batch and clears the committed render state, ready for
// the next frame. The pending state is kept so callers need not re-select it.
func (a *Accumulator) Reset() {
	if a.buffering {
		panic("bramble: Reset while buffering a shape")
	}
	for _, b := range a.batches.Slice() {
		b.release()
	}
	a.batches.Reset(false)
	a.current = nil
	a.committed = BatchInfo{}
	a.hasCommitted = false
	a.cursor = 0
	a.submitted = 0
}

// PushQuadUV buffers one textured quad. Corners are given top-left,
// top-right, bottom-left, bottom-right.
func (a *Accumulator) PushQuadUV(pos, uv [4]Vec2) {
	a.BeginShape()
	for i := 0; i < 4; i++ {
		a.AddVertexUV(pos[i], uv[i])
	}
	a.EndShape()
}

// PushQuadColor buffers one solid-colored quad.
func (a *Accumulator) PushQuadColor(pos [4]Vec2, c Color) {
	a.BeginShape()
	for i := 0; i < 4; i++ {
		a.AddVertexColor(pos[i], c)
	}
	a.EndShape()
}

// rectCorners returns the four corners of an axis-aligned rectangle in
// TL, TR, BL, BR order.
func rectCorners(x, y, w, h float32) [4]Vec2 {
	return [4]Vec2{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}}
}
