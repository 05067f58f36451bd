package bramble

import (
	"testing"

	"github.com/rs/zerolog"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CatalogCapacity = 16
	cfg.MaxEntities = 8
	return cfg
}

func testAssets(t *testing.T) *Assets {
	t.Helper()
	return NewAssets(testConfig(), zerolog.Nop())
}

// addTexture registers a texture with no GPU image. Renderer and accumulator
// tests only need its size.
func addTexture(t *testing.T, a *Assets, name string, w, h int) Handle {
	t.Helper()
	hd, err := a.Textures.Register(name, &Texture{Width: w, Height: h})
	if err != nil {
		t.Fatalf("register texture %q: %v", name, err)
	}
	return hd
}

// recordingBackend keeps a copy of every submitted frame.
type recordingBackend struct {
	frames [][]batchRecord
}

type batchRecord struct {
	info     BatchInfo
	vertices int
	indices  []uint32
	textured bool
}

func (b *recordingBackend) Submit(batches []*Batch) {
	frame := make([]batchRecord, 0, len(batches))
	for _, bt := range batches {
		frame = append(frame, batchRecord{
			info:     bt.Info,
			vertices: bt.VertexCount(),
			indices:  append([]uint32(nil), bt.Indices.Slice()...),
			textured: bt.Textured(),
		})
	}
	b.frames = append(b.frames, frame)
}

func (b *recordingBackend) last() []batchRecord {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

func approxEqual(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}
