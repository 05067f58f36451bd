package bramble

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/phanxgames/bramble/container"
)

// ErrCatalogFull is returned by Catalog.Register when every slot is taken.
var ErrCatalogFull = eris.New("bramble: catalog full")

// Handle is a stable slot index into a Catalog. Handles stay valid for the
// lifetime of the catalog: slots are never freed or reused.
type Handle int32

// NoHandle is the invalid handle. It is what batches carry when no texture is
// bound.
const NoHandle Handle = -1

// Valid reports whether h refers to a slot.
func (h Handle) Valid() bool { return h >= 0 }

type catalogEntry[T any] struct {
	name  string
	value T
}

// Catalog is a fixed-capacity arena of named assets of one kind. The arena
// owns the values; everything else refers to them by Handle.
type Catalog[T any] struct {
	kind     string
	capacity int
	slots    container.Array[catalogEntry[T]]
	index    *container.Table[Handle]
	log      zerolog.Logger

	// OnReplace, when set, receives the previous value of a slot that is
	// overwritten by a second Register under the same name.
	OnReplace func(old T)
}

// NewCatalog creates an empty catalog holding at most capacity assets.
// kind names the asset type in log output.
func NewCatalog[T any](kind string, capacity int, log zerolog.Logger) *Catalog[T] {
	if capacity <= 0 {
		panic("bramble: catalog capacity must be positive")
	}
	c := &Catalog[T]{
		kind:     kind,
		capacity: capacity,
		index:    container.NewTable[Handle](0),
		log:      component(log, kind),
	}
	c.slots.Reserve(capacity, true)
	return c
}

// Register stores value under name and returns its handle. A name that is
// already registered keeps its handle and the slot is overwritten: the last
// registration wins. Fails with ErrCatalogFull when a new name does not fit.
func (c *Catalog[T]) Register(name string, value T) (Handle, error) {
	if h, ok := c.index.Find(name); ok {
		e := c.slots.Ptr(int(h))
		old := e.value
		e.value = value
		if c.OnReplace != nil {
			c.OnReplace(old)
		}
		c.log.Debug().Str("name", name).Int32("slot", int32(h)).Msg("replaced")
		return h, nil
	}

	if c.slots.Len() >= c.capacity {
		c.log.Warn().Str("name", name).Int("capacity", c.capacity).Msg("catalog full, asset skipped")
		return NoHandle, eris.Wrapf(ErrCatalogFull, "%s %q (capacity %d)", c.kind, name, c.capacity)
	}

	h := Handle(c.slots.Len())
	if err := c.index.Add(name, h); err != nil {
		return NoHandle, eris.Wrapf(err, "%s %q", c.kind, name)
	}
	c.slots.Append(catalogEntry[T]{name: name, value: value})
	c.log.Debug().Str("name", name).Int32("slot", int32(h)).Msg("registered")
	return h, nil
}

// Handle returns the handle registered for name.
func (c *Catalog[T]) Handle(name string) (Handle, bool) {
	return c.index.Find(name)
}

// Find returns the value registered for name.
func (c *Catalog[T]) Find(name string) (T, bool) {
	h, ok := c.index.Find(name)
	if !ok {
		var zero T
		return zero, false
	}
	return c.slots.At(int(h)).value, true
}

// Get returns the value in slot h. ok is false for an invalid or unused
// handle.
func (c *Catalog[T]) Get(h Handle) (T, bool) {
	if h < 0 || int(h) >= c.slots.Len() {
		var zero T
		return zero, false
	}
	return c.slots.At(int(h)).value, true
}

// Name returns the name slot h was registered under, or "".
func (c *Catalog[T]) Name(h Handle) string {
	if h < 0 || int(h) >= c.slots.Len() {
		return ""
	}
	return c.slots.At(int(h)).name
}

// Len returns the number of registered assets.
func (c *Catalog[T]) Len() int { return c.slots.Len() }

// Cap returns the fixed slot capacity.
func (c *Catalog[T]) Cap() int { return c.capacity }

// Kind returns the asset kind this catalog was created for.
func (c *Catalog[T]) Kind() string { return c.kind }

// Each calls fn for every asset in slot order until fn returns false.
func (c *Catalog[T]) Each(fn func(h Handle, name string, value T) bool) {
	for i := 0; i < c.slots.Len(); i++ {
		e := c.slots.At(i)
		if !fn(Handle(i), e.name, e.value) {
			return
		}
	}
}
