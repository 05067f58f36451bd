package bramble

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/bramble/container"
)

// ErrEntitiesFull is returned by Spawn when every entity slot is in use.
var ErrEntitiesFull = eris.New("bramble: entity list full")

// EntityID identifies a live entity. IDs of despawned entities never
// resolve again, even after their slot is reused.
type EntityID uint64

func makeEntityID(slot int, gen uint32) EntityID {
	return EntityID(uint64(gen)<<32 | uint64(uint32(slot)))
}

func (id EntityID) slot() int   { return int(uint32(id)) }
func (id EntityID) gen() uint32 { return uint32(id >> 32) }

// Entity is a positioned thing in the world. Sprite names the atlas region
// it is drawn with; it defaults to Kind.
type Entity struct {
	Kind   string
	Sprite string
	X, Y   float32

	alive  bool
	gen    uint32
	motion *motion
}

// Moving reports whether a MoveTo tween is running.
func (e *Entity) Moving() bool { return e.motion != nil }

type motion struct {
	x, y *gween.Tween
}

// Entities is a fixed-size entity list. There is no hierarchy and no
// component storage; games keep their own state keyed by EntityID.
type Entities struct {
	slots container.Array[Entity]
	free  container.Array[int32]
	count int
	log   zerolog.Logger
}

// NewEntities creates a list holding at most capacity entities.
func NewEntities(capacity int, log zerolog.Logger) *Entities {
	if capacity <= 0 {
		panic("bramble: entity capacity must be positive")
	}
	e := &Entities{log: component(log, "entities")}
	e.slots.AppendSlice(make([]Entity, capacity)...)
	e.free.Reserve(capacity, false)
	for i := capacity - 1; i >= 0; i-- {
		e.free.Append(int32(i))
	}
	return e
}

// Len returns the number of live entities.
func (e *Entities) Len() int { return e.count }

// Cap returns the fixed capacity.
func (e *Entities) Cap() int { return e.slots.Len() }

// Spawn adds an entity of the given kind at (x, y).
func (e *Entities) Spawn(kind string, x, y float32) (EntityID, error) {
	if e.free.Len() == 0 {
		e.log.Warn().Str("kind", kind).Int("capacity", e.Cap()).Msg("entity list full, spawn skipped")
		return 0, eris.Wrapf(ErrEntitiesFull, "spawn %q (capacity %d)", kind, e.Cap())
	}
	last := e.free.Len() - 1
	slot := int(e.free.At(last))
	e.free.RemoveAt(last)

	ent := e.slots.Ptr(slot)
	gen := ent.gen + 1
	*ent = Entity{Kind: kind, Sprite: kind, X: x, Y: y, alive: true, gen: gen}
	e.count++
	return makeEntityID(slot, gen), nil
}

// Despawn removes the entity. Returns false if id is not live.
func (e *Entities) Despawn(id EntityID) bool {
	ent, ok := e.Get(id)
	if !ok {
		return false
	}
	ent.alive = false
	ent.motion = nil
	e.free.Append(int32(id.slot()))
	e.count--
	return true
}

// Get returns the live entity for id.
func (e *Entities) Get(id EntityID) (*Entity, bool) {
	s := id.slot()
	if s >= e.slots.Len() {
		return nil, false
	}
	ent := e.slots.Ptr(s)
	if !ent.alive || ent.gen != id.gen() {
		return nil, false
	}
	return ent, true
}

// Each calls fn for every live entity in slot order until fn returns false.
func (e *Entities) Each(fn func(id EntityID, ent *Entity) bool) {
	for i := 0; i < e.slots.Len(); i++ {
		ent := e.slots.Ptr(i)
		if !ent.alive {
			continue
		}
		if !fn(makeEntityID(i, ent.gen), ent) {
			return
		}
	}
}

// MoveTo tweens the entity to (x, y) over duration seconds. A nil fn moves
// linearly. Replaces any running move.
func (e *Entities) MoveTo(id EntityID, x, y, duration float32, fn ease.TweenFunc) bool {
	ent, ok := e.Get(id)
	if !ok {
		return false
	}
	if fn == nil {
		fn = ease.Linear
	}
	ent.motion = &motion{
		x: gween.New(ent.X, x, duration, fn),
		y: gween.New(ent.Y, y, duration, fn),
	}
	return true
}

// Update advances running moves by dt seconds.
func (e *Entities) Update(dt float32) {
	for i := 0; i < e.slots.Len(); i++ {
		ent := e.slots.Ptr(i)
		if !ent.alive || ent.motion == nil {
			continue
		}
		x, doneX := ent.motion.x.Update(dt)
		y, doneY := ent.motion.y.Update(dt)
		ent.X, ent.Y = x, y
		if doneX && doneY {
			ent.motion = nil
		}
	}
}

// Clear despawns every entity.
func (e *Entities) Clear() {
	e.Each(func(id EntityID, _ *Entity) bool {
		e.Despawn(id)
		return true
	})
}

// SpawnRoom spawns one entity per room spawn point, converting tile
// coordinates to pixels. It stops at the first failure and returns how many
// entities were spawned.
func (e *Entities) SpawnRoom(room *Room, tileW, tileH int) (int, error) {
	for i, sp := range room.Spawns {
		if _, err := e.Spawn(sp.Kind, sp.X*float32(tileW), sp.Y*float32(tileH)); err != nil {
			return i, eris.Wrapf(err, "room %q", room.Name)
		}
	}
	return len(room.Spawns), nil
}

// Draw draws every live entity's sprite at its position offset by (ox, oy).
func (e *Entities) Draw(r *Renderer, ox, oy float32) {
	e.Each(func(_ EntityID, ent *Entity) bool {
		r.DrawSprite(ent.Sprite, ox+ent.X, oy+ent.Y)
		return true
	})
}
