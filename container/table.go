package container

import (
	"github.com/rotisserie/eris"
)

// MaxLoadFactor is the occupied-slot ratio a Table never exceeds after an
// insert completes.
const MaxLoadFactor = 0.8

var (
	// ErrDuplicateKey is returned by Add when the key is already present.
	ErrDuplicateKey = eris.New("container: duplicate key")
	// ErrTableFull is returned by Add when a full probe wrap finds no free
	// slot. The load-factor policy makes this unreachable in practice.
	ErrTableFull = eris.New("container: table full")
)

// slotState marks a Table slot. Deleted slots keep probe chains intact:
// lookups step over them, inserts may reuse them.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotDeleted
)

// Table maps unique string keys to values with open addressing and linear
// probing. Storage is four parallel Arrays indexed by slot.
//
// Keys are rejected rather than overwritten on a second Add. Capacity only
// grows. Every rehash, whether it doubles the size or only clears
// tombstones, invalidates slot indices previously observed.
type Table[V any] struct {
	keys   Array[string]
	values Array[V]
	hashes Array[uint32]
	states Array[slotState]

	count   int // occupied slots
	deleted int // tombstoned slots
	grows   int
}

// NewTable returns a table with room for capacity slots. A zero capacity
// defers allocation to the first Add.
func NewTable[V any](capacity int) *Table[V] {
	t := &Table[V]{}
	if capacity > 0 {
		t.alloc(capacity)
	}
	return t
}

// Len returns the number of stored entries.
func (t *Table[V]) Len() int { return t.count }

// Cap returns the number of slots.
func (t *Table[V]) Cap() int { return t.states.Len() }

// Grows returns how many rehash-and-grow cycles the table has been through.
func (t *Table[V]) Grows() int { return t.grows }

// Add inserts key with value. It fails with ErrDuplicateKey when key is
// already present; the stored value is left unchanged.
func (t *Table[V]) Add(key string, value V) error {
	if t.overloaded(t.count + t.deleted + 1) {
		if t.Cap() > 0 && !t.overloaded(t.count+1) {
			// Only tombstones are in the way.
			t.rehash(t.Cap())
		}
		for t.overloaded(t.count + t.deleted + 1) {
			t.grow()
		}
	}

	h := HashString(key)
	capacity := uint32(t.Cap())
	start := h % capacity
	free := -1

	for probe := uint32(0); probe < capacity; probe++ {
		i := int((start + probe) % capacity)
		switch t.states.At(i) {
		case slotEmpty:
			if free < 0 {
				free = i
			}
			t.place(free, key, h, value)
			return nil
		case slotDeleted:
			if free < 0 {
				free = i
			}
		case slotOccupied:
			if t.hashes.At(i) == h && t.keys.At(i) == key {
				return eris.Wrapf(ErrDuplicateKey, "key %q", key)
			}
		}
	}
	if free >= 0 {
		t.place(free, key, h, value)
		return nil
	}
	return eris.Wrapf(ErrTableFull, "key %q, capacity %d", key, capacity)
}

// Find returns the value stored for key.
func (t *Table[V]) Find(key string) (V, bool) {
	i := t.slot(key)
	if i < 0 {
		var zero V
		return zero, false
	}
	return t.values.At(i), true
}

// Contains reports whether key is present.
func (t *Table[V]) Contains(key string) bool {
	return t.slot(key) >= 0
}

// Remove deletes key and reports whether it was present.
func (t *Table[V]) Remove(key string) bool {
	i := t.slot(key)
	if i < 0 {
		return false
	}
	var zero V
	t.states.Set(i, slotDeleted)
	t.values.Set(i, zero)
	t.keys.Set(i, "")
	t.count--
	t.deleted++
	return true
}

// Each calls fn for every entry in slot order until fn returns false.
// Slot order depends on key hashes and capacity, not insertion order.
func (t *Table[V]) Each(fn func(key string, value V) bool) {
	for i := 0; i < t.states.Len(); i++ {
		if t.states.At(i) != slotOccupied {
			continue
		}
		if !fn(t.keys.At(i), t.values.At(i)) {
			return
		}
	}
}

// slot returns the slot index holding key, or -1.
func (t *Table[V]) slot(key string) int {
	capacity := uint32(t.Cap())
	if capacity == 0 || t.count == 0 {
		return -1
	}
	h := HashString(key)
	start := h % capacity
	for probe := uint32(0); probe < capacity; probe++ {
		i := int((start + probe) % capacity)
		switch t.states.At(i) {
		case slotEmpty:
			return -1
		case slotOccupied:
			if t.hashes.At(i) == h && t.keys.At(i) == key {
				return i
			}
		}
	}
	return -1
}

// overloaded reports whether n occupied slots would exceed the load factor.
func (t *Table[V]) overloaded(n int) bool {
	return float64(n) > float64(t.Cap())*MaxLoadFactor
}

// place stores an entry in slot i, reusing a tombstone if one is there.
func (t *Table[V]) place(i int, key string, h uint32, value V) {
	if t.states.At(i) == slotDeleted {
		t.deleted--
	}
	t.keys.Set(i, key)
	t.values.Set(i, value)
	t.hashes.Set(i, h)
	t.states.Set(i, slotOccupied)
	t.count++
}

// alloc replaces the storage with capacity empty slots.
func (t *Table[V]) alloc(capacity int) {
	t.keys.Reset(true)
	t.values.Reset(true)
	t.hashes.Reset(true)
	t.states.Reset(true)
	t.keys.Reserve(capacity, true)
	t.values.Reserve(capacity, true)
	t.hashes.Reserve(capacity, true)
	t.states.Reserve(capacity, true)
	// Arrays hand out slots by position, so every slot is made live up front.
	for i := 0; i < capacity; i++ {
		t.keys.InsertAt("", i)
		var zero V
		t.values.InsertAt(zero, i)
		t.hashes.InsertAt(0, i)
		t.states.InsertAt(slotEmpty, i)
	}
	t.count = 0
	t.deleted = 0
}

// grow doubles the slot count (minimum 1) and reinserts every live entry.
func (t *Table[V]) grow() {
	newCap := t.Cap() * 2
	if newCap < 1 {
		newCap = 1
	}
	t.rehash(newCap)
	t.grows++
}

// rehash reinserts every live entry into newCap fresh slots. Tombstones are
// dropped.
func (t *Table[V]) rehash(newCap int) {
	oldKeys := t.keys
	oldValues := t.values
	oldHashes := t.hashes
	oldStates := t.states

	t.keys, t.values, t.hashes, t.states = Array[string]{}, Array[V]{}, Array[uint32]{}, Array[slotState]{}
	t.alloc(newCap)

	capacity := uint32(newCap)
	for i := 0; i < oldStates.Len(); i++ {
		if oldStates.At(i) != slotOccupied {
			continue
		}
		h := oldHashes.At(i)
		for probe := uint32(0); probe < capacity; probe++ {
			j := int((h%capacity + probe) % capacity)
			if t.states.At(j) == slotEmpty {
				t.place(j, oldKeys.At(i), h, oldValues.At(i))
				break
			}
		}
	}
}
