// Package container provides the two storage primitives every bramble
// catalog and batch is built on: a growable Array and an open-addressing
// Table keyed by name.
//
// Both types are single-threaded. They are owned by exactly one structure
// and are never shared across goroutines.
package container

import "fmt"

// minArrayCapacity is the smallest backing allocation an Array makes.
const minArrayCapacity = 8

// Array is a contiguous, doubling-growth buffer of T.
//
// The zero value is an empty array with no backing storage. Slots
// [0, Len()) hold live values; RemoveAt fills the hole with the last element,
// so element order is not stable across removals.
type Array[T any] struct {
	items []T // len(items) is the capacity
	count int
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.count }

// Cap returns the number of allocated slots.
func (a *Array[T]) Cap() int { return len(a.items) }

// At returns the element at index i. Panics if i is outside [0, Len()).
func (a *Array[T]) At(i int) T {
	a.checkIndex(i)
	return a.items[i]
}

// Ptr returns a pointer to the element at index i. The pointer is invalidated
// by any call that grows the array.
func (a *Array[T]) Ptr(i int) *T {
	a.checkIndex(i)
	return &a.items[i]
}

// Set overwrites the element at index i.
func (a *Array[T]) Set(i int, v T) {
	a.checkIndex(i)
	a.items[i] = v
}

// Slice returns the live elements as a slice sharing the backing storage.
// The slice MUST NOT be retained past the next growing call.
func (a *Array[T]) Slice() []T {
	return a.items[:a.count]
}

// Append adds v after the last live element, growing the storage when full.
func (a *Array[T]) Append(v T) {
	if a.count == len(a.items) {
		a.grow(a.count + 1)
	}
	a.items[a.count] = v
	a.count++
}

// AppendSlice appends every element of vs in order.
func (a *Array[T]) AppendSlice(vs ...T) {
	if need := a.count + len(vs); need > len(a.items) {
		a.grow(need)
	}
	copy(a.items[a.count:], vs)
	a.count += len(vs)
}

// InsertAt writes v into slot index and increments Len unconditionally.
//
// index only has to be below Cap, not Len: the caller guarantees the slot was
// unused. Inserting twice into the same slot, or into a slot below Len,
// overcounts Len.
func (a *Array[T]) InsertAt(v T, index int) {
	if index < 0 || index >= len(a.items) {
		panic(fmt.Sprintf("container: InsertAt index %d out of capacity %d", index, len(a.items)))
	}
	a.items[index] = v
	a.count++
}

// RemoveAt removes the element at index i by moving the last element into
// its slot.
func (a *Array[T]) RemoveAt(i int) {
	a.checkIndex(i)
	last := a.count - 1
	a.items[i] = a.items[last]
	var zero T
	a.items[last] = zero
	a.count = last
}

// Remove deletes every element for which eq(element, v) reports true and
// returns how many were removed.
func (a *Array[T]) Remove(v T, eq func(a, b T) bool) int {
	removed := 0
	for i := 0; i < a.count; i++ {
		if eq(a.items[i], v) {
			a.RemoveAt(i)
			removed++
			// the swapped-in element now lives at i
			i--
		}
	}
	return removed
}

// Index returns the index of the first element equal to v under eq, or -1.
func (a *Array[T]) Index(v T, eq func(a, b T) bool) int {
	for i := 0; i < a.count; i++ {
		if eq(a.items[i], v) {
			return i
		}
	}
	return -1
}

// Reserve grows the storage to hold at least n elements. It is a no-op when
// the capacity is already large enough. With zeroFill, slots between Len and
// the new capacity are reset to the zero value.
func (a *Array[T]) Reserve(n int, zeroFill bool) {
	if n < 0 {
		panic(fmt.Sprintf("container: Reserve negative capacity %d", n))
	}
	if n <= len(a.items) {
		return
	}
	a.grow(n)
	if zeroFill {
		clear(a.items[a.count:])
	}
}

// Reset drops every element. With free, the backing storage is released and
// the next Append allocates again.
func (a *Array[T]) Reset(free bool) {
	if free {
		a.items = nil
		a.count = 0
		return
	}
	clear(a.items[:a.count])
	a.count = 0
}

// grow reallocates to the next doubled capacity that can hold need elements.
// Existing live elements keep their indices.
func (a *Array[T]) grow(need int) {
	newCap := len(a.items) * 2
	if newCap < minArrayCapacity {
		newCap = minArrayCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	items := make([]T, newCap)
	copy(items, a.items[:a.count])
	a.items = items
}

func (a *Array[T]) checkIndex(i int) {
	if i < 0 || i >= a.count {
		panic(fmt.Sprintf("container: index %d out of range [0, %d)", i, a.count))
	}
}

// IndexOf is Index for comparable element types.
func IndexOf[T comparable](a *Array[T], v T) int {
	return a.Index(v, equal[T])
}

// RemoveValue is Remove for comparable element types.
func RemoveValue[T comparable](a *Array[T], v T) int {
	return a.Remove(v, equal[T])
}

func equal[T comparable](a, b T) bool { return a == b }
