package model

import (
	"fmt"

	"github.com/vango-dev/scene/pkg/property"
)

// Model is an indexable data source. Get is only called with an index in
// [0, Count()).
type Model[T any] interface {
	Count() int
	Get(i int) T
}

// Slice is an immutable model over a slice.
type Slice[T any] []T

func (s Slice[T]) Count() int { return len(s) }

func (s Slice[T]) Get(i int) T { return s[i] }

// Vec is a mutable model. Every mutation bumps its revision, invalidating
// bindings that read it.
type Vec[T any] struct {
	items    []T
	revision property.Property[uint64]
}

// NewVec returns a Vec holding a copy of items.
func NewVec[T any](items ...T) *Vec[T] {
	v := &Vec[T]{items: append([]T(nil), items...)}
	v.revision.SetName("model.vec")
	return v
}

// Count returns the number of elements.
func (v *Vec[T]) Count() int {
	v.revision.Get()
	return len(v.items)
}

// Get returns element i. It panics if i is out of range.
func (v *Vec[T]) Get(i int) T {
	v.revision.Get()
	if i < 0 || i >= len(v.items) {
		panic(fmt.Sprintf("model: index %d out of range [0,%d)", i, len(v.items)))
	}
	return v.items[i]
}

// Push appends elements.
func (v *Vec[T]) Push(items ...T) {
	v.items = append(v.items, items...)
	v.bump()
}

// Set replaces element i.
func (v *Vec[T]) Set(i int, item T) {
	v.items[i] = item
	v.bump()
}

// Insert places item at index i, shifting later elements.
func (v *Vec[T]) Insert(i int, item T) {
	var zero T
	v.items = append(v.items, zero)
	copy(v.items[i+1:], v.items[i:])
	v.items[i] = item
	v.bump()
}

// Remove deletes element i.
func (v *Vec[T]) Remove(i int) {
	v.items = append(v.items[:i], v.items[i+1:]...)
	v.bump()
}

// Replace swaps the whole content.
func (v *Vec[T]) Replace(items []T) {
	v.items = append(v.items[:0:0], items...)
	v.bump()
}

// Revision returns how many times the Vec has been mutated.
func (v *Vec[T]) Revision() uint64 {
	return v.revision.Peek()
}

func (v *Vec[T]) bump() {
	v.revision.Set(v.revision.Peek() + 1)
}

// Count is the integer counter model: n elements, element i being i itself.
type Count struct {
	n property.Property[int]
}

// NewCount returns a counter model of n elements.
func NewCount(n int) *Count {
	c := &Count{}
	c.n.SetName("model.count")
	c.n.Set(n)
	return c
}

// Count returns the element count. A negative count reads as zero.
func (c *Count) Count() int { return max(c.n.Get(), 0) }

func (c *Count) Get(i int) int { return i }

// SetCount changes the number of elements.
func (c *Count) SetCount(n int) {
	c.n.Set(n)
}

// Property exposes the element count, so it can be bound.
func (c *Count) Property() *property.Property[int] {
	return &c.n
}

// Erase adapts a typed model to a Model[any].
func Erase[T any](m Model[T]) Model[any] {
	if a, ok := m.(Model[any]); ok {
		return a
	}
	return erased[T]{m}
}

type erased[T any] struct {
	m Model[T]
}

func (e erased[T]) Count() int { return e.m.Count() }

func (e erased[T]) Get(i int) any { return e.m.Get(i) }
