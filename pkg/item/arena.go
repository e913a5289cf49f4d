package item

import "fmt"

// Arena stores the items of one component instance in indexed slots.
// Item tree nodes refer to items by slot, never by address.
type Arena struct {
	slots []Item
}

// NewArena returns an empty arena with room for capacity items.
func NewArena(capacity int) *Arena {
	return &Arena{slots: make([]Item, 0, capacity)}
}

// Add appends it and returns its reference.
func (a *Arena) Add(it Item) Ref {
	a.slots = append(a.slots, it)
	return Ref{arena: a, slot: len(a.slots) - 1}
}

// Len returns the number of slots.
func (a *Arena) Len() int {
	return len(a.slots)
}

// At returns the item in slot. It panics if slot is out of range; item
// trees are validated against the arena at construction.
func (a *Arena) At(slot int) Item {
	if slot < 0 || slot >= len(a.slots) {
		panic(fmt.Sprintf("item: slot %d out of range [0,%d)", slot, len(a.slots)))
	}
	return a.slots[slot]
}

// Ref returns the reference for slot.
func (a *Arena) Ref(slot int) Ref {
	return Ref{arena: a, slot: slot}
}

// Dispose disposes every item in the arena.
func (a *Arena) Dispose() {
	for _, it := range a.slots {
		it.Dispose()
	}
}

// Ref locates an item: an arena and a slot inside it.
type Ref struct {
	arena *Arena
	slot  int
}

// Slot returns the slot index.
func (r Ref) Slot() int {
	return r.slot
}

// Valid reports whether r points at an existing slot.
func (r Ref) Valid() bool {
	return r.arena != nil && r.slot >= 0 && r.slot < len(r.arena.slots)
}

// Item returns the referenced item.
func (r Ref) Item() Item {
	return r.arena.At(r.slot)
}
