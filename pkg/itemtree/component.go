package itemtree

import "github.com/vango-dev/scene/pkg/item"

// Component is the capability set of a component instance as seen by the
// traversal and dispatch code: its static tree, the arena holding its
// items, and the repeaters behind its dynamic nodes.
type Component interface {
	ItemTree() *Tree
	Items() *item.Arena
	Dynamic(repeater int) Dynamic
}

// Dynamic is the runtime content of a dynamic node: an ordered list of
// component instances, each with its own item tree.
type Dynamic interface {
	Len() int
	Instance(i int) Component
}
