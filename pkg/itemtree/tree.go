package itemtree

import (
	"github.com/vango-dev/scene/internal/errors"
)

// Tree is the static, flat description of a component's item hierarchy.
// Node 0 is the root item. The children of every item node occupy a
// contiguous index range after it. A Tree is immutable once built.
type Tree struct {
	nodes  []Node
	parent []int
}

// New validates nodes and returns the tree. slots is the number of items in
// the component's arena and repeaters the number of repeaters it owns; every
// node must reference one of them. Validation fails with a malformed tree
// error (E103) when:
//   - the tree is empty or its root is not an item,
//   - a child range is out of bounds or does not start after its parent,
//   - two child ranges overlap, or a node other than the root has no parent,
//   - a node references a missing slot or repeater,
//   - a dynamic node declares children.
func New(nodes []Node, slots, repeaters int) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, malformed("tree has no nodes")
	}
	if nodes[0].Kind != NodeItem {
		return nil, malformed("root node must be an item, got %s", nodes[0].Kind)
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = -1
	}

	for i, n := range nodes {
		switch n.Kind {
		case NodeItem:
			if n.Slot < 0 || n.Slot >= slots {
				return nil, malformed("node %d: slot %d out of range [0,%d)", i, n.Slot, slots)
			}
			if n.ChildCount < 0 {
				return nil, malformed("node %d: negative child count %d", i, n.ChildCount)
			}
			if n.ChildCount == 0 {
				continue
			}
			first, end := n.Children()
			if first <= i || end > len(nodes) {
				return nil, malformed("node %d: child range [%d,%d) out of bounds (%d nodes)", i, first, end, len(nodes))
			}
			for j := first; j < end; j++ {
				if parent[j] != -1 {
					return nil, malformed("node %d: claimed by nodes %d and %d", j, parent[j], i)
				}
				parent[j] = i
			}
		case NodeDynamic:
			if n.Repeater < 0 || n.Repeater >= repeaters {
				return nil, malformed("node %d: repeater %d out of range [0,%d)", i, n.Repeater, repeaters)
			}
			if n.ChildCount != 0 {
				return nil, malformed("node %d: dynamic node declares %d children", i, n.ChildCount)
			}
		default:
			return nil, malformed("node %d: unknown kind %s", i, n.Kind)
		}
	}

	for j := 1; j < len(nodes); j++ {
		if parent[j] == -1 {
			return nil, malformed("node %d: not reachable from the root", j)
		}
	}

	return &Tree{nodes: append([]Node(nil), nodes...), parent: parent}, nil
}

// MustNew is New that panics on a malformed tree. It is meant for trees
// known at compile time.
func MustNew(nodes []Node, slots, repeaters int) *Tree {
	t, err := New(nodes, slots, repeaters)
	if err != nil {
		panic(err)
	}
	return t
}

func malformed(format string, args ...any) error {
	return errors.New("E103").WithDetailf(format, args...)
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns node i.
func (t *Tree) Node(i int) Node {
	return t.nodes[i]
}

// Parent returns the parent index of node i, or -1 for the root.
func (t *Tree) Parent(i int) int {
	return t.parent[i]
}
