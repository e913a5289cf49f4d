package itemtree

import "fmt"

// NodeKind tags a Node.
type NodeKind uint8

const (
	// NodeItem is a concrete item stored in the component's arena.
	NodeItem NodeKind = iota
	// NodeDynamic stands for the zero or more instances of a repeater.
	NodeDynamic
)

func (k NodeKind) String() string {
	switch k {
	case NodeItem:
		return "item"
	case NodeDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// Node is one entry of a flat item tree.
//
// For NodeItem, Slot locates the item in the component's arena and the
// children occupy [FirstChild, FirstChild+ChildCount). For NodeDynamic,
// Repeater is the index of the repeater providing the content; dynamic
// nodes have no static children.
type Node struct {
	Kind       NodeKind
	Slot       int
	ChildCount int
	FirstChild int
	Repeater   int
}

// ItemNode returns an item node.
func ItemNode(slot, childCount, firstChild int) Node {
	return Node{Kind: NodeItem, Slot: slot, ChildCount: childCount, FirstChild: firstChild}
}

// DynamicNode returns a placeholder for repeater's instances.
func DynamicNode(repeater int) Node {
	return Node{Kind: NodeDynamic, Repeater: repeater}
}

// Children returns the child index range [first, end).
func (n Node) Children() (first, end int) {
	if n.Kind != NodeItem {
		return 0, 0
	}
	return n.FirstChild, n.FirstChild + n.ChildCount
}

func (n Node) String() string {
	if n.Kind == NodeDynamic {
		return fmt.Sprintf("dynamic(repeater=%d)", n.Repeater)
	}
	return fmt.Sprintf("item(slot=%d, children=[%d,%d))", n.Slot, n.FirstChild, n.FirstChild+n.ChildCount)
}
