package itemtree

import "github.com/vango-dev/scene/pkg/item"

// Visitor is called once per item during a traversal, with the component
// owning the item and the item's node index in that component's tree.
// Returning false stops the traversal.
type Visitor func(c Component, index int, ref item.Ref) bool

// DynamicHandler visits the instances behind a dynamic node. It returns -1
// when every instance was visited, or the index of the instance whose
// traversal was stopped.
type DynamicHandler func(repeater int, visitor Visitor) int

// VisitItemTree walks tree depth first in declared order. Item nodes are
// passed to visitor with their arena reference; dynamic nodes are handed to
// handleDynamic, which visits the repeater's instances. A nil handleDynamic
// skips dynamic content.
//
// It returns -1 if the traversal completed, or the index of the node at
// which the visitor stopped it. For a dynamic node that is the dynamic
// node's own index.
func VisitItemTree(c Component, tree *Tree, visitor Visitor, handleDynamic DynamicHandler) int {
	return visitNode(c, tree, 0, visitor, handleDynamic)
}

func visitNode(c Component, tree *Tree, index int, visitor Visitor, handleDynamic DynamicHandler) int {
	n := tree.nodes[index]
	switch n.Kind {
	case NodeItem:
		if !visitor(c, index, c.Items().Ref(n.Slot)) {
			return index
		}
		first, end := n.Children()
		for j := first; j < end; j++ {
			if stopped := visitNode(c, tree, j, visitor, handleDynamic); stopped != -1 {
				return stopped
			}
		}
	case NodeDynamic:
		if handleDynamic != nil && handleDynamic(n.Repeater, visitor) != -1 {
			return index
		}
	}
	return -1
}

// Visit walks c's own tree, descending into dynamic content through
// DynamicContent.
func Visit(c Component, visitor Visitor) int {
	return VisitItemTree(c, c.ItemTree(), visitor, DynamicContent(c))
}

// visitable is implemented by dynamic content that knows how to visit its
// own instances, such as a repeater.
type visitable interface {
	Visit(visitor Visitor) int
}

// DynamicContent returns the handler that visits c's repeaters: each
// instance is walked with Visit, recursively.
func DynamicContent(c Component) DynamicHandler {
	return func(repeater int, visitor Visitor) int {
		dyn := c.Dynamic(repeater)
		if dyn == nil {
			return -1
		}
		if v, ok := dyn.(visitable); ok {
			return v.Visit(visitor)
		}
		for i := 0; i < dyn.Len(); i++ {
			if Visit(dyn.Instance(i), visitor) != -1 {
				return i
			}
		}
		return -1
	}
}

// ItemOffset returns the position of node index in the component's
// coordinate space: the sum of the origins of the node (when it is an item)
// and of all its ancestors. Subtracting it from a component position gives
// the node's local position.
func ItemOffset(c Component, tree *Tree, index int) item.Point {
	var offset item.Point
	for i := index; i >= 0; i = tree.parent[i] {
		n := tree.nodes[i]
		if n.Kind == NodeItem {
			offset = offset.Add(c.Items().At(n.Slot).Geometry().Origin)
		}
	}
	return offset
}
