package input

import (
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
)

// HitTester is the dispatch routine for events arriving while the grab is
// free. It returns the result and, when the result is GrabMouse, the grab
// to establish. The event position is in the component's coordinates.
type HitTester func(c itemtree.Component, ev item.MouseEvent) (item.InputEventResult, Grab)

// HitTest delivers ev to the topmost item under the pointer.
//
// Later siblings are on top of earlier ones and children on top of their
// parent, so children are tried last to first before the parent itself.
// Repeated instances are tried last to first as well, with their root in
// the coordinate space of the dynamic node's parent. The first item that
// contains the pointer and does not answer EventIgnored consumes the event.
// Children are tried even when they lie outside their parent; there is no
// clipping.
func HitTest(c itemtree.Component, ev item.MouseEvent) (item.InputEventResult, Grab) {
	return hitNode(c, c.ItemTree(), 0, ev)
}

func hitNode(c itemtree.Component, tree *itemtree.Tree, index int, ev item.MouseEvent) (item.InputEventResult, Grab) {
	n := tree.Node(index)
	switch n.Kind {
	case itemtree.NodeItem:
		it := c.Items().At(n.Slot)
		geom := it.Geometry()
		local := item.MouseEvent{Pos: ev.Pos.Sub(geom.Origin), Kind: ev.Kind}

		first, end := n.Children()
		for j := end - 1; j >= first; j-- {
			if result, grab := hitNode(c, tree, j, local); result != item.EventIgnored {
				return result, grab
			}
		}

		if !geom.Contains(ev.Pos) {
			return item.EventIgnored, Free
		}
		result := it.InputEvent(local)
		if result == item.GrabMouse {
			return result, GrabItem(index)
		}
		return result, Free

	case itemtree.NodeDynamic:
		dyn := c.Dynamic(n.Repeater)
		if dyn == nil {
			return item.EventIgnored, Free
		}
		for i := dyn.Len() - 1; i >= 0; i-- {
			inst := dyn.Instance(i)
			result, grab := hitNode(inst, inst.ItemTree(), 0, ev)
			if result == item.EventIgnored {
				continue
			}
			if result == item.GrabMouse {
				return result, GrabInstance(index, i, grab)
			}
			return result, Free
		}
	}
	return item.EventIgnored, Free
}
