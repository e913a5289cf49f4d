package itemtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/scene/pkg/item"
)

// SnapshotNode is a serializable view of one node and its current geometry.
type SnapshotNode struct {
	Index     int             `json:"index"`
	Kind      string          `json:"kind"`
	Slot      int             `json:"slot,omitempty"`
	X         float32         `json:"x"`
	Y         float32         `json:"y"`
	Width     float32         `json:"width"`
	Height    float32         `json:"height"`
	Repeater  *int            `json:"repeater,omitempty"`
	Children  []SnapshotNode  `json:"children,omitempty"`
	Instances []*SnapshotNode `json:"instances,omitempty"`
}

// Snapshot captures c's tree, including every repeated instance, with the
// current geometry. Reading geometry may evaluate dirty bindings.
func Snapshot(c Component) *SnapshotNode {
	root := snapshotNode(c, c.ItemTree(), 0)
	return &root
}

func snapshotNode(c Component, tree *Tree, index int) SnapshotNode {
	n := tree.Node(index)
	out := SnapshotNode{Index: index}

	if n.Kind == NodeDynamic {
		rep := n.Repeater
		out.Kind = "repeater"
		out.Repeater = &rep
		if dyn := c.Dynamic(n.Repeater); dyn != nil {
			for i := 0; i < dyn.Len(); i++ {
				out.Instances = append(out.Instances, Snapshot(dyn.Instance(i)))
			}
		}
		return out
	}

	it := c.Items().At(n.Slot)
	g := it.Geometry()
	out.Kind = it.Kind()
	out.Slot = n.Slot
	out.X, out.Y = g.Origin.X, g.Origin.Y
	out.Width, out.Height = g.Width, g.Height

	first, end := n.Children()
	for j := first; j < end; j++ {
		out.Children = append(out.Children, snapshotNode(c, tree, j))
	}
	return out
}

// Dump writes an indented, human-readable listing of the snapshot.
func (s *SnapshotNode) Dump(w io.Writer) error {
	return s.dump(w, 0)
}

func (s *SnapshotNode) dump(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	if s.Repeater != nil {
		if _, err := fmt.Fprintf(w, "%s#%d repeater %d (%d instances)\n", indent, s.Index, *s.Repeater, len(s.Instances)); err != nil {
			return err
		}
		for i, inst := range s.Instances {
			if _, err := fmt.Fprintf(w, "%s  [%d]\n", indent, i); err != nil {
				return err
			}
			if err := inst.dump(w, depth+2); err != nil {
				return err
			}
		}
		return nil
	}

	rect := item.Rect{Origin: item.Point{X: s.X, Y: s.Y}, Width: s.Width, Height: s.Height}
	if _, err := fmt.Fprintf(w, "%s#%d %s %s\n", indent, s.Index, s.Kind, rect); err != nil {
		return err
	}
	for i := range s.Children {
		if err := s.Children[i].dump(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of items in the snapshot, repeated ones included.
func (s *SnapshotNode) Count() int {
	n := 0
	if s.Repeater == nil {
		n = 1
	}
	for i := range s.Children {
		n += s.Children[i].Count()
	}
	for _, inst := range s.Instances {
		n += inst.Count()
	}
	return n
}
