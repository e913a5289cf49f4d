package input

import (
	"strconv"
	"strings"
)

// Grab identifies the item holding the mouse grab, or no item at all.
// The zero value is Free.
//
// Item is a node index in the component's tree. When that node is dynamic,
// Instance selects the repeated instance and Inner is the grab inside it,
// so a grab can sit at any nesting depth.
type Grab struct {
	Active   bool
	Item     int
	Instance int
	Inner    *Grab
}

// Free is the state with no grabber.
var Free = Grab{}

// GrabItem returns a grab on node index of the component's own tree.
func GrabItem(index int) Grab {
	return Grab{Active: true, Item: index}
}

// GrabInstance returns a grab on an item inside instance of the dynamic
// node index.
func GrabInstance(index, instance int, inner Grab) Grab {
	return Grab{Active: true, Item: index, Instance: instance, Inner: &inner}
}

// IsFree reports whether no item holds the grab.
func (g Grab) IsFree() bool {
	return !g.Active
}

// Depth returns how many dynamic nodes the grab path crosses.
func (g Grab) Depth() int {
	depth := 0
	for inner := g.Inner; inner != nil; inner = inner.Inner {
		depth++
	}
	return depth
}

// Equal reports whether g and other name the same item.
func (g Grab) Equal(other Grab) bool {
	if g.Active != other.Active {
		return false
	}
	if !g.Active {
		return true
	}
	if g.Item != other.Item || (g.Inner == nil) != (other.Inner == nil) {
		return false
	}
	if g.Inner == nil {
		return true
	}
	return g.Instance == other.Instance && g.Inner.Equal(*other.Inner)
}

// String formats the grab path, e.g. "free", "#1" or "#2[0]/#1".
func (g Grab) String() string {
	if !g.Active {
		return "free"
	}
	var b strings.Builder
	for cur := &g; cur != nil; cur = cur.Inner {
		if cur != &g {
			b.WriteByte('/')
		}
		b.WriteByte('#')
		b.WriteString(strconv.Itoa(cur.Item))
		if cur.Inner != nil {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(cur.Instance))
			b.WriteByte(']')
		}
	}
	return b.String()
}
