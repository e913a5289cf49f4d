package item

import "github.com/vango-dev/scene/pkg/property"

// Item is the capability set of a visual item kind. Each kind is one
// implementation; dispatch goes through this interface.
type Item interface {
	// Kind returns the registered kind name, e.g. "Rectangle".
	Kind() string

	// Geometry returns the item's rectangle in its parent's coordinates.
	Geometry() Rect

	// InputEvent handles a mouse event whose position is already in the
	// item's local coordinates.
	InputEvent(ev MouseEvent) InputEventResult

	// Lookup returns the property or callback registered under name, as a
	// *property.Property[T] or *Callback.
	Lookup(name string) (any, bool)

	// Dispose releases every property's dependency edges.
	Dispose()
}

// Base holds the geometry properties shared by every built-in kind.
type Base struct {
	X      property.Property[float32]
	Y      property.Property[float32]
	Width  property.Property[float32]
	Height property.Property[float32]
}

// Geometry reads the four geometry properties.
func (b *Base) Geometry() Rect {
	return Rect{
		Origin: Point{X: b.X.Get(), Y: b.Y.Get()},
		Width:  b.Width.Get(),
		Height: b.Height.Get(),
	}
}

// Lookup resolves the geometry property names.
func (b *Base) Lookup(name string) (any, bool) {
	switch name {
	case "x":
		return &b.X, true
	case "y":
		return &b.Y, true
	case "width":
		return &b.Width, true
	case "height":
		return &b.Height, true
	}
	return nil, false
}

// Dispose disposes the geometry properties.
func (b *Base) Dispose() {
	b.X.Dispose()
	b.Y.Dispose()
	b.Width.Dispose()
	b.Height.Dispose()
}

// Callback is a settable event handler slot, such as TouchArea.clicked.
type Callback struct {
	handler func()
}

// SetHandler installs fn, replacing any previous handler.
func (c *Callback) SetHandler(fn func()) {
	c.handler = fn
}

// Emit runs the handler, if any.
func (c *Callback) Emit() {
	if c.handler != nil {
		c.handler()
	}
}
