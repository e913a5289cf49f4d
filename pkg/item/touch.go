package item

import "github.com/vango-dev/scene/pkg/property"

// TouchArea turns pointer input into a pressed state and a clicked callback.
// A press grabs the mouse so that the matching release reaches the area
// even when it happens outside of it.
type TouchArea struct {
	Base
	Pressed  property.Property[bool]
	MouseX   property.Property[float32]
	MouseY   property.Property[float32]
	PressedX property.Property[float32]
	PressedY property.Property[float32]
	Clicked  Callback
}

func NewTouchArea() *TouchArea {
	return &TouchArea{}
}

func (t *TouchArea) Kind() string { return KindTouchArea }

func (t *TouchArea) InputEvent(ev MouseEvent) InputEventResult {
	t.MouseX.Set(ev.Pos.X)
	t.MouseY.Set(ev.Pos.Y)

	switch ev.Kind {
	case MousePressed:
		t.PressedX.Set(ev.Pos.X)
		t.PressedY.Set(ev.Pos.Y)
		t.Pressed.Set(true)
		return GrabMouse
	case MouseMoved:
		if t.Pressed.Peek() {
			return GrabMouse
		}
		return EventAccepted
	case MouseReleased:
		wasPressed := t.Pressed.Peek()
		t.Pressed.Set(false)
		if wasPressed && t.Geometry().Local().Contains(ev.Pos) {
			t.Clicked.Emit()
		}
		return EventAccepted
	case MouseExit:
		t.Pressed.Set(false)
		return EventAccepted
	}
	return EventIgnored
}

func (t *TouchArea) Lookup(name string) (any, bool) {
	switch name {
	case "pressed":
		return &t.Pressed, true
	case "mouse_x":
		return &t.MouseX, true
	case "mouse_y":
		return &t.MouseY, true
	case "pressed_x":
		return &t.PressedX, true
	case "pressed_y":
		return &t.PressedY, true
	case "clicked":
		return &t.Clicked, true
	}
	return t.Base.Lookup(name)
}

func (t *TouchArea) Dispose() {
	t.Base.Dispose()
	t.Pressed.Dispose()
	t.MouseX.Dispose()
	t.MouseY.Dispose()
	t.PressedX.Dispose()
	t.PressedY.Dispose()
	t.Clicked.SetHandler(nil)
}

// Flickable is a scrollable viewport. Dragging it moves ViewportX and
// ViewportY, which stay within [min(0, size-viewport size), 0].
type Flickable struct {
	Base
	ViewportX      property.Property[float32]
	ViewportY      property.Property[float32]
	ViewportWidth  property.Property[float32]
	ViewportHeight property.Property[float32]

	dragging      bool
	pressPos      Point
	pressViewport Point
}

func NewFlickable() *Flickable {
	return &Flickable{}
}

func (f *Flickable) Kind() string { return KindFlickable }

func (f *Flickable) InputEvent(ev MouseEvent) InputEventResult {
	switch ev.Kind {
	case MousePressed:
		f.dragging = true
		f.pressPos = ev.Pos
		f.pressViewport = Point{X: f.ViewportX.Peek(), Y: f.ViewportY.Peek()}
		return GrabMouse
	case MouseMoved:
		if !f.dragging {
			return EventAccepted
		}
		target := f.pressViewport.Add(ev.Pos.Sub(f.pressPos))
		f.ViewportX.Set(clampViewport(target.X, f.Width.Peek(), f.ViewportWidth.Peek()))
		f.ViewportY.Set(clampViewport(target.Y, f.Height.Peek(), f.ViewportHeight.Peek()))
		return GrabMouse
	case MouseReleased, MouseExit:
		f.dragging = false
		return EventAccepted
	}
	return EventIgnored
}

func clampViewport(v, size, viewport float32) float32 {
	lowest := min(0, size-viewport)
	return max(lowest, min(v, 0))
}

func (f *Flickable) Lookup(name string) (any, bool) {
	switch name {
	case "viewport_x":
		return &f.ViewportX, true
	case "viewport_y":
		return &f.ViewportY, true
	case "viewport_width":
		return &f.ViewportWidth, true
	case "viewport_height":
		return &f.ViewportHeight, true
	}
	return f.Base.Lookup(name)
}

func (f *Flickable) Dispose() {
	f.Base.Dispose()
	f.ViewportX.Dispose()
	f.ViewportY.Dispose()
	f.ViewportWidth.Dispose()
	f.ViewportHeight.Dispose()
}
