package item

import "fmt"

// MouseEventKind identifies what happened to the pointer.
type MouseEventKind uint8

const (
	MousePressed MouseEventKind = iota
	MouseReleased
	MouseMoved
	MouseExit
)

// String returns the lowercase name used in scene scripts.
func (k MouseEventKind) String() string {
	switch k {
	case MousePressed:
		return "pressed"
	case MouseReleased:
		return "released"
	case MouseMoved:
		return "moved"
	case MouseExit:
		return "exit"
	default:
		return fmt.Sprintf("MouseEventKind(%d)", uint8(k))
	}
}

// ParseMouseEventKind is the inverse of MouseEventKind.String.
func ParseMouseEventKind(s string) (MouseEventKind, error) {
	switch s {
	case "pressed", "press", "down":
		return MousePressed, nil
	case "released", "release", "up":
		return MouseReleased, nil
	case "moved", "move":
		return MouseMoved, nil
	case "exit":
		return MouseExit, nil
	}
	return 0, fmt.Errorf("unknown mouse event kind %q", s)
}

// MouseEvent is a pointer event. Pos is in the coordinate space of the
// receiver: window coordinates when entering the dispatcher, item-local
// coordinates when delivered to an item.
type MouseEvent struct {
	Pos  Point
	Kind MouseEventKind
}

func (e MouseEvent) String() string {
	return e.Kind.String() + e.Pos.String()
}

// InputEventResult is an item's answer to a mouse event.
type InputEventResult uint8

const (
	// EventIgnored means the item did not consume the event.
	EventIgnored InputEventResult = iota
	// EventAccepted means the item consumed the event.
	EventAccepted
	// GrabMouse means the item consumed the event and wants every
	// following event until it answers something else.
	GrabMouse
)

// String returns the snake_case name used in scene scripts.
func (r InputEventResult) String() string {
	switch r {
	case EventIgnored:
		return "ignored"
	case EventAccepted:
		return "accepted"
	case GrabMouse:
		return "grab_mouse"
	default:
		return fmt.Sprintf("InputEventResult(%d)", uint8(r))
	}
}

// ParseInputEventResult is the inverse of InputEventResult.String.
func ParseInputEventResult(s string) (InputEventResult, error) {
	switch s {
	case "ignored":
		return EventIgnored, nil
	case "accepted":
		return EventAccepted, nil
	case "grab_mouse", "grab":
		return GrabMouse, nil
	}
	return 0, fmt.Errorf("unknown input event result %q", s)
}
