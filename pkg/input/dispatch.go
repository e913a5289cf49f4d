package input

import (
	"log/slog"

	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
)

// Observer is notified of every dispatched event and grab transition.
type Observer interface {
	EventDispatched(kind item.MouseEventKind, result item.InputEventResult, grabbed bool)
	GrabChanged(from, to Grab)
}

// Dispatcher runs the grab state machine. The zero value uses HitTest and
// slog.Default().
type Dispatcher struct {
	// HitTest handles events while the grab is free.
	HitTest HitTester

	Logger   *slog.Logger
	Observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHitTester replaces the routine used while the grab is free.
func WithHitTester(h HitTester) Option {
	return func(d *Dispatcher) { d.HitTest = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.Logger = l }
}

// WithObserver sets the dispatch observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.Observer = o }
}

// NewDispatcher returns a dispatcher configured by opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDispatcher Dispatcher

// ProcessInputEvent dispatches ev with the default dispatcher.
func ProcessInputEvent(c itemtree.Component, grab *Grab, ev item.MouseEvent) item.InputEventResult {
	return defaultDispatcher.ProcessInputEvent(c, grab, ev)
}

// ProcessInputEvent delivers ev, whose position is in c's coordinates, and
// updates grab.
//
// With a grab held, the event goes straight to the grabber, translated by
// the grabber's offset, without hit testing; the grab is released unless
// the grabber answers GrabMouse. A grab naming an item that no longer
// exists is released and the event is ignored. With the grab free, the
// hit tester decides, and a GrabMouse answer installs the grab it returns.
func (d *Dispatcher) ProcessInputEvent(c itemtree.Component, grab *Grab, ev item.MouseEvent) item.InputEventResult {
	from := *grab
	grabbed := grab.Active

	var result item.InputEventResult
	if grabbed {
		var ok bool
		result, ok = deliverGrabbed(c, *grab, ev)
		if !ok {
			d.logger().Warn("stale mouse grab released",
				slog.String("grab", grab.String()),
				slog.String("event", ev.Kind.String()),
			)
			result = item.EventIgnored
		}
		if result != item.GrabMouse {
			*grab = Free
		}
	} else {
		hit := d.HitTest
		if hit == nil {
			hit = HitTest
		}
		var target Grab
		result, target = hit(c, ev)
		if result == item.GrabMouse {
			*grab = target
		}
	}

	d.logger().Debug("input event",
		slog.String("event", ev.Kind.String()),
		slog.String("pos", ev.Pos.String()),
		slog.String("result", result.String()),
		slog.Bool("grabbed", grabbed),
	)
	if d.Observer != nil {
		d.Observer.EventDispatched(ev.Kind, result, grabbed)
	}
	if !from.Equal(*grab) {
		d.logger().Debug("mouse grab changed",
			slog.String("from", from.String()),
			slog.String("to", grab.String()),
		)
		if d.Observer != nil {
			d.Observer.GrabChanged(from, *grab)
		}
	}
	return result
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// deliverGrabbed sends ev to the item g names. It reports false if g does
// not resolve to an item.
func deliverGrabbed(c itemtree.Component, g Grab, ev item.MouseEvent) (item.InputEventResult, bool) {
	tree := c.ItemTree()
	if g.Item < 0 || g.Item >= tree.Len() {
		return item.EventIgnored, false
	}

	local := item.MouseEvent{
		Pos:  ev.Pos.Sub(itemtree.ItemOffset(c, tree, g.Item)),
		Kind: ev.Kind,
	}

	n := tree.Node(g.Item)
	switch n.Kind {
	case itemtree.NodeItem:
		if g.Inner != nil {
			return item.EventIgnored, false
		}
		return c.Items().At(n.Slot).InputEvent(local), true
	case itemtree.NodeDynamic:
		dyn := c.Dynamic(n.Repeater)
		if g.Inner == nil || dyn == nil || g.Instance < 0 || g.Instance >= dyn.Len() {
			return item.EventIgnored, false
		}
		return deliverGrabbed(dyn.Instance(g.Instance), *g.Inner, local)
	}
	return item.EventIgnored, false
}
