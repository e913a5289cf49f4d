// Package window hosts a component instance and feeds it pointer events.
//
// A Window owns the mouse grab of one pointer stream. Before each event it
// brings repeated content in line with the models, then runs the grab
// state machine of package input. All access to the component goes
// through the window, one call at a time, so the component itself never
// sees two goroutines.
package window

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/input"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
	"github.com/vango-dev/scene/pkg/property"
)

const defaultTracerName = "scene/window"

// DispatchObserver is notified of the duration of every dispatch.
type DispatchObserver interface {
	DispatchObserved(d time.Duration)
}

// Stats counts dispatched events by result.
type Stats struct {
	Events   int `json:"events"`
	Ignored  int `json:"ignored"`
	Accepted int `json:"accepted"`
	Grabbed  int `json:"grabbed"`
	Errors   int `json:"errors"`
}

// Window drives one component instance.
type Window struct {
	id         uuid.UUID
	root       *component.Instance
	dispatcher *input.Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	observer   DispatchObserver

	mu    sync.Mutex
	grab  input.Grab
	stats Stats
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Window) { w.logger = l }
}

// WithDispatcher sets the input dispatcher.
func WithDispatcher(d *input.Dispatcher) Option {
	return func(w *Window) { w.dispatcher = d }
}

// WithTracerName sets the tracer resolved from the global provider.
func WithTracerName(name string) Option {
	return func(w *Window) { w.tracer = otel.Tracer(name) }
}

// WithObserver sets the dispatch observer.
func WithObserver(o DispatchObserver) Option {
	return func(w *Window) { w.observer = o }
}

// New returns a window showing root.
func New(root *component.Instance, opts ...Option) *Window {
	w := &Window{
		id:   uuid.New(),
		root: root,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With(slog.String("window", w.id.String()))
	if w.dispatcher == nil {
		w.dispatcher = input.NewDispatcher(input.WithLogger(w.logger))
	}
	if w.tracer == nil {
		w.tracer = otel.Tracer(defaultTracerName)
	}
	return w
}

// ID returns the window's unique id.
func (w *Window) ID() uuid.UUID {
	return w.id
}

// Resize sets the window properties of the root component.
func (w *Window) Resize(width, height float32) {
	w.Do(func(root *component.Instance) {
		wp := root.WindowProperties()
		wp.Width.Set(width)
		wp.Height.Set(height)
	})
}

// Outcome is the result of one dispatch and the grab it left behind.
type Outcome struct {
	Result item.InputEventResult
	Grab   input.Grab
}

// Dispatch syncs repeated content and delivers ev. A sync failure is
// returned with EventIgnored and the event is not delivered.
//
// A binding cycle hit while delivering the event is returned as a
// *property.CycleError; the grab is released and the event ignored.
func (w *Window) Dispatch(ctx context.Context, ev item.MouseEvent) (item.InputEventResult, error) {
	out, err := w.DispatchOutcome(ctx, ev)
	return out.Result, err
}

// DispatchOutcome is Dispatch also returning the grab left by ev, read in
// the same critical section.
func (w *Window) DispatchOutcome(ctx context.Context, ev item.MouseEvent) (out Outcome, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, span := w.tracer.Start(ctx, "scene.dispatch",
		trace.WithAttributes(
			attribute.String("scene.window", w.id.String()),
			attribute.String("scene.event", ev.Kind.String()),
			attribute.String("scene.grab", w.grab.String()),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		if w.observer != nil {
			w.observer.DispatchObserved(time.Since(start))
		}
	}()

	w.stats.Events++
	if err := w.sync(); err != nil {
		w.fail(span, "sync before dispatch failed", err)
		return Outcome{Result: item.EventIgnored, Grab: w.grab}, err
	}

	result, err := w.deliver(ev)
	if err != nil {
		w.fail(span, "dispatch failed", err)
		w.release()
		return Outcome{Result: item.EventIgnored, Grab: w.grab}, err
	}
	switch result {
	case item.EventIgnored:
		w.stats.Ignored++
	case item.EventAccepted:
		w.stats.Accepted++
	case item.GrabMouse:
		w.stats.Grabbed++
	}

	span.SetAttributes(attribute.String("scene.result", result.String()))
	span.SetStatus(codes.Ok, "")
	return Outcome{Result: result, Grab: w.grab}, nil
}

func (w *Window) sync() (err error) {
	defer recoverCycle(&err)
	return w.root.Sync()
}

func (w *Window) deliver(ev item.MouseEvent) (result item.InputEventResult, err error) {
	defer recoverCycle(&err)
	return w.dispatcher.ProcessInputEvent(w.root, &w.grab, ev), nil
}

// fail counts, records and logs a failed dispatch.
func (w *Window) fail(span trace.Span, msg string, err error) {
	w.stats.Errors++
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	w.logger.Error(msg, slog.Any("error", err))
}

// release frees the grab after a failed delivery.
func (w *Window) release() {
	if w.grab.IsFree() {
		return
	}
	from := w.grab
	w.grab = input.Free
	w.logger.Warn("grab released after failed dispatch", slog.String("grab", from.String()))
	if o := w.dispatcher.Observer; o != nil {
		o.GrabChanged(from, input.Free)
	}
}

// Run dispatches events until the channel is closed or ctx is done. It
// returns ctx.Err() when cancelled and nil once events is closed. Dispatch
// errors, binding cycles included, are logged and counted by Dispatch and
// do not stop the loop.
func (w *Window) Run(ctx context.Context, events <-chan item.MouseEvent) error {
	w.logger.Info("window running")
	defer w.logger.Info("window stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			_, _ = w.Dispatch(ctx, ev)
		}
	}
}

// Sync brings repeated content in line with the models without delivering
// an event.
func (w *Window) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root.Sync()
}

// Do runs fn with exclusive access to the root component.
func (w *Window) Do(fn func(root *component.Instance)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.root)
}

// Grab returns the current grab.
func (w *Window) Grab() input.Grab {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grab
}

// Stats returns the dispatch counters.
func (w *Window) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Snapshot syncs and captures the item tree.
func (w *Window) Snapshot() (snap *itemtree.SnapshotNode, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer recoverCycle(&err)
	if err := w.root.Sync(); err != nil {
		return nil, err
	}
	return itemtree.Snapshot(w.root), nil
}

// recoverCycle turns a binding cycle panic into an error. Other panics
// propagate.
func recoverCycle(err *error) {
	if r := recover(); r != nil {
		cycle, ok := r.(*property.CycleError)
		if !ok {
			panic(r)
		}
		*err = cycle
	}
}

// Close releases the root component.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.root.Dispose()
}
