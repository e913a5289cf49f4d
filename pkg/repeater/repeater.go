package repeater

import (
	"log/slog"
	"time"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/itemtree"
	"github.com/vango-dev/scene/pkg/model"
	"github.com/vango-dev/scene/pkg/property"
)

// Instance is one repeated component instance.
type Instance[E any] interface {
	itemtree.Component

	// SetParent sets the non-owning back reference to the component that
	// holds the repeater.
	SetParent(parent itemtree.Component)

	// UpdateData initialises the instance with its model index and element.
	UpdateData(index int, data E)

	// Dispose releases the instance's properties.
	Dispose()
}

// Factory creates an empty instance.
type Factory[E any] func() Instance[E]

// Observer is notified after every rebuild.
type Observer interface {
	RepeaterRebuilt(name string, instances int, d time.Duration)
}

type options struct {
	name     string
	logger   *slog.Logger
	observer Observer
}

// Option configures a Repeater.
type Option func(*options)

// WithName sets the name used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver sets the rebuild observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Repeater owns the instances behind one dynamic node.
type Repeater[E any] struct {
	options
	factory   Factory[E]
	instances []Instance[E]

	model   model.Model[E]
	tracker *property.Property[int]
}

// New returns an empty repeater building its instances with factory.
func New[E any](factory Factory[E], opts ...Option) *Repeater[E] {
	r := &Repeater[E]{factory: factory}
	r.name = "repeater"
	for _, opt := range opts {
		opt(&r.options)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// UpdateModel discards every instance and rebuilds the list from m, then
// sets parent as each new instance's parent.
//
// The model is asked for its count before every Get. If it shrinks while
// the instances are initialised, the rebuild stops with an E102 error and
// keeps the instances built so far.
func (r *Repeater[E]) UpdateModel(m model.Model[E], parent itemtree.Component) error {
	start := time.Now()
	r.dispose()

	count := m.Count()
	r.instances = make([]Instance[E], 0, count)
	for i := 0; i < count; i++ {
		if n := m.Count(); i >= n {
			return errors.New("E102").
				WithDetailf("%s: index %d, model count %d", r.name, i, n)
		}
		inst := r.factory()
		inst.SetParent(parent)
		r.instances = append(r.instances, inst)
		inst.UpdateData(i, m.Get(i))
	}

	d := time.Since(start)
	r.logger.Debug("repeater rebuilt",
		slog.String("repeater", r.name),
		slog.Int("instances", len(r.instances)),
		slog.Duration("duration", d),
	)
	if r.observer != nil {
		r.observer.RepeaterRebuilt(r.name, len(r.instances), d)
	}
	return nil
}

// SetModel attaches the model used by Sync. The next Sync rebuilds.
func (r *Repeater[E]) SetModel(m model.Model[E]) {
	r.model = m
	if r.tracker == nil {
		r.tracker = property.NewBinding(r.trackModel, property.Named(r.name+".model"))
		return
	}
	r.tracker.SetBinding(r.trackModel)
}

// Model returns the model attached with SetModel.
func (r *Repeater[E]) Model() model.Model[E] {
	return r.model
}

func (r *Repeater[E]) trackModel() int {
	return r.model.Count()
}

// Sync rebuilds from the attached model if it changed since the last Sync,
// then syncs the nested repeaters of every instance. It reports whether
// this repeater was rebuilt.
func (r *Repeater[E]) Sync(parent itemtree.Component) (bool, error) {
	rebuilt := false
	if r.tracker != nil && r.tracker.IsDirty() {
		r.tracker.Peek()
		if err := r.UpdateModel(r.model, parent); err != nil {
			return true, err
		}
		rebuilt = true
	}
	for _, inst := range r.instances {
		if s, ok := inst.(interface{ Sync() error }); ok {
			if err := s.Sync(); err != nil {
				return rebuilt, err
			}
		}
	}
	return rebuilt, nil
}

// Visit walks each instance's items in order. It returns -1 when all
// instances were visited, or the index of the instance in which visitor
// stopped.
func (r *Repeater[E]) Visit(visitor itemtree.Visitor) int {
	for i, inst := range r.instances {
		if itemtree.Visit(inst, visitor) != -1 {
			return i
		}
	}
	return -1
}

// Len returns the number of live instances.
func (r *Repeater[E]) Len() int {
	return len(r.instances)
}

// Instance returns instance i as a component.
func (r *Repeater[E]) Instance(i int) itemtree.Component {
	return r.instances[i]
}

// At returns instance i.
func (r *Repeater[E]) At(i int) Instance[E] {
	return r.instances[i]
}

// Name returns the repeater's name.
func (r *Repeater[E]) Name() string {
	return r.name
}

// Dispose disposes every instance and detaches the model.
func (r *Repeater[E]) Dispose() {
	r.dispose()
	if r.tracker != nil {
		r.tracker.Dispose()
		r.tracker = nil
	}
	r.model = nil
}

func (r *Repeater[E]) dispose() {
	for _, inst := range r.instances {
		inst.Dispose()
	}
	clear(r.instances)
	r.instances = r.instances[:0]
}
