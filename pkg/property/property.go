package property

import (
	"fmt"
	"time"
)

// node is the type-erased part of a property: identity, dirty state and the
// dependency edges shared by every Property[T].
type node struct {
	id   uint64
	name string

	// dirty means the cached value is stale and the binding must run
	// before the next read.
	dirty bool

	// evaluating is set while this property's binding is on the
	// evaluation stack. Reading the property in that state is a cycle.
	evaluating bool

	// dependents are the properties whose bindings read this one during
	// their last evaluation.
	dependents []*node

	// sources are the properties this one read during its last evaluation.
	sources []*node
}

// ID returns the property's unique identifier, assigning one on first use.
func (n *node) ID() uint64 {
	if n.id == 0 {
		n.id = nextID()
	}
	return n.id
}

func (n *node) String() string {
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("property#%d", n.ID())
}

// addDependent records that d read n. Deduplicated.
func (n *node) addDependent(d *node) {
	for _, existing := range n.dependents {
		if existing == d {
			return
		}
	}
	n.dependents = append(n.dependents, d)
	d.sources = append(d.sources, n)
}

// removeDependent drops d from n's dependents. Order is not preserved.
func (n *node) removeDependent(d *node) {
	for i, existing := range n.dependents {
		if existing == d {
			last := len(n.dependents) - 1
			n.dependents[i] = n.dependents[last]
			n.dependents[last] = nil
			n.dependents = n.dependents[:last]
			return
		}
	}
}

// clearSources removes every edge recorded by n's last evaluation.
func (n *node) clearSources() {
	for _, s := range n.sources {
		s.removeDependent(n)
	}
	clear(n.sources)
	n.sources = n.sources[:0]
}

// markDirty flags n and, transitively, everything that depends on it.
// A property that is already dirty has already propagated.
func (n *node) markDirty() {
	if n.dirty {
		return
	}
	n.dirty = true
	n.invalidateDependents()
}

func (n *node) invalidateDependents() {
	for _, d := range n.dependents {
		d.markDirty()
	}
}

// Property is a reactive value slot. It holds either a literal value or a
// binding that computes the value on demand.
//
// Bindings are lazy: Set and SetBinding only mark dependents dirty, and a
// dirty property re-runs its binding on the next Get. Reading a Property
// inside another property's binding records a dependency edge, discovered
// afresh on every evaluation.
//
// The zero value is a valid property holding the zero T. A Property must not
// be copied after first use.
type Property[T any] struct {
	node

	value   T
	binding func() T
}

// New returns a property holding value.
func New[T any](value T, opts ...Option) *Property[T] {
	p := &Property[T]{value: value}
	for _, opt := range opts {
		opt(&p.node)
	}
	return p
}

// NewBinding returns a property computed by fn. fn runs on the first Get.
func NewBinding[T any](fn func() T, opts ...Option) *Property[T] {
	p := &Property[T]{}
	for _, opt := range opts {
		opt(&p.node)
	}
	p.SetBinding(fn)
	return p
}

// Option configures a property created with New or NewBinding.
type Option func(*node)

// Named sets the name used in cycle reports and metrics.
func Named(name string) Option {
	return func(n *node) {
		n.name = name
	}
}

// SetName sets the name used in cycle reports and metrics.
func (p *Property[T]) SetName(name string) {
	p.name = name
}

// Set stores value, removes any binding and marks all dependents dirty.
// Dependents are not recomputed here; they recompute on their next read.
func (p *Property[T]) Set(value T) {
	p.binding = nil
	p.clearSources()
	p.value = value
	p.dirty = false
	p.invalidateDependents()
}

// SetBinding installs fn as the rule computing this property, discarding
// any literal value. The property and its dependents become dirty.
func (p *Property[T]) SetBinding(fn func() T) {
	p.binding = fn
	p.clearSources()
	p.markDirty()
}

// HasBinding reports whether a binding is installed.
func (p *Property[T]) HasBinding() bool {
	return p.binding != nil
}

// IsDirty reports whether the next Get will run the binding.
func (p *Property[T]) IsDirty() bool {
	return p.dirty
}

// Get returns the current value, running the binding first if the property
// is dirty. If a binding is being evaluated on this goroutine, the read
// makes that binding depend on p.
//
// Get panics with a *CycleError if p is read while its own binding is
// running. Use TryGet to receive the cycle as an error.
func (p *Property[T]) Get() T {
	ctx := getTrackingContext()

	if p.evaluating {
		err := &CycleError{Chain: ctx.chainFrom(&p.node)}
		if o := observer(); o != nil {
			o.BindingCycle(err)
		}
		panic(err)
	}

	if p.dirty {
		p.evaluate(ctx)
	}

	if current := ctx.current(); current != nil {
		p.addDependent(current)
	}

	return p.value
}

// TryGet is Get returning a binding cycle as an error instead of panicking.
// Panics other than *CycleError propagate unchanged.
func (p *Property[T]) TryGet() (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			cycle, ok := r.(*CycleError)
			if !ok {
				panic(r)
			}
			err = cycle
		}
	}()
	return p.Get(), nil
}

// Peek returns the current value without recording a dependency.
// A dirty binding is still evaluated.
func (p *Property[T]) Peek() (value T) {
	Untracked(func() {
		value = p.Get()
	})
	return value
}

// evaluate runs the binding with p on top of the evaluation stack.
// Stale edges from the previous run are dropped first, so the new edge set
// is exactly what this run reads.
func (p *Property[T]) evaluate(ctx *trackingContext) {
	if p.binding == nil {
		p.dirty = false
		return
	}

	p.clearSources()

	p.evaluating = true
	ctx.push(&p.node)
	defer func() {
		ctx.pop()
		p.evaluating = false
	}()

	start := time.Now()
	value := p.binding()

	p.value = value
	p.dirty = false

	if o := observer(); o != nil {
		o.BindingEvaluated(p.String(), time.Since(start))
	}
}

// Dispose drops the binding and every dependency edge in both directions.
// Dependents keep their cached values until their next evaluation.
func (p *Property[T]) Dispose() {
	p.binding = nil
	p.clearSources()
	for _, d := range p.dependents {
		d.dropSource(&p.node)
	}
	clear(p.dependents)
	p.dependents = p.dependents[:0]
	p.dirty = false
}

// dropSource removes s from n's sources without touching s.
func (n *node) dropSource(s *node) {
	for i, existing := range n.sources {
		if existing == s {
			n.sources = append(n.sources[:i], n.sources[i+1:]...)
			return
		}
	}
}

// Dependents returns the number of properties that read p during their last
// evaluation.
func (p *Property[T]) Dependents() int {
	return len(p.dependents)
}
