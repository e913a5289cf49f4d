// Package property implements the reactive property cells that hold the
// geometric and visual state of items.
//
// A Property[T] holds either a literal value or a binding: a zero-argument
// function computing the value. Bindings are evaluated lazily and cached:
//
//	width := property.New[float32](100)
//	half := property.NewBinding(func() float32 {
//	    return width.Get() / 2
//	})
//
//	half.Get()     // runs the binding, records half -> width
//	half.Get()     // cached, no evaluation
//	width.Set(300) // marks half dirty, evaluates nothing
//	half.Get()     // runs the binding again: 150
//
// # Dependency tracking
//
// While a binding runs, its property sits on a per-goroutine evaluation
// stack. Every property read during that run registers the running property
// as one of its dependents. Edges are discarded before each evaluation and
// rediscovered, so a binding with conditional reads depends only on what it
// read last time.
//
// Set and SetBinding mark dependents dirty transitively but never evaluate
// them. A binding runs at most once per invalidation regardless of how many
// times it is read, and diamond-shaped graphs evaluate the bottom once.
//
// # Cycles
//
// Reading a property whose binding is already running is a cycle. Get panics
// with a *CycleError naming the chain; TryGet returns it as an error that
// matches ErrBindingCycle with errors.Is. The cycle never recurses.
//
// # Threading
//
// Property graphs are single threaded. A graph must be driven from one
// goroutine at a time; separate graphs may live on separate goroutines.
package property
