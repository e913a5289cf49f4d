package property

import (
	"runtime"
	"sync"
)

// trackingContext holds the evaluation stack for one goroutine.
// The binding engine is single threaded: a property graph belongs to the
// goroutine that drives it, and each goroutine gets its own stack so that
// independent graphs can live on independent goroutines.
type trackingContext struct {
	// stack holds the properties whose bindings are currently running,
	// innermost last. A read made while the stack is non-empty records a
	// dependency edge towards the top entry.
	stack []*node
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the "goroutine <id> " header of the runtime stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// current returns the property being evaluated, or nil.
func (c *trackingContext) current() *node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *trackingContext) push(n *node) {
	c.stack = append(c.stack, n)
}

func (c *trackingContext) pop() {
	c.stack[len(c.stack)-1] = nil
	c.stack = c.stack[:len(c.stack)-1]
}

// chainFrom returns the names of the stack entries from n to the top,
// followed by n again. It describes the cycle closed by re-reading n.
func (c *trackingContext) chainFrom(n *node) []string {
	start := 0
	for i, e := range c.stack {
		if e == n {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(c.stack)-start+1)
	for _, e := range c.stack[start:] {
		chain = append(chain, e.String())
	}
	return append(chain, n.String())
}

// Untracked runs fn without recording dependencies: properties read inside
// fn do not become dependencies of the binding currently being evaluated.
func Untracked(fn func()) {
	ctx := getTrackingContext()
	saved := ctx.stack
	ctx.stack = nil
	defer func() { ctx.stack = saved }()
	fn()
}

// Evaluating reports whether a binding is running on this goroutine.
func Evaluating() bool {
	return getTrackingContext().current() != nil
}
