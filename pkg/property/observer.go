package property

import (
	"sync/atomic"
	"time"
)

// Observer receives binding engine events. Implementations must be cheap;
// they run inline with every evaluation.
type Observer interface {
	// BindingEvaluated is called after a binding produced a value.
	BindingEvaluated(name string, d time.Duration)

	// BindingCycle is called when a cycle is detected, before Get panics.
	BindingCycle(err *CycleError)
}

type observerHolder struct {
	o Observer
}

var currentObserver atomic.Pointer[observerHolder]

// SetObserver installs o as the process-wide observer. Passing nil removes it.
func SetObserver(o Observer) {
	if o == nil {
		currentObserver.Store(nil)
		return
	}
	currentObserver.Store(&observerHolder{o: o})
}

func observer() Observer {
	if h := currentObserver.Load(); h != nil {
		return h.o
	}
	return nil
}
