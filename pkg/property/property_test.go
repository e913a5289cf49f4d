package property

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPropertyLiteral(t *testing.T) {
	p := New(5)
	if p.Get() != 5 {
		t.Errorf("expected 5, got %d", p.Get())
	}

	p.Set(7)
	if p.Get() != 7 {
		t.Errorf("expected 7, got %d", p.Get())
	}
	if p.IsDirty() {
		t.Error("literal property should never be dirty")
	}
}

func TestPropertyZeroValue(t *testing.T) {
	var p Property[string]
	if p.Get() != "" {
		t.Errorf("zero property should hold zero value, got %q", p.Get())
	}
	p.Set("x")
	if p.Get() != "x" {
		t.Errorf("expected x, got %q", p.Get())
	}
}

func TestBindingIsLazy(t *testing.T) {
	evaluations := 0
	width := New(10)
	doubled := NewBinding(func() int {
		evaluations++
		return width.Get() * 2
	})

	if evaluations != 0 {
		t.Fatalf("binding should not run before first read, ran %d times", evaluations)
	}

	for i := 0; i < 10; i++ {
		if doubled.Get() != 20 {
			t.Fatalf("expected 20, got %d", doubled.Get())
		}
	}
	if evaluations != 1 {
		t.Errorf("expected 1 evaluation for 10 reads, got %d", evaluations)
	}
}

func TestSetInvalidatesWithoutEvaluating(t *testing.T) {
	evaluations := 0
	width := New(10)
	doubled := NewBinding(func() int {
		evaluations++
		return width.Get() * 2
	})
	_ = doubled.Get()

	width.Set(11)
	width.Set(12)
	width.Set(13)

	if evaluations != 1 {
		t.Errorf("Set should not evaluate dependents, got %d evaluations", evaluations)
	}
	if !doubled.IsDirty() {
		t.Error("dependent should be dirty after Set")
	}
	if doubled.Get() != 26 {
		t.Errorf("expected 26, got %d", doubled.Get())
	}
	if evaluations != 2 {
		t.Errorf("expected 2 evaluations, got %d", evaluations)
	}
}

func TestDiamondEvaluatesOnce(t *testing.T) {
	//         root
	//        /    \
	//       a      b
	//        \    /
	//          c
	root := New(1)
	var aRuns, bRuns, cRuns int

	a := NewBinding(func() int {
		aRuns++
		return root.Get() * 2
	})
	b := NewBinding(func() int {
		bRuns++
		return root.Get() * 3
	})
	c := NewBinding(func() int {
		cRuns++
		return a.Get() + b.Get()
	})

	if c.Get() != 5 {
		t.Fatalf("expected 5, got %d", c.Get())
	}

	root.Set(2)
	if c.Get() != 10 {
		t.Errorf("expected 10, got %d", c.Get())
	}
	if cRuns != 2 {
		t.Errorf("c should evaluate once per invalidation, got %d runs", cRuns)
	}
	if aRuns != 2 || bRuns != 2 {
		t.Errorf("a and b should evaluate twice, got %d and %d", aRuns, bRuns)
	}
}

func TestSetClearsBinding(t *testing.T) {
	bindingRuns := 0
	source := New(1)
	p := NewBinding(func() int {
		bindingRuns++
		return source.Get() + 100
	})
	_ = p.Get()

	p.Set(42)
	if p.HasBinding() {
		t.Error("Set should remove the binding")
	}
	if p.Get() != 42 {
		t.Errorf("expected 42, got %d", p.Get())
	}

	source.Set(2)
	if p.Get() != 42 {
		t.Errorf("old binding should not run after Set, got %d", p.Get())
	}
	if bindingRuns != 1 {
		t.Errorf("expected 1 binding run, got %d", bindingRuns)
	}
	if source.Dependents() != 0 {
		t.Errorf("Set should drop the old dependency edges, source has %d dependents", source.Dependents())
	}
}

func TestSetPropagatesThroughChain(t *testing.T) {
	base := New(2)
	doubled := NewBinding(func() int { return base.Get() * 2 })
	quadrupled := NewBinding(func() int { return doubled.Get() * 2 })

	if quadrupled.Get() != 8 {
		t.Fatalf("expected 8, got %d", quadrupled.Get())
	}

	base.Set(3)
	if !doubled.IsDirty() || !quadrupled.IsDirty() {
		t.Error("dirtiness should propagate transitively")
	}
	if quadrupled.Get() != 12 {
		t.Errorf("expected 12, got %d", quadrupled.Get())
	}
}

func TestSetBindingReplacesLiteral(t *testing.T) {
	width := New(10)
	p := New(1)
	observer := NewBinding(func() int { return p.Get() + 1 })
	_ = observer.Get()

	p.SetBinding(func() int { return width.Get() * 3 })
	if !p.IsDirty() {
		t.Error("SetBinding should mark the property dirty")
	}
	if !observer.IsDirty() {
		t.Error("SetBinding should mark dependents dirty")
	}
	if observer.Get() != 31 {
		t.Errorf("expected 31, got %d", observer.Get())
	}
}

func TestConditionalDependenciesAreRediscovered(t *testing.T) {
	useLeft := New(true)
	left := New("left")
	right := New("right")
	runs := 0

	chosen := NewBinding(func() string {
		runs++
		if useLeft.Get() {
			return left.Get()
		}
		return right.Get()
	})

	if chosen.Get() != "left" {
		t.Fatalf("expected left, got %q", chosen.Get())
	}

	// right was never read, so changing it must not invalidate.
	right.Set("RIGHT")
	if chosen.IsDirty() {
		t.Error("unread property should not invalidate the binding")
	}

	useLeft.Set(false)
	if chosen.Get() != "RIGHT" {
		t.Fatalf("expected RIGHT, got %q", chosen.Get())
	}

	// left is a stale edge now.
	left.Set("LEFT")
	if chosen.IsDirty() {
		t.Error("stale dependency should have been cleared")
	}
	if left.Dependents() != 0 {
		t.Errorf("left should have no dependents, got %d", left.Dependents())
	}
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestSelfCycleIsDetected(t *testing.T) {
	var x *Property[int]
	x = NewBinding(func() int {
		return x.Get() + 1
	}, Named("x"))

	_, err := x.TryGet()
	if err == nil {
		t.Fatal("expected a binding cycle error")
	}
	if !errors.Is(err, ErrBindingCycle) {
		t.Errorf("error should match ErrBindingCycle: %v", err)
	}

	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if strings.Join(cycle.Chain, ",") != "x,x" {
		t.Errorf("unexpected chain %v", cycle.Chain)
	}
}

func TestTransitiveCycleIsDetected(t *testing.T) {
	var a, b, c *Property[int]
	a = NewBinding(func() int { return b.Get() + 1 }, Named("a"))
	b = NewBinding(func() int { return c.Get() + 1 }, Named("b"))
	c = NewBinding(func() int { return a.Get() + 1 }, Named("c"))

	_, err := a.TryGet()
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if got := strings.Join(cycle.Chain, " -> "); got != "a -> b -> c -> a" {
		t.Errorf("chain = %q", got)
	}

	// The failed evaluation must leave the stack clean and the property
	// dirty, so the next attempt fails the same way instead of returning a
	// stale value.
	if Evaluating() {
		t.Error("evaluation stack should be empty after a cycle")
	}
	if !a.IsDirty() {
		t.Error("property should stay dirty after a failed evaluation")
	}
	if _, err := a.TryGet(); !errors.Is(err, ErrBindingCycle) {
		t.Errorf("second attempt should fail again, got %v", err)
	}
}

func TestGetPanicsOnCycle(t *testing.T) {
	var x *Property[int]
	x = NewBinding(func() int { return x.Get() })

	defer func() {
		r := recover()
		if _, ok := r.(*CycleError); !ok {
			t.Errorf("expected *CycleError panic, got %v", r)
		}
	}()
	x.Get()
}

func TestTryGetRepanicsForeignPanics(t *testing.T) {
	p := NewBinding(func() int { panic("boom") })

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected boom, got %v", r)
		}
	}()
	_, _ = p.TryGet()
}

func TestPeekDoesNotTrack(t *testing.T) {
	source := New(1)
	runs := 0
	p := NewBinding(func() int {
		runs++
		return source.Peek() * 10
	})

	if p.Get() != 10 {
		t.Fatalf("expected 10, got %d", p.Get())
	}
	source.Set(2)
	if p.IsDirty() {
		t.Error("Peek should not create a dependency")
	}
	if p.Get() != 10 {
		t.Errorf("expected cached 10, got %d", p.Get())
	}
}

func TestDisposeDropsEdges(t *testing.T) {
	source := New(1)
	p := NewBinding(func() int { return source.Get() + 1 })
	reader := NewBinding(func() int { return p.Get() * 2 })
	_ = reader.Get()

	p.Dispose()

	if source.Dependents() != 0 {
		t.Errorf("source should have no dependents after Dispose, got %d", source.Dependents())
	}
	if p.Dependents() != 0 {
		t.Errorf("disposed property should have no dependents, got %d", p.Dependents())
	}
	source.Set(5)
	if reader.IsDirty() {
		t.Error("disposed property should not propagate invalidation")
	}
}

func TestIndependentGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			base := New(g)
			sum := NewBinding(func() int { return base.Get() + 1 })
			for i := 0; i < 100; i++ {
				base.Set(i)
				if sum.Get() != i+1 {
					t.Errorf("goroutine %d: expected %d, got %d", g, i+1, sum.Get())
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

type recordingObserver struct {
	evaluated []string
	cycles    int
}

func (r *recordingObserver) BindingEvaluated(name string, _ time.Duration) {
	r.evaluated = append(r.evaluated, name)
}

func (r *recordingObserver) BindingCycle(*CycleError) {
	r.cycles++
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	SetObserver(obs)
	defer SetObserver(nil)

	width := New(3, Named("width"))
	area := NewBinding(func() int { return width.Get() * width.Get() }, Named("area"))
	_ = area.Get()
	_ = area.Get()

	var loop *Property[int]
	loop = NewBinding(func() int { return loop.Get() }, Named("loop"))
	_, _ = loop.TryGet()

	if len(obs.evaluated) != 1 || obs.evaluated[0] != "area" {
		t.Errorf("evaluated = %v, want [area]", obs.evaluated)
	}
	if obs.cycles != 1 {
		t.Errorf("cycles = %d, want 1", obs.cycles)
	}
}

func TestDefaultNameUsesID(t *testing.T) {
	p := New(0)
	if !strings.HasPrefix(p.String(), "property#") {
		t.Errorf("unexpected default name %q", p.String())
	}
	p.SetName("height")
	if p.String() != "height" {
		t.Errorf("expected height, got %q", p.String())
	}
}
