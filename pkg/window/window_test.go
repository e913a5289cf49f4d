package window

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/input"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/model"
	"github.com/vango-dev/scene/pkg/property"
)

func place(x, y, w, h float32) component.SetupFunc {
	return func(it item.Item, _ *component.Instance) error {
		for name, v := range map[string]float32{"x": x, "y": y, "width": w, "height": h} {
			p, _ := it.Lookup(name)
			p.(*property.Property[float32]).Set(v)
		}
		return nil
	}
}

// newRoot builds a 200x200 root with one 50x20 touch area per element of
// rows, stacked from y=0.
func newRoot(t *testing.T, rows model.Model[any], clicked func(i int)) *component.Instance {
	t.Helper()
	def, err := component.NewBuilder(nil).Compile(&component.Element{
		Kind:  item.KindRectangle,
		Setup: place(0, 0, 200, 200),
		Children: []*component.Element{{
			Repeat: &component.Repeat{
				Name:  "buttons",
				Model: func(*component.Instance) (model.Model[any], error) { return rows, nil },
				Template: &component.Element{
					Kind: item.KindTouchArea,
					Setup: func(it item.Item, inst *component.Instance) error {
						ta := it.(*item.TouchArea)
						ta.Width.Set(50)
						ta.Height.Set(20)
						ta.Y.SetBinding(func() float32 { return 20 * float32(inst.ModelIndex.Get()) })
						ta.Clicked.SetHandler(func() { clicked(inst.ModelIndex.Peek()) })
						return nil
					},
				},
			},
		}},
	})
	require.NoError(t, err)
	root, err := def.New()
	require.NoError(t, err)
	return root
}

type durations struct {
	mu sync.Mutex
	n  int
}

func (d *durations) DispatchObserved(time.Duration) {
	d.mu.Lock()
	d.n++
	d.mu.Unlock()
}

func press(x, y float32) item.MouseEvent {
	return item.MouseEvent{Pos: item.Point{X: x, Y: y}, Kind: item.MousePressed}
}

func release(x, y float32) item.MouseEvent {
	return item.MouseEvent{Pos: item.Point{X: x, Y: y}, Kind: item.MouseReleased}
}

func TestDispatchSyncsModelBeforeEvents(t *testing.T) {
	rows := model.NewVec[any]("a")
	var clicks []int
	obs := &durations{}
	w := New(newRoot(t, rows, func(i int) { clicks = append(clicks, i) }), WithObserver(obs))
	ctx := context.Background()

	// Row 2 does not exist yet.
	result, err := w.Dispatch(ctx, press(10, 45))
	require.NoError(t, err)
	assert.Equal(t, item.EventIgnored, result)

	rows.Push("b", "c")
	result, err = w.Dispatch(ctx, press(10, 45))
	require.NoError(t, err)
	assert.Equal(t, item.GrabMouse, result)
	assert.Equal(t, "#1[2]/#0", w.Grab().String())

	result, err = w.Dispatch(ctx, release(10, 45))
	require.NoError(t, err)
	assert.Equal(t, item.EventAccepted, result)
	assert.True(t, w.Grab().IsFree())
	assert.Equal(t, []int{2}, clicks)

	assert.Equal(t, Stats{Events: 3, Ignored: 1, Accepted: 1, Grabbed: 1}, w.Stats())
	assert.Equal(t, 3, obs.n)
}

func TestDispatchReportsSyncErrors(t *testing.T) {
	boom := errors.New("boom")
	def, err := component.NewBuilder(nil).Compile(&component.Element{
		Kind: item.KindRectangle,
		Children: []*component.Element{{
			Repeat: &component.Repeat{
				Model:    func(*component.Instance) (model.Model[any], error) { return model.Slice[any]{1}, nil },
				Template: &component.Element{Kind: item.KindText, Setup: func(item.Item, *component.Instance) error { return boom }},
			},
		}},
	})
	require.NoError(t, err)
	root, err := def.New()
	require.NoError(t, err)

	w := New(root)
	result, err := w.Dispatch(context.Background(), press(0, 0))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, item.EventIgnored, result)
	assert.Equal(t, 1, w.Stats().Errors)
}

func TestRunStopsWhenEventsClose(t *testing.T) {
	var clicks []int
	w := New(newRoot(t, model.Erase[int](model.NewCount(3)), func(i int) { clicks = append(clicks, i) }))

	events := make(chan item.MouseEvent, 4)
	events <- press(10, 5)
	events <- release(10, 5)
	events <- press(10, 25)
	events <- release(10, 25)
	close(events)

	require.NoError(t, w.Run(context.Background(), events))
	assert.Equal(t, []int{0, 1}, clicks)
	assert.Equal(t, 4, w.Stats().Events)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := New(newRoot(t, model.Slice[any]{}, func(int) {}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, make(chan item.MouseEvent)) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestResizeAndSnapshot(t *testing.T) {
	w := New(newRoot(t, model.Slice[any]{"x", "y"}, func(int) {}))
	w.Resize(640, 480)

	var width float32
	w.Do(func(root *component.Instance) {
		width = root.WindowProperties().Width.Get()
	})
	assert.Equal(t, float32(640), width)

	snap, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Count())
	assert.NotEqual(t, "", w.ID().String())

	w.Close()
}

func TestBindingCycleBecomesError(t *testing.T) {
	def, err := component.NewBuilder(nil).Compile(&component.Element{
		Kind: item.KindRectangle,
		Setup: func(it item.Item, _ *component.Instance) error {
			r := it.(*item.Rectangle)
			r.Width.SetBinding(func() float32 { return r.Height.Get() })
			r.Height.SetBinding(func() float32 { return r.Width.Get() })
			return nil
		},
	})
	require.NoError(t, err)
	root, err := def.New()
	require.NoError(t, err)
	w := New(root)
	defer w.Close()

	_, err = w.Dispatch(context.Background(), press(1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, property.ErrBindingCycle))

	_, err = w.Snapshot()
	assert.True(t, errors.Is(err, property.ErrBindingCycle))

	// The window stays usable after a cycle.
	assert.True(t, w.Grab().IsFree())
}

type grabLog struct {
	transitions []string
}

func (g *grabLog) EventDispatched(item.MouseEventKind, item.InputEventResult, bool) {}

func (g *grabLog) GrabChanged(from, to input.Grab) {
	g.transitions = append(g.transitions, from.String()+">"+to.String())
}

func TestRunCountsCycleAndReleasesGrab(t *testing.T) {
	grabs := &grabLog{}
	w := New(newRoot(t, model.Slice[any]{"a"}, func(int) {}),
		WithDispatcher(input.NewDispatcher(input.WithObserver(grabs))))
	defer w.Close()

	result, err := w.Dispatch(context.Background(), press(10, 5))
	require.NoError(t, err)
	require.Equal(t, item.GrabMouse, result)
	require.Equal(t, "#1[0]/#0", w.Grab().String())

	w.Do(func(root *component.Instance) {
		ta := root.Repeater(0).Instance(0).Items().At(0).(*item.TouchArea)
		ta.Width.SetBinding(func() float32 { return ta.Width.Get() })
	})

	events := make(chan item.MouseEvent, 1)
	events <- release(10, 5)
	close(events)
	require.NoError(t, w.Run(context.Background(), events))

	assert.Equal(t, 1, w.Stats().Errors)
	assert.Equal(t, 2, w.Stats().Events)
	assert.True(t, w.Grab().IsFree())
	assert.Equal(t, []string{"free>#1[0]/#0", "#1[0]/#0>free"}, grabs.transitions)
}

func TestDispatchOutcomeCarriesGrab(t *testing.T) {
	w := New(newRoot(t, model.Slice[any]{"a", "b"}, func(int) {}))
	defer w.Close()

	out, err := w.DispatchOutcome(context.Background(), press(10, 25))
	require.NoError(t, err)
	assert.Equal(t, Outcome{Result: item.GrabMouse, Grab: input.GrabInstance(1, 1, input.GrabItem(0))}, out)

	out, err = w.DispatchOutcome(context.Background(), release(10, 25))
	require.NoError(t, err)
	assert.Equal(t, item.EventAccepted, out.Result)
	assert.True(t, out.Grab.IsFree())
}
