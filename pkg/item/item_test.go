package item

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sceneerrors "github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/property"
)

func sized(b *Base, x, y, w, h float32) {
	b.X.Set(x)
	b.Y.Set(y)
	b.Width.Set(w)
	b.Height.Set(h)
}

func TestRectContains(t *testing.T) {
	r := Rect{Origin: Point{X: 10, Y: 20}, Width: 30, Height: 40}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 20}, true},
		{Point{39.9, 59.9}, true},
		{Point{40, 30}, false},
		{Point{20, 60}, false},
		{Point{9, 30}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Contains(tt.p), "Contains(%v)", tt.p)
	}
	assert.Equal(t, Rect{Width: 30, Height: 40}, r.Local())
}

func TestGeometryFollowsBindings(t *testing.T) {
	parent := NewRectangle()
	sized(&parent.Base, 0, 0, 200, 100)

	child := NewRectangle()
	child.Width.SetBinding(func() float32 { return parent.Width.Get() / 2 })
	child.Height.Set(10)

	assert.Equal(t, float32(100), child.Geometry().Width)

	parent.Width.Set(50)
	assert.Equal(t, float32(25), child.Geometry().Width)
}

func TestTouchAreaClick(t *testing.T) {
	ta := NewTouchArea()
	sized(&ta.Base, 0, 0, 100, 50)
	clicks := 0
	ta.Clicked.SetHandler(func() { clicks++ })

	assert.Equal(t, GrabMouse, ta.InputEvent(MouseEvent{Pos: Point{10, 10}, Kind: MousePressed}))
	assert.True(t, ta.Pressed.Get())
	assert.Equal(t, float32(10), ta.PressedX.Get())

	assert.Equal(t, GrabMouse, ta.InputEvent(MouseEvent{Pos: Point{20, 20}, Kind: MouseMoved}))
	assert.Equal(t, float32(20), ta.MouseX.Get())

	assert.Equal(t, EventAccepted, ta.InputEvent(MouseEvent{Pos: Point{30, 30}, Kind: MouseReleased}))
	assert.False(t, ta.Pressed.Get())
	assert.Equal(t, 1, clicks)
}

func TestTouchAreaReleaseOutsideDoesNotClick(t *testing.T) {
	ta := NewTouchArea()
	sized(&ta.Base, 0, 0, 100, 50)
	clicks := 0
	ta.Clicked.SetHandler(func() { clicks++ })

	ta.InputEvent(MouseEvent{Pos: Point{10, 10}, Kind: MousePressed})
	result := ta.InputEvent(MouseEvent{Pos: Point{300, 10}, Kind: MouseReleased})

	assert.Equal(t, EventAccepted, result)
	assert.Equal(t, 0, clicks)
}

func TestTouchAreaHoverIsAccepted(t *testing.T) {
	ta := NewTouchArea()
	sized(&ta.Base, 0, 0, 100, 50)
	assert.Equal(t, EventAccepted, ta.InputEvent(MouseEvent{Pos: Point{5, 5}, Kind: MouseMoved}))
}

func TestFlickableDragClamps(t *testing.T) {
	f := NewFlickable()
	sized(&f.Base, 0, 0, 100, 100)
	f.ViewportWidth.Set(100)
	f.ViewportHeight.Set(400)

	require.Equal(t, GrabMouse, f.InputEvent(MouseEvent{Pos: Point{50, 90}, Kind: MousePressed}))

	// Drag up by 80: the content scrolls by -80 vertically, horizontally
	// there is nothing to scroll.
	require.Equal(t, GrabMouse, f.InputEvent(MouseEvent{Pos: Point{20, 10}, Kind: MouseMoved}))
	assert.Equal(t, float32(0), f.ViewportX.Get())
	assert.Equal(t, float32(-80), f.ViewportY.Get())

	// Dragging past the end stops at size - viewport size.
	f.InputEvent(MouseEvent{Pos: Point{50, -1000}, Kind: MouseMoved})
	assert.Equal(t, float32(-300), f.ViewportY.Get())

	assert.Equal(t, EventAccepted, f.InputEvent(MouseEvent{Pos: Point{50, -1000}, Kind: MouseReleased}))
	assert.Equal(t, EventAccepted, f.InputEvent(MouseEvent{Pos: Point{50, 50}, Kind: MouseMoved}))
}

func TestStaticKindsIgnoreInput(t *testing.T) {
	for _, it := range []Item{NewRectangle(), NewBorderRectangle(), NewText(), NewImage(), NewListViewItem()} {
		assert.Equal(t, EventIgnored, it.InputEvent(MouseEvent{Kind: MousePressed}), it.Kind())
	}
}

func TestLookup(t *testing.T) {
	br := NewBorderRectangle()

	p, ok := br.Lookup("border_radius")
	require.True(t, ok)
	_, isFloat := p.(*property.Property[float32])
	assert.True(t, isFloat)

	p, ok = br.Lookup("color")
	require.True(t, ok)
	_, isColor := p.(*property.Property[Color])
	assert.True(t, isColor)

	_, ok = br.Lookup("width")
	assert.True(t, ok)

	_, ok = br.Lookup("nope")
	assert.False(t, ok)

	cb, ok := NewTouchArea().Lookup("clicked")
	require.True(t, ok)
	_, isCallback := cb.(*Callback)
	assert.True(t, isCallback)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	for _, kind := range reg.Kinds() {
		it, err := reg.New(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, it.Kind())
	}

	_, err := reg.New("Slider")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sceneerrors.New("E104")))

	reg.Register("Slider", func() Item { return NewRectangle() })
	_, err = reg.New("Slider")
	assert.NoError(t, err)
}

func TestArena(t *testing.T) {
	a := NewArena(2)
	r0 := a.Add(NewRectangle())
	r1 := a.Add(NewText())

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 0, r0.Slot())
	assert.Equal(t, KindText, r1.Item().Kind())
	assert.True(t, a.Ref(1).Valid())
	assert.False(t, a.Ref(2).Valid())
	assert.False(t, Ref{}.Valid())
	assert.Panics(t, func() { a.At(5) })
}

func TestDisposeReleasesEdges(t *testing.T) {
	root := NewRectangle()
	root.Width.Set(100)

	child := NewText()
	child.Width.SetBinding(func() float32 { return root.Width.Get() })
	_ = child.Geometry()
	require.Equal(t, 1, root.Width.Dependents())

	child.Dispose()
	assert.Equal(t, 0, root.Width.Dependents())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		str  string
	}{
		{"#ff0000", 0xffff0000, "#ff0000"},
		{"#00ff0080", 0x8000ff00, "#00ff0080"},
		{"white", 0xffffffff, "#ffffff"},
		{"Transparent", 0, "#00000000"},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, c, tt.in)
		assert.Equal(t, tt.str, c.String(), tt.in)
	}

	for _, bad := range []string{"ff0000", "#ff00", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseEventNames(t *testing.T) {
	for _, k := range []MouseEventKind{MousePressed, MouseReleased, MouseMoved, MouseExit} {
		got, err := ParseMouseEventKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for _, r := range []InputEventResult{EventIgnored, EventAccepted, GrabMouse} {
		got, err := ParseInputEventResult(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseMouseEventKind("wheel")
	assert.Error(t, err)
}
