package item

import "fmt"

// Point is a position in logical pixels.
type Point struct {
	X, Y float32
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle. Origin is relative to the parent item.
type Rect struct {
	Origin        Point
	Width, Height float32
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.Origin.X+r.Width &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+r.Height
}

// Local returns r moved to the origin: the rectangle in its own coordinate
// space.
func (r Rect) Local() Rect {
	return Rect{Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@%s", r.Width, r.Height, r.Origin)
}
