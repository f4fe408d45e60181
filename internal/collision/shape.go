package collision

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

// Shape is one of Circle, Rect, Polygon or Point. Geometry is in body-local
// coordinates centered on the body position.
type Shape interface {
	Kind() Kind
	// Bounds is the axis-aligned box of the shape placed at pos.
	Bounds(pos vmath.Vec2) AABB
	isShape()
}

type Kind int

const (
	KindCircle Kind = iota
	KindRect
	KindPolygon
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindPolygon:
		return "polygon"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

type Circle struct {
	Radius float64
}

// Rect is a box of width W and height H rotated by Rotation radians about
// its center.
type Rect struct {
	W, H     float64
	Rotation float64
}

// Polygon vertices are insertion ordered and closed implicitly.
type Polygon struct {
	Vertices []vmath.Vec2
}

type Point struct{}

func (Circle) Kind() Kind  { return KindCircle }
func (Rect) Kind() Kind    { return KindRect }
func (Polygon) Kind() Kind { return KindPolygon }
func (Point) Kind() Kind   { return KindPoint }

func (Circle) isShape()  {}
func (Rect) isShape()    {}
func (Polygon) isShape() {}
func (Point) isShape()   {}

func (c Circle) Bounds(pos vmath.Vec2) AABB {
	r := vmath.V2(c.Radius, c.Radius)
	return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
}

func (r Rect) Bounds(pos vmath.Vec2) AABB { return boundsOf(r.vertices(pos)) }

func (p Polygon) Bounds(pos vmath.Vec2) AABB { return boundsOf(p.world(pos)) }

func (Point) Bounds(pos vmath.Vec2) AABB { return AABB{Min: pos, Max: pos} }

// vertices returns the corners of r at pos in counter-clockwise order.
func (r Rect) vertices(pos vmath.Vec2) []vmath.Vec2 {
	hw, hh := r.W/2, r.H/2
	local := [4]vmath.Vec2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	out := make([]vmath.Vec2, 4)
	for i, v := range local {
		if r.Rotation != 0 {
			v = v.Rotate(r.Rotation)
		}
		out[i] = pos.Add(v)
	}
	return out
}

func (p Polygon) world(pos vmath.Vec2) []vmath.Vec2 {
	out := make([]vmath.Vec2, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = pos.Add(v)
	}
	return out
}

// Area is the unsigned area of p.
func (p Polygon) Area() float64 { return math.Abs(signedArea(p.Vertices)) }

// Degenerate reports a polygon with fewer than three vertices or no area.
func (p Polygon) Degenerate() bool {
	return len(p.Vertices) < 3 || p.Area() < vmath.Epsilon
}

func signedArea(vs []vmath.Vec2) float64 {
	sum := 0.0
	for i := range vs {
		sum += vs[i].Cross(vs[(i+1)%len(vs)])
	}
	return sum / 2
}

func centroid(vs []vmath.Vec2) vmath.Vec2 {
	c := vmath.Zero2
	for _, v := range vs {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(vs)))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min vmath.Vec2 `yaml:"min" json:"min"`
	Max vmath.Vec2 `yaml:"max" json:"max"`
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a AABB) Contains(p vmath.Vec2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

func (a AABB) Center() vmath.Vec2 { return a.Min.Add(a.Max).Scale(0.5) }

func (a AABB) Size() vmath.Vec2 { return a.Max.Sub(a.Min) }

func boundsOf(vs []vmath.Vec2) AABB {
	if len(vs) == 0 {
		return AABB{}
	}
	b := AABB{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		b.Min = vmath.V2(math.Min(b.Min.X, v.X), math.Min(b.Min.Y, v.Y))
		b.Max = vmath.V2(math.Max(b.Max.X, v.X), math.Max(b.Max.Y, v.Y))
	}
	return b
}
