package collision

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

const (
	DefaultMass        = 1.0
	DefaultFriction    = 0.2
	DefaultRestitution = 0.5

	MinMass   = 1e-3
	MinRadius = 1e-3
	MinExtent = 1e-3
)

type Material struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

func DefaultMaterial() Material {
	return Material{Friction: DefaultFriction, Restitution: DefaultRestitution}
}

func (m Material) sanitize() Material {
	if math.IsNaN(m.Friction) || m.Friction < 0 {
		m.Friction = 0
	}
	if math.IsNaN(m.Restitution) {
		m.Restitution = DefaultRestitution
	}
	m.Restitution = vmath.Clamp(m.Restitution, 0, 1)
	return m
}

// Body is a rigid shape without rotation dynamics. Static bodies have
// infinite mass and never move.
type Body struct {
	ID       string
	Shape    Shape
	Position vmath.Vec2
	Velocity vmath.Vec2
	Mass     float64
	Material Material
	Static   bool
}

// InverseMass is zero for static bodies.
func (b *Body) InverseMass() float64 {
	if b.Static || math.IsInf(b.Mass, 1) {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) Bounds() AABB { return b.Shape.Bounds(b.Position) }

type BodyOption func(*Body)

func WithMass(m float64) BodyOption {
	return func(b *Body) { b.Mass = m }
}

func WithVelocity(v vmath.Vec2) BodyOption {
	return func(b *Body) { b.Velocity = v }
}

func WithMaterial(m Material) BodyOption {
	return func(b *Body) { b.Material = m }
}

func WithRestitution(e float64) BodyOption {
	return func(b *Body) { b.Material.Restitution = e }
}

func WithFriction(f float64) BodyOption {
	return func(b *Body) { b.Material.Friction = f }
}

// Static makes the body immovable.
func Static() BodyOption {
	return func(b *Body) { b.Static = true }
}

// WithRotation rotates a rectangle. Other shapes ignore it.
func WithRotation(angle float64) BodyOption {
	return func(b *Body) {
		if r, ok := b.Shape.(Rect); ok {
			r.Rotation = angle
			b.Shape = r
		}
	}
}

func newBody(id string, shape Shape, pos vmath.Vec2, opts []BodyOption) *Body {
	b := &Body{
		ID:       id,
		Shape:    shape,
		Position: pos,
		Mass:     DefaultMass,
		Material: DefaultMaterial(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sanitize()
	return b
}

func (b *Body) sanitize() {
	if math.IsNaN(b.Mass) || b.Mass < MinMass {
		b.Mass = MinMass
	}
	b.Material = b.Material.sanitize()
	if !b.Position.IsValid() {
		b.Position = vmath.Zero2
	}
	if !b.Velocity.IsValid() || b.Static {
		b.Velocity = vmath.Zero2
	}
	switch s := b.Shape.(type) {
	case Circle:
		if !(s.Radius >= MinRadius) {
			s.Radius = MinRadius
		}
		b.Shape = s
	case Rect:
		if !(s.W >= MinExtent) {
			s.W = MinExtent
		}
		if !(s.H >= MinExtent) {
			s.H = MinExtent
		}
		b.Shape = s
	case Polygon:
		vs := make([]vmath.Vec2, len(s.Vertices))
		copy(vs, s.Vertices)
		b.Shape = Polygon{Vertices: vs}
	case nil:
		b.Shape = Point{}
	}
}

func NewCircle(id string, pos vmath.Vec2, radius float64, opts ...BodyOption) *Body {
	return newBody(id, Circle{Radius: radius}, pos, opts)
}

func NewRect(id string, pos vmath.Vec2, w, h float64, opts ...BodyOption) *Body {
	return newBody(id, Rect{W: w, H: h}, pos, opts)
}

// NewPolygon copies vertices, given relative to pos.
func NewPolygon(id string, pos vmath.Vec2, vertices []vmath.Vec2, opts ...BodyOption) *Body {
	return newBody(id, Polygon{Vertices: vertices}, pos, opts)
}

func NewPoint(id string, pos vmath.Vec2, opts ...BodyOption) *Body {
	return newBody(id, Point{}, pos, opts)
}

// BoundaryWalls builds four static rectangles of the given thickness
// enclosing the region [min, max]. Their inner faces lie on the region
// edges. Ids are prefix-left, prefix-right, prefix-top and prefix-bottom.
func BoundaryWalls(prefix string, min, max vmath.Vec2, thickness float64, opts ...BodyOption) []*Body {
	if !(thickness >= MinExtent) {
		thickness = MinExtent
	}
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	w, h := max.X-min.X, max.Y-min.Y
	mid := min.Add(max).Scale(0.5)
	t := thickness
	opts = append(append([]BodyOption(nil), opts...), Static())

	return []*Body{
		NewRect(prefix+"-left", vmath.V2(min.X-t/2, mid.Y), t, h+2*t, opts...),
		NewRect(prefix+"-right", vmath.V2(max.X+t/2, mid.Y), t, h+2*t, opts...),
		NewRect(prefix+"-top", vmath.V2(mid.X, min.Y-t/2), w+2*t, t, opts...),
		NewRect(prefix+"-bottom", vmath.V2(mid.X, max.Y+t/2), w+2*t, t, opts...),
	}
}
