package field

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

// Shape is the footprint of a field around its center.
type Shape int

const (
	Circular Shape = iota
	Elliptical
	Rectangular
)

var shapeNames = map[Shape]string{
	Circular:    "circular",
	Elliptical:  "elliptical",
	Rectangular: "rectangular",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "circular"
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	*s = Circular
	for k, n := range shapeNames {
		if n == string(b) {
			*s = k
		}
	}
	return nil
}

// Sample is a pointer position expressed relative to a field.
type Sample struct {
	// Offset is the raw displacement from the field center to the pointer.
	Offset vmath.Vec2
	// Position is Offset divided by the field extents, clamped to [-1,1].
	Position           vmath.Vec2
	Distance           float64
	NormalizedDistance float64
	Angle              float64
	Elapsed            float64
}

// InRange reports whether the sample lies inside the field footprint.
// Callers filter out-of-range samples before evaluating.
func (s Sample) InRange() bool { return s.NormalizedDistance <= 1 }

// NewSample measures pointer against a field of the given footprint
// centered at center. elapsed is seconds since the field became active and
// drives time-varying flows.
func NewSample(cfg Config, pointer, center vmath.Vec2, elapsed float64) Sample {
	cfg = cfg.Sanitize()
	off := pointer.Sub(center)
	rx, ry := cfg.extents()

	norm := vmath.V2(off.X/rx, off.Y/ry)
	var nd float64
	switch cfg.Shape {
	case Elliptical:
		nd = norm.Len()
	case Rectangular:
		nd = math.Max(math.Abs(norm.X), math.Abs(norm.Y))
	default:
		nd = off.Len() / cfg.Radius
	}

	return Sample{
		Offset:             off,
		Position:           vmath.V2(vmath.Clamp(norm.X, -1, 1), vmath.Clamp(norm.Y, -1, 1)),
		Distance:           off.Len(),
		NormalizedDistance: nd,
		Angle:              off.Angle(),
		Elapsed:            elapsed,
	}
}
