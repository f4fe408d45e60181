package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

// Vec2 is an immutable 2D vector.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Zero2 is the zero vector.
var Zero2 = Vec2{}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) LenSqr() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) IsZero() bool { return v.LenSqr() < Epsilon*Epsilon }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	n, _ := v.TryNormalize()
	return n
}

// TryNormalize reports false when v is too short to define a direction.
func (v Vec2) TryNormalize() (Vec2, bool) {
	l := v.Len()
	if l < Epsilon {
		return Zero2, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

// ClampLength scales v down so its length does not exceed max.
// A non-positive max yields the zero vector.
func (v Vec2) ClampLength(max float64) Vec2 {
	if max <= 0 {
		return Zero2
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}

// Perp returns v rotated by +90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	r := mgl64.Rotate2D(angle).Mul2x1(mgl64.Vec2{v.X, v.Y})
	return Vec2{r[0], r[1]}
}

// Angle returns atan2(y, x).
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return mgl64.FloatEqualThreshold(v.X, o.X, eps) && mgl64.FloatEqualThreshold(v.Y, o.Y, eps)
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// FromAngle returns a vector of the given length pointing along angle.
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return mgl64.Clamp(x, lo, hi)
}

// ClampAbs limits x to [-max, max].
func ClampAbs(x, max float64) float64 {
	return mgl64.Clamp(x, -max, max)
}
