package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is an immutable 3D vector.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromMgl(m mgl64.Vec3) Vec3 { return Vec3{m[0], m[1], m[2]} }

func (v Vec3) Add(o Vec3) Vec3 { return fromMgl(v.mgl().Add(o.mgl())) }

func (v Vec3) Sub(o Vec3) Vec3 { return fromMgl(v.mgl().Sub(o.mgl())) }

func (v Vec3) Scale(f float64) Vec3 { return fromMgl(v.mgl().Mul(f)) }

func (v Vec3) Dot(o Vec3) float64 { return v.mgl().Dot(o.mgl()) }

func (v Vec3) Cross(o Vec3) Vec3 { return fromMgl(v.mgl().Cross(o.mgl())) }

func (v Vec3) Len() float64 { return v.mgl().Len() }

func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// Normalize returns the unit vector, or the zero vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ClampLength scales v down so its length does not exceed max.
func (v Vec3) ClampLength(max float64) Vec3 {
	if max <= 0 {
		return Vec3{}
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}

// XY drops the z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Slice returns the components as a slice, for solvers that work per dimension.
func (v Vec3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }

// Slice returns the components as a slice.
func (v Vec2) Slice() []float64 { return []float64{v.X, v.Y} }

// Vec2FromSlice reads the first two components of s; missing entries are zero.
func Vec2FromSlice(s []float64) Vec2 {
	var v Vec2
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	return v
}

// Vec3FromSlice reads the first three components of s; missing entries are zero.
func Vec3FromSlice(s []float64) Vec3 {
	var v Vec3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}
