package vmath

import (
	"math"
	"testing"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := V2(1, 2)
	b := V2(4, 6)

	if got := a.Add(b); got != V2(5, 8) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != V2(3, 4) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(3); got != V2(3, 6) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot failed: got %v", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance failed: got %v", got)
	}
	if got := a.Lerp(b, 0.5); got != V2(2.5, 4) {
		t.Errorf("Lerp failed: got %v", got)
	}
}

func TestVec2_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec2
		want Vec2
		ok   bool
	}{
		{"unit x", V2(3, 0), V2(1, 0), true},
		{"diagonal", V2(3, 4), V2(0.6, 0.8), true},
		{"zero", V2(0, 0), V2(0, 0), false},
		{"tiny", V2(1e-12, 0), V2(0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.TryNormalize()
			if ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("TryNormalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !tt.in.Normalize().IsValid() {
				t.Errorf("Normalize(%v) produced invalid vector", tt.in)
			}
		})
	}
}

func TestVec2_ClampLength(t *testing.T) {
	v := V2(30, 40)

	if got := v.ClampLength(10); math.Abs(got.Len()-10) > 1e-12 {
		t.Errorf("expected length 10, got %f", got.Len())
	}
	if got := v.ClampLength(100); got != v {
		t.Errorf("short vector should be unchanged, got %v", got)
	}
	if got := v.ClampLength(0); got != Zero2 {
		t.Errorf("zero max should give zero vector, got %v", got)
	}
}

func TestVec2_Rotate(t *testing.T) {
	got := V2(1, 0).Rotate(math.Pi / 2)
	if !got.ApproxEqual(V2(0, 1), 1e-12) {
		t.Errorf("Rotate(pi/2) = %v, want (0,1)", got)
	}
	if !V2(2, 0).Rotate(math.Pi).ApproxEqual(V2(-2, 0), 1e-12) {
		t.Error("Rotate(pi) should negate")
	}
}

func TestVec3(t *testing.T) {
	x := V3(1, 0, 0)
	y := V3(0, 1, 0)

	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("Cross failed: got %v", got)
	}
	if got := V3(2, 3, 6).Len(); got != 7 {
		t.Errorf("Len failed: got %v", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize should be zero, got %v", got)
	}
	if got := V3(0, 0, 10).ClampLength(2); got != V3(0, 0, 2) {
		t.Errorf("ClampLength failed: got %v", got)
	}
	if got := Vec3FromSlice([]float64{1, 2}); got != V3(1, 2, 0) {
		t.Errorf("Vec3FromSlice failed: got %v", got)
	}
}
