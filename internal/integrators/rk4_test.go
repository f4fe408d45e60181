package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/motionsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSemiImplicitEulerOrder(t *testing.T) {
	dyn := &harmonicOscillator{}
	x := NewSemiImplicitEuler().Step(dyn, dynamo.State{1.0, 0.0}, nil, 0, 0.1)

	// v = 0 + (-1)*0.1 = -0.1; x = 1 + (-0.1)*0.1 = 0.99
	if math.Abs(x[1]+0.1) > 1e-12 {
		t.Errorf("expected velocity -0.1, got %f", x[1])
	}
	if math.Abs(x[0]-0.99) > 1e-12 {
		t.Errorf("expected position 0.99 (uses new velocity), got %f", x[0])
	}
}

func TestIntegratorsStayBounded(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := ByName(name)
			if err != nil {
				t.Fatalf("ByName(%q) failed: %v", name, err)
			}
			x := dynamo.State{1.0, 0.0}
			for i := 0; i < 1000; i++ {
				x = integ.Step(&harmonicOscillator{}, x, nil, float64(i)*0.001, 0.001)
			}
			if !x.IsValid() || x.Norm() > 1.1 {
				t.Errorf("%s diverged: %v", name, x)
			}
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("rk45"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
	integ, err := ByName("")
	if err != nil {
		t.Fatalf("empty name should select default: %v", err)
	}
	if _, ok := integ.(*SemiImplicitEuler); !ok {
		t.Errorf("default should be semi-implicit Euler, got %T", integ)
	}
}
