package spring

import (
	"math"
	"testing"
)

func runUntilRest(s *Solver, max int) (steps int, maxPos float64) {
	maxPos = math.Inf(-1)
	for steps = 0; steps < max; steps++ {
		st := s.Update()
		maxPos = math.Max(maxPos, st.Position[0])
		if st.AtRest {
			return steps + 1, maxPos
		}
	}
	return steps, maxPos
}

func TestSpringAtTargetRestsImmediately(t *testing.T) {
	tests := []struct {
		name                    string
		tension, friction, mass float64
	}{
		{"default", DefaultTension, DefaultFriction, DefaultMass},
		{"soft", 10, 1, 5},
		{"stiff", 500, 40, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Tension, cfg.Friction, cfg.Mass = tt.tension, tt.friction, tt.mass
			s := New(cfg, 1)
			s.Reset([]float64{5})
			s.SetTarget([]float64{5})

			if st := s.Update(); !st.AtRest {
				t.Fatal("expected rest on first update")
			}
			for i := 0; i < 10; i++ {
				st := s.Update()
				if !st.AtRest || st.Position[0] != 5 || st.Velocity[0] != 0 {
					t.Fatalf("update %d not idempotent: %+v", i, st)
				}
			}
		})
	}
}

func TestSpringConverges(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, _ := Preset(name)
			s := New(cfg, 1)
			s.SetTarget([]float64{100})

			steps, _ := runUntilRest(s, 5000)
			if !s.AtRest() {
				t.Fatalf("did not settle after %d steps", steps)
			}
			if got := s.State().Position[0]; got != 100 {
				t.Errorf("expected to settle on 100, got %f", got)
			}
		})
	}
}

func TestSpringClampPreventsOvershoot(t *testing.T) {
	cfg, _ := Preset("wobbly")
	free := New(cfg, 1)
	free.SetTarget([]float64{100})
	_, freeMax := runUntilRest(free, 5000)
	if freeMax <= 100 {
		t.Fatalf("wobbly spring should overshoot without clamp, max %f", freeMax)
	}

	cfg.Clamp = true
	clamped := New(cfg, 1)
	clamped.SetTarget([]float64{100})
	_, clampedMax := runUntilRest(clamped, 5000)
	if clampedMax > 100 {
		t.Errorf("clamped spring overshot: max %f", clampedMax)
	}
	if !clamped.AtRest() {
		t.Error("clamped spring did not settle")
	}
}

func TestSpringMaxVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxVelocity = 50
	s := New(cfg, 2)
	s.SetTarget([]float64{1000, -1000}, WithVelocity(400, 0))

	for i := 0; i < 600; i++ {
		st := s.Update()
		speed := math.Hypot(st.Velocity[0], st.Velocity[1])
		if speed > 50+1e-9 {
			t.Fatalf("step %d: speed %f exceeds max", i, speed)
		}
	}
}

func TestSpringSanitize(t *testing.T) {
	cfg := Config{Tension: -1, Friction: math.NaN(), Mass: -5, FrameRate: -30, MaxSubsteps: 0}
	s := New(cfg, 0)

	got := s.Config()
	if got.Mass != MinMass {
		t.Errorf("expected mass clamped to %f, got %f", MinMass, got.Mass)
	}
	if got.Tension != 0 {
		t.Errorf("expected tension clamped to 0, got %f", got.Tension)
	}
	if got.Friction != DefaultFriction {
		t.Errorf("expected NaN friction to fall back to default, got %f", got.Friction)
	}
	if got.FrameRate != minFrameRate || got.MaxSubsteps != 1 {
		t.Errorf("frame rate/substeps not clamped: %+v", got)
	}
	if s.Dims() != 1 {
		t.Errorf("expected 1 dimension, got %d", s.Dims())
	}
}

func TestSpringStiffLightMassStaysFinite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tension, cfg.Mass = 2000, 0.01
	s := New(cfg, 1)
	s.SetTarget([]float64{10})

	runUntilRest(s, 10000)
	st := s.State()
	if math.IsNaN(st.Position[0]) || math.IsInf(st.Position[0], 0) {
		t.Fatalf("diverged: %+v", st)
	}
	if !st.AtRest {
		t.Error("stiff spring did not settle")
	}
}

func TestSpringTickAccumulates(t *testing.T) {
	a := New(DefaultConfig(), 1)
	b := New(DefaultConfig(), 1)
	a.SetTarget([]float64{10})
	b.SetTarget([]float64{10})

	a.Tick(1.0 / 30)
	b.Update()
	b.Update()

	if a.State().Position[0] != b.State().Position[0] {
		t.Errorf("Tick(1/30) should equal two fixed steps: %f vs %f", a.State().Position[0], b.State().Position[0])
	}

	c := New(DefaultConfig(), 1)
	c.SetTarget([]float64{10})
	c.Tick(0)
	d := New(DefaultConfig(), 1)
	d.SetTarget([]float64{10})
	d.Update()
	if c.State().Position[0] != d.State().Position[0] {
		t.Error("Tick(0) should run exactly one step")
	}
}

func TestSpringStopAndReset(t *testing.T) {
	s := New(DefaultConfig(), 2)
	s.SetTarget([]float64{50, 50})
	s.Update()
	s.Update()

	s.Stop()
	st := s.State()
	if !st.AtRest || st.Velocity[0] != 0 || st.Velocity[1] != 0 {
		t.Fatalf("Stop should rest immediately: %+v", st)
	}
	before := st.Position
	s.Update()
	if after := s.State().Position; after[0] != before[0] || after[1] != before[1] {
		t.Error("update after Stop moved the solver")
	}

	s.Reset([]float64{3, 4})
	if p := s.Position2(); p.X != 3 || p.Y != 4 || !s.AtRest() {
		t.Errorf("Reset failed: %v", p)
	}
}

func TestSpringMultiDimensionRest(t *testing.T) {
	s := New(DefaultConfig(), 3)
	s.SetTarget([]float64{0, 0, 40})

	st := s.Update()
	if st.AtRest {
		t.Fatal("should not rest while z is moving")
	}
	if st.Position[0] != 0 || st.Position[1] != 0 {
		t.Errorf("resting dimensions moved: %v", st.Position)
	}
	runUntilRest(s, 5000)
	if got := s.State().Position[2]; got != 40 {
		t.Errorf("z should settle on 40, got %f", got)
	}
}

// dampedDisplacement is the exact position-minus-target of an underdamped
// spring released from rest at -1.
func dampedDisplacement(cfg Config, t float64) float64 {
	w0 := math.Sqrt(cfg.Tension / cfg.Mass)
	zeta := cfg.Friction / (2 * math.Sqrt(cfg.Tension*cfg.Mass))
	wd := w0 * math.Sqrt(1-zeta*zeta)
	b := -zeta * w0 / wd
	return math.Exp(-zeta*w0*t) * (-math.Cos(wd*t) + b*math.Sin(wd*t))
}

func TestSpringIntegrators(t *testing.T) {
	tests := []struct {
		name     string
		maxErr   float64 // at 240 Hz after 0.25 s
		minRatio float64 // error(120 Hz) / error(240 Hz)
	}{
		{"semi-implicit", 5e-3, 1.5},
		{"euler", 1e-2, 1.5},
		{"rk4", 1e-6, 3.5},
		{"verlet", 2e-4, 3.5},
		{"leapfrog", 5e-4, 3.5},
	}

	errAt := func(name string, fps float64) float64 {
		cfg := DefaultConfig()
		cfg.Integrator = name
		cfg.FrameRate = fps
		s := New(cfg, 1)
		s.SetTarget([]float64{1})
		steps := int(fps / 4)
		for i := 0; i < steps; i++ {
			s.Update()
		}
		got := s.State().Position[0] - 1
		return math.Abs(got - dampedDisplacement(cfg, float64(steps)/fps))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse, fine := errAt(tt.name, 120), errAt(tt.name, 240)
			if fine > tt.maxErr {
				t.Errorf("error at 240 Hz = %g, want <= %g", fine, tt.maxErr)
			}
			if ratio := coarse / fine; ratio < tt.minRatio {
				t.Errorf("halving the step cut the error by %.2fx, want >= %.1fx", ratio, tt.minRatio)
			}

			cfg := DefaultConfig()
			cfg.Integrator = tt.name
			s := New(cfg, 1)
			s.SetTarget([]float64{1})
			runUntilRest(s, 5000)
			if !s.AtRest() {
				t.Errorf("%s did not settle", tt.name)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	tension := 300.0
	preset := "gentle"
	cfg := DefaultConfig().Apply(Overrides{Preset: &preset})
	if cfg.Tension != 120 || cfg.Friction != 14 {
		t.Errorf("preset not applied: %+v", cfg)
	}
	cfg = cfg.Apply(Overrides{Tension: &tension})
	if cfg.Tension != 300 || cfg.Friction != 14 {
		t.Errorf("field override should win over preset: %+v", cfg)
	}

	bad := "nope"
	cfg = DefaultConfig().Apply(Overrides{Integrator: &bad})
	s := New(cfg, 1)
	if s.Config().Integrator != "semi-implicit" {
		t.Errorf("unknown integrator should fall back, got %q", s.Config().Integrator)
	}
}

func TestSetParam(t *testing.T) {
	s := New(DefaultConfig(), 1)
	if err := s.SetParam("tension", 99); err != nil {
		t.Fatal(err)
	}
	if s.GetParams()["tension"] != 99 {
		t.Error("tension not updated")
	}
	if err := s.SetParam("gravity", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
