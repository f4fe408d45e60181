package momentum

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/vmath"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func TestFlickRelease(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimumVelocity = 1
	cfg.MinimumDistance = 10
	tr := NewTracker(cfg)

	tr.StartAt(at(0), 0, 0)
	tr.UpdateAt(at(50), 0, 0)
	tr.UpdateAt(at(100), 50, 0)
	res := tr.EndAt(at(100))

	if !res.ShouldAnimate {
		t.Error("expected ShouldAnimate")
	}
	if res.PrimaryDirection != AxisX {
		t.Errorf("primary = %v, want x", res.PrimaryDirection)
	}
	if math.Abs(res.Velocity.Y) > 1e-9 {
		t.Errorf("vy = %f, want 0", res.Velocity.Y)
	}
	// 0.7*1000 + 0.3*0
	if math.Abs(res.Velocity.X-700) > 1e-6 {
		t.Errorf("vx = %f, want 700", res.Velocity.X)
	}
	if res.Distance != 50 {
		t.Errorf("distance = %f, want 50", res.Distance)
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.StartAt(at(0), 0, 0)
	for i := 1; i <= 7; i++ {
		tr.UpdateAt(at(i*16), float64(i), 0)
	}
	s := tr.Samples()
	if len(s) != WindowSize {
		t.Fatalf("window = %d, want %d", len(s), WindowSize)
	}
	if s[0].X != 3 || s[len(s)-1].X != 7 {
		t.Errorf("window holds %v..%v, want 3..7", s[0].X, s[len(s)-1].X)
	}
}

func TestStartResetsWindow(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.StartAt(at(0), 0, 0)
	tr.UpdateAt(at(16), 10, 10)
	tr.StartAt(at(100), 5, 5)
	if n := len(tr.Samples()); n != 1 {
		t.Errorf("samples after restart = %d, want 1", n)
	}
	if tr.Velocity() != vmath.Zero2 {
		t.Errorf("velocity after restart = %v", tr.Velocity())
	}
}

func TestRepeatedTimestampIgnored(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.StartAt(at(0), 0, 0)
	tr.UpdateAt(at(10), 10, 0)
	v := tr.Velocity()
	tr.UpdateAt(at(10), 500, 0)
	if tr.Velocity() != v {
		t.Errorf("zero-interval sample changed velocity: %v -> %v", v, tr.Velocity())
	}
}

func TestEndPolicy(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		points  [][3]float64 // ms, x, y
		wantV   vmath.Vec2
		animate bool
		primary Axis
	}{
		{
			name:    "small gesture boost",
			mutate:  func(c *Config) { c.MinimumDistance = 10; c.MinimumVelocity = 0; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {100, 5, 0}},
			wantV:   vmath.V2(75, 0),
			animate: false,
			primary: AxisX,
		},
		{
			name:    "long gesture scaled down",
			mutate:  func(c *Config) { c.MinimumVelocity = 1 },
			points:  [][3]float64{{0, 0, 0}, {1000, 100, 0}},
			wantV:   vmath.V2(50, 0),
			animate: true,
			primary: AxisX,
		},
		{
			name:    "vertical constraint",
			mutate:  func(c *Config) { c.Direction = Vertical; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {100, 100, 20}},
			wantV:   vmath.V2(0, 200),
			animate: true,
			primary: AxisY,
		},
		{
			name:    "axis lock",
			mutate:  func(c *Config) { c.AxisLock = true; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {100, 30, 20}},
			wantV:   vmath.V2(300, 0),
			animate: true,
			primary: AxisX,
		},
		{
			name:    "diagonal tie",
			mutate:  func(c *Config) { c.AxisLock = true; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {100, 20, 20}},
			wantV:   vmath.V2(200, 200),
			animate: true,
			primary: AxisNone,
		},
		{
			name:    "max velocity clamp",
			mutate:  func(c *Config) { c.MaxVelocity = 100; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {10, 100, 0}},
			wantV:   vmath.V2(100, 0),
			animate: true,
			primary: AxisX,
		},
		{
			name:    "diagonal clamp keeps direction",
			mutate:  func(c *Config) { c.MaxVelocity = 100; c.DurationScaling = false },
			points:  [][3]float64{{0, 0, 0}, {10, 100, 100}},
			wantV:   vmath.V2(50*math.Sqrt2, 50*math.Sqrt2),
			animate: true,
			primary: AxisNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			tr := NewTracker(cfg)
			for i, p := range tt.points {
				if i == 0 {
					tr.StartAt(at(int(p[0])), p[1], p[2])
					continue
				}
				tr.UpdateAt(at(int(p[0])), p[1], p[2])
			}
			last := tt.points[len(tt.points)-1]
			res := tr.EndAt(at(int(last[0])))

			if !res.Velocity.ApproxEqual(tt.wantV, 1e-6) {
				t.Errorf("velocity = %v, want %v", res.Velocity, tt.wantV)
			}
			if res.ShouldAnimate != tt.animate {
				t.Errorf("ShouldAnimate = %v, want %v", res.ShouldAnimate, tt.animate)
			}
			if res.PrimaryDirection != tt.primary {
				t.Errorf("primary = %v, want %v", res.PrimaryDirection, tt.primary)
			}
		})
	}
}

func TestEndWithoutStart(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	if res := tr.EndAt(at(0)); res.ShouldAnimate || res.Velocity != vmath.Zero2 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestResultLaunchesInertia(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DurationScaling = false
	tr := NewTracker(cfg)
	tr.StartAt(at(0), 0, 0)
	tr.UpdateAt(at(100), 0, 60)
	res := tr.EndAt(at(100))

	s := inertia.NewUniform2D(inertia.DefaultConfig())
	if !res.Apply(s) {
		t.Fatal("expected launch")
	}
	if s.AtRest() || math.Abs(s.Velocity().Y-600) > 1e-9 {
		t.Errorf("solver not launched: %+v", s.State())
	}

	idle := Result{}
	if idle.Apply(s) {
		t.Error("non-animating result should not launch")
	}
}

func TestClockOption(t *testing.T) {
	now := at(0)
	tr := NewTracker(DefaultConfig(), WithClock(func() time.Time { return now }))
	tr.Start(0, 0)
	now = at(100)
	tr.Update(40, 0)
	res := tr.End()
	if res.Duration != 100*time.Millisecond {
		t.Errorf("duration = %v", res.Duration)
	}
	if tr.Tracking() {
		t.Error("tracker still tracking after End")
	}
}
