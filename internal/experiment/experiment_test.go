package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/motionsim/internal/config"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/vmath"
)

func run(t *testing.T, cfg *config.Config) (*Experiment, float64) {
	t.Helper()
	reg := NewRegistry()
	exp := New(cfg, reg)
	if err := exp.Setup(reg.DefaultMetrics(cfg.Scenario)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("run reported errors: %v", res.Errors)
	}
	if len(res.Frames) == 0 {
		t.Fatal("no frames")
	}
	return exp, res.SettledAt
}

func TestUnknownScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "pendulum"
	err := New(cfg, NewRegistry()).Setup(nil)
	if !errors.Is(err, dynamo.ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestUnknownIntegrator(t *testing.T) {
	cfg := config.DefaultConfig()
	name := "rk45"
	cfg.Spring.Integrator = &name
	err := New(cfg, NewRegistry()).Setup(nil)
	if !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}

func TestRunNotSetup(t *testing.T) {
	if _, err := New(config.DefaultConfig(), NewRegistry()).Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestListScenarios(t *testing.T) {
	reg := NewRegistry()
	names := reg.ListScenarios()
	if len(names) != 6 || names[0] != "box" {
		t.Errorf("unexpected scenarios %v", names)
	}
	for _, n := range names {
		if reg.Describe(n) == "" {
			t.Errorf("scenario %s has no description", n)
		}
	}
}

func TestEveryPresetRuns(t *testing.T) {
	for scenario := range config.Presets {
		for _, name := range config.ListPresets(scenario) {
			t.Run(scenario+"/"+name, func(t *testing.T) {
				cp := *config.GetPreset(scenario, name)
				run(t, &cp)
			})
		}
	}
}

func TestSpringScenarioSettles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StopAtRest = true
	exp, settled := run(t, cfg)
	if settled < 0 {
		t.Fatal("spring did not settle")
	}
	s := exp.Ticker().Tick(0)
	e, _ := s.Entity("spring")
	if !e.Position.ApproxEqual(vmath.V2(100, 0), 1e-9) {
		t.Errorf("expected rest at target, got %v", e.Position)
	}
}

func TestReplayGesture(t *testing.T) {
	cfg := config.GetPreset("flick", "hard")
	res := ReplayGesture(cfg.MomentumConfig(), cfg.Init.Gesture)
	if !res.ShouldAnimate {
		t.Fatal("expected hard flick to animate")
	}
	if res.Velocity.X <= 0 || res.Velocity.Y <= 0 {
		t.Errorf("expected velocity up and right, got %v", res.Velocity)
	}
	if empty := ReplayGesture(cfg.MomentumConfig(), nil); empty.ShouldAnimate {
		t.Error("expected empty gesture not to animate")
	}
}

func TestFlickGlidesForward(t *testing.T) {
	cp := *config.GetPreset("flick", "hard")
	exp, _ := run(t, &cp)
	e, _ := exp.Ticker().Tick(0).Entity("flick")
	if e.Position.X <= 68 || e.Position.Y <= 24 {
		t.Errorf("expected glide past release point, got %v", e.Position)
	}
}

func TestBoxBodiesStayInside(t *testing.T) {
	cp := *config.GetPreset("box", "elastic")
	exp, _ := run(t, &cp)
	for _, e := range exp.Ticker().Tick(0).Entities {
		if math.Abs(e.Position.X) > 120 || math.Abs(e.Position.Y) > 120 {
			t.Errorf("%s escaped: %v", e.ID, e.Position)
		}
	}
}

func TestEnginesHoldScenarioTicker(t *testing.T) {
	tests := []struct {
		scenario string
		lookup   func(e *Engines) (dynamo.Ticker, bool)
	}{
		{"spring", func(e *Engines) (dynamo.Ticker, bool) { return e.Springs.Get("spring") }},
		{"inertia", func(e *Engines) (dynamo.Ticker, bool) { return e.Inertials.Get("inertia") }},
		{"flick", func(e *Engines) (dynamo.Ticker, bool) { return e.Inertials.Get("flick") }},
		{"magnetic", func(e *Engines) (dynamo.Ticker, bool) { return e.Coordinators.Get("magnetic") }},
		{"follow", func(e *Engines) (dynamo.Ticker, bool) { return e.Coordinators.Get("follow") }},
		{"box", func(e *Engines) (dynamo.Ticker, bool) { return e.Worlds.Get("box") }},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scenario = tt.scenario
			exp := New(cfg, NewRegistry())
			if err := exp.Setup(nil); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			eng := exp.Engines()
			got, ok := tt.lookup(eng)
			if !ok {
				t.Fatalf("engine for %s not registered", tt.scenario)
			}
			if got != exp.Ticker() {
				t.Error("registered engine is not the scenario ticker")
			}
			if eng.Len() != 1 {
				t.Errorf("live engines = %d, want 1", eng.Len())
			}

			exp.Close()
			if eng.Len() != 0 {
				t.Errorf("live engines after close = %d, want 0", eng.Len())
			}
			if exp.Engines() != nil || exp.Ticker() != nil {
				t.Error("experiment still holds a build after close")
			}
		})
	}
}

func TestSetupAgainDisposesPreviousBuild(t *testing.T) {
	cfg := config.DefaultConfig()
	exp := New(cfg, NewRegistry())
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	first := exp.Engines()
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	if first.Len() != 0 {
		t.Errorf("previous engines still live: %d", first.Len())
	}
	if exp.Engines() == first || exp.Engines().Len() != 1 {
		t.Error("setup should build into a fresh table")
	}
}
