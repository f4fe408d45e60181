package experiment

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/config"
	"github.com/san-kum/motionsim/internal/coordinator"
	"github.com/san-kum/motionsim/internal/integrators"
	"github.com/san-kum/motionsim/internal/momentum"
	"github.com/san-kum/motionsim/internal/sim"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/vmath"
)

func buildSpring(cfg *config.Config, eng *Engines, log zerolog.Logger) (*Build, error) {
	if name := cfg.Spring.Integrator; name != nil {
		if _, err := integrators.ByName(*name); err != nil {
			return nil, err
		}
	}
	s, _ := eng.Springs.GetOrCreate("spring", cfg.SpringConfig())
	s.Reset([]float64{cfg.Init.Position.X, cfg.Init.Position.Y})

	target := cfg.Init.Target
	v := cfg.Init.Velocity
	log.Debug().Str("integrator", s.Config().Integrator).Msg("spring built")
	return &Build{
		Ticker: s,
		Script: sim.Script{{At: 0, Name: "target", Do: func() {
			s.SetTargetVec(target, spring.WithVelocity(v.X, v.Y))
		}}},
	}, nil
}

func buildInertia(cfg *config.Config, eng *Engines, _ zerolog.Logger) (*Build, error) {
	s, _ := eng.Inertials.GetOrCreate("inertia", cfg.InertiaConfig())
	s.Reset(cfg.Init.Position)
	v := cfg.Init.Velocity
	return &Build{
		Ticker: s,
		Script: sim.Script{{At: 0, Name: "launch", Do: func() { s.Launch(v) }}},
	}, nil
}

// ReplayGesture feeds timestamped points (milliseconds) through a tracker
// and returns the release result.
func ReplayGesture(mc momentum.Config, points []config.GesturePoint) momentum.Result {
	base := time.Unix(0, 0)
	at := func(ms float64) time.Time { return base.Add(time.Duration(ms * float64(time.Millisecond))) }

	tr := momentum.NewTracker(mc)
	if len(points) == 0 {
		return tr.EndAt(base)
	}
	tr.StartAt(at(points[0].T), points[0].X, points[0].Y)
	for _, p := range points[1:] {
		tr.UpdateAt(at(p.T), p.X, p.Y)
	}
	return tr.EndAt(at(points[len(points)-1].T))
}

func buildFlick(cfg *config.Config, eng *Engines, log zerolog.Logger) (*Build, error) {
	res := ReplayGesture(cfg.MomentumConfig(), cfg.Init.Gesture)
	log.Debug().
		Float64("vx", res.Velocity.X).
		Float64("vy", res.Velocity.Y).
		Str("axis", res.PrimaryDirection.String()).
		Bool("animate", res.ShouldAnimate).
		Msg("gesture released")

	start := cfg.Init.Position
	if n := len(cfg.Init.Gesture); n > 0 {
		last := cfg.Init.Gesture[n-1]
		start = start.Add(vmath.V2(last.X, last.Y))
	}
	s, _ := eng.Inertials.GetOrCreate("flick", cfg.InertiaConfig())
	s.Reset(start)
	return &Build{
		Ticker: s,
		Script: sim.Script{{At: 0, Name: "release", Do: func() { res.Apply(s) }}},
	}, nil
}

func newCoordinator(cfg *config.Config, eng *Engines) (*coordinator.Coordinator, error) {
	c, _ := eng.Coordinators.GetOrCreate(cfg.Scenario, cfg.CoordinatorConfig())
	if b := cfg.Coordinator.Bounds; b != nil {
		c.SetBounds(b)
	}
	for _, el := range cfg.Coordinator.Elements {
		if err := c.AddElement(el); err != nil {
			return nil, fmt.Errorf("element %q: %w", el.ID, err)
		}
	}
	return c, nil
}

func pointerScript(c *coordinator.Coordinator, moves []config.PointerMove) sim.Script {
	script := make(sim.Script, 0, len(moves))
	for _, m := range moves {
		m := m
		script = append(script, sim.Event{At: m.At, Name: "pointer", Do: func() {
			if m.Clear || m.To == nil {
				c.ClearPointer()
				return
			}
			c.SetPointer(*m.To)
		}})
	}
	return script
}

func buildMagnetic(cfg *config.Config, eng *Engines, _ zerolog.Logger) (*Build, error) {
	c, err := newCoordinator(cfg, eng)
	if err != nil {
		return nil, err
	}
	return &Build{Ticker: c, Script: pointerScript(c, cfg.Init.Pointer)}, nil
}

// followElements is used when the scenario names no elements.
var followElements = []coordinator.Element{
	{ID: "leader", Role: coordinator.Leader, Strength: 0.5, Radius: 200},
	{ID: "f1", Position: vmath.V2(-40, 30), Role: coordinator.Follower, MinDistance: 20},
	{ID: "f2", Position: vmath.V2(-40, -30), Role: coordinator.Follower, MinDistance: 20},
	{ID: "f3", Position: vmath.V2(-80, 0), Role: coordinator.Follower, MinDistance: 20},
}

func buildFollow(cfg *config.Config, eng *Engines, _ zerolog.Logger) (*Build, error) {
	if len(cfg.Coordinator.Elements) == 0 {
		cp := *cfg
		cp.Coordinator.Elements = followElements
		cfg = &cp
	}
	c, err := newCoordinator(cfg, eng)
	if err != nil {
		return nil, err
	}
	leader := ""
	for _, el := range cfg.Coordinator.Elements {
		if el.Role == coordinator.Leader {
			leader = el.ID
			break
		}
	}
	script := pointerScript(c, cfg.Init.Pointer)
	if leader != "" {
		target := cfg.Init.Target
		script = append(script, sim.Event{At: 0, Name: "lead", Do: func() { c.SetAnchor(leader, target) }})
	}
	return &Build{Ticker: c, Script: script}, nil
}

func buildBox(cfg *config.Config, eng *Engines, _ zerolog.Logger) (*Build, error) {
	w, _ := eng.Worlds.GetOrCreate(cfg.Scenario, cfg.Collision.World)
	if b := cfg.Collision.Walls; b != nil {
		for _, wall := range collision.BoundaryWalls("wall", b.Min, b.Max, 20, collision.WithRestitution(1), collision.WithFriction(0)) {
			if err := w.AddBody(wall); err != nil {
				return nil, err
			}
		}
	}
	for _, bc := range cfg.Collision.Bodies {
		if err := w.AddBody(bc.Body()); err != nil {
			return nil, fmt.Errorf("body %q: %w", bc.ID, err)
		}
	}
	return &Build{Ticker: w}, nil
}
