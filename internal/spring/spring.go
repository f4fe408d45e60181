// Package spring implements a per-dimension damped harmonic oscillator that
// settles a position onto a target.
//
// Each dimension integrates force = -tension*(position-target) - friction*velocity
// at a fixed step of 1/FrameRate. A dimension is at rest once both its speed
// and its distance to target drop below RestThreshold; the solver is at rest
// only when every dimension is.
package spring

import (
	"fmt"
	"math"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/integrators"
	"github.com/san-kum/motionsim/internal/vmath"
)

// State is a copy of the solver's current values.
type State struct {
	Position []float64
	Velocity []float64
	AtRest   bool
}

// oscillator is one spring dimension laid out as [position, velocity].
type oscillator struct {
	target float64
	cfg    *Config
}

func (o oscillator) StateDim() int { return 2 }

func (o oscillator) Derive(x dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	force := -o.cfg.Tension*(x[0]-o.target) - o.cfg.Friction*x[1]
	return dynamo.State{x[1], force / o.cfg.Mass}
}

const stepEpsilon = 1e-9

type Solver struct {
	id    string
	cfg   Config
	integ dynamo.Integrator

	position []float64
	velocity []float64
	target   []float64
	dimRest  []bool
	atRest   bool

	elapsed     float64
	accumulator float64
}

type Option func(*Solver)

// WithID sets the entity id reported in snapshots.
func WithID(id string) Option {
	return func(s *Solver) { s.id = id }
}

// New builds a solver with dims dimensions, at rest at the origin.
// Out-of-range configuration is clamped; dims below 1 becomes 1.
func New(cfg Config, dims int, opts ...Option) *Solver {
	if dims < 1 {
		dims = 1
	}
	s := &Solver{
		id:       "spring",
		position: make([]float64, dims),
		velocity: make([]float64, dims),
		target:   make([]float64, dims),
		dimRest:  make([]bool, dims),
		atRest:   true,
	}
	for i := range s.dimRest {
		s.dimRest[i] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setConfig(cfg)
	return s
}

func (s *Solver) setConfig(cfg Config) {
	cfg = cfg.Sanitize()
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		cfg.Integrator = integrators.Default
		integ, _ = integrators.ByName(cfg.Integrator)
	}
	s.cfg = cfg
	s.integ = integ
}

func (s *Solver) ID() string { return s.id }

func (s *Solver) Dims() int { return len(s.position) }

func (s *Solver) Config() Config { return s.cfg }

// UpdateConfig applies o over the current configuration. It does not wake
// a resting solver.
func (s *Solver) UpdateConfig(o Overrides) {
	s.setConfig(s.cfg.Apply(o))
}

// SetFrameRate changes the fixed step to 1/fps.
func (s *Solver) SetFrameRate(fps float64) {
	s.UpdateConfig(Overrides{FrameRate: &fps})
}

type targetOptions struct {
	from     []float64
	velocity []float64
}

type TargetOption func(*targetOptions)

// From jumps the position before animating towards the new target.
func From(v ...float64) TargetOption {
	return func(o *targetOptions) { o.from = v }
}

// WithVelocity injects an initial velocity.
func WithVelocity(v ...float64) TargetOption {
	return func(o *targetOptions) { o.velocity = v }
}

// SetTarget moves the target and marks the solver as moving. Components
// beyond Dims are ignored; missing components keep their current value.
func (s *Solver) SetTarget(to []float64, opts ...TargetOption) {
	var o targetOptions
	for _, opt := range opts {
		opt(&o)
	}
	copy(s.target, to)
	if o.from != nil {
		copy(s.position, o.from)
	}
	if o.velocity != nil {
		copy(s.velocity, o.velocity)
		s.clampVelocity()
	}
	for i := range s.dimRest {
		s.dimRest[i] = false
	}
	s.atRest = false
}

// SetTargetVec is SetTarget for 2D solvers.
func (s *Solver) SetTargetVec(to vmath.Vec2, opts ...TargetOption) {
	s.SetTarget(to.Slice(), opts...)
}

// AddVelocity adds delta to the current velocity and wakes the solver.
func (s *Solver) AddVelocity(delta []float64) {
	for i := range s.velocity {
		if i < len(delta) {
			s.velocity[i] += delta[i]
		}
	}
	s.clampVelocity()
	for i := range s.dimRest {
		s.dimRest[i] = false
	}
	s.atRest = false
}

// Update advances one fixed step. A resting solver is left untouched.
func (s *Solver) Update() State {
	if s.atRest {
		return s.State()
	}

	dt := s.cfg.Step()
	n := s.cfg.stabilitySubsteps(dt)
	h := dt / float64(n)
	for i := range s.position {
		if s.dimRest[i] {
			continue
		}
		prev := s.position[i]
		osc := oscillator{target: s.target[i], cfg: &s.cfg}
		x := dynamo.State{prev, s.velocity[i]}
		for k := 0; k < n; k++ {
			x = s.integ.Step(osc, x, nil, s.elapsed+float64(k)*h, h)
		}
		pos, vel := x[0], x[1]

		if s.cfg.Clamp {
			lo, hi := math.Min(prev, s.target[i]), math.Max(prev, s.target[i])
			if pos < lo {
				pos, vel = lo, 0
			} else if pos > hi {
				pos, vel = hi, 0
			}
		}
		s.position[i], s.velocity[i] = pos, vel
	}
	s.clampVelocity()

	all := true
	for i := range s.position {
		if s.dimRest[i] {
			continue
		}
		if math.Abs(s.velocity[i]) < s.cfg.RestThreshold && math.Abs(s.position[i]-s.target[i]) < s.cfg.RestThreshold {
			s.velocity[i] = 0
			s.position[i] = s.target[i]
			s.dimRest[i] = true
			continue
		}
		all = false
	}
	s.atRest = all
	s.elapsed += dt
	return s.State()
}

// clampVelocity limits the speed across all dimensions to MaxVelocity.
func (s *Solver) clampVelocity() {
	max := s.cfg.MaxVelocity
	if max <= 0 {
		return
	}
	speed := dynamo.State(s.velocity).Norm()
	if speed <= max {
		return
	}
	f := max / speed
	for i := range s.velocity {
		s.velocity[i] *= f
	}
}

// Tick advances by dt seconds using as many fixed steps as fit, at most
// MaxSubsteps per call. Leftover time carries into the next call. dt <= 0
// runs exactly one step.
func (s *Solver) Tick(dt float64) dynamo.Snapshot {
	if dt <= 0 || math.IsNaN(dt) {
		s.Update()
		return s.Snapshot()
	}
	step := s.cfg.Step()
	s.accumulator += dt
	n := 0
	for s.accumulator+stepEpsilon >= step && n < s.cfg.MaxSubsteps {
		s.Update()
		s.accumulator = math.Max(s.accumulator-step, 0)
		n++
	}
	if s.accumulator+stepEpsilon >= step {
		// too far behind; drop the backlog rather than spiral
		s.accumulator = math.Mod(s.accumulator, step)
	}
	return s.Snapshot()
}

// Stop zeroes velocity and rests in place.
func (s *Solver) Stop() {
	for i := range s.velocity {
		s.velocity[i] = 0
		s.dimRest[i] = true
	}
	copy(s.target, s.position)
	s.atRest = true
}

// Reset places the solver at rest at position (origin when nil).
func (s *Solver) Reset(position []float64) {
	for i := range s.position {
		s.position[i] = 0
	}
	copy(s.position, position)
	copy(s.target, s.position)
	for i := range s.velocity {
		s.velocity[i] = 0
		s.dimRest[i] = true
	}
	s.atRest = true
	s.accumulator = 0
	s.elapsed = 0
}

func (s *Solver) AtRest() bool { return s.atRest }

func (s *Solver) Target() []float64 {
	return append([]float64(nil), s.target...)
}

func (s *Solver) State() State {
	return State{
		Position: append([]float64(nil), s.position...),
		Velocity: append([]float64(nil), s.velocity...),
		AtRest:   s.atRest,
	}
}

// Position2 returns the first two dimensions as a vector.
func (s *Solver) Position2() vmath.Vec2 { return vmath.Vec2FromSlice(s.position) }

// Velocity2 returns the first two dimensions of velocity as a vector.
func (s *Solver) Velocity2() vmath.Vec2 { return vmath.Vec2FromSlice(s.velocity) }

func (s *Solver) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Time: s.elapsed,
		Entities: []dynamo.EntityState{{
			ID:       s.id,
			Position: s.Position2(),
			Velocity: s.Velocity2(),
			AtRest:   s.atRest,
			Active:   !s.atRest,
		}},
	}
}

func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{"tension": s.cfg.Tension, "friction": s.cfg.Friction, "mass": s.cfg.Mass}
}

func (s *Solver) SetParam(name string, v float64) error {
	switch name {
	case "tension":
		s.UpdateConfig(Overrides{Tension: &v})
	case "friction":
		s.UpdateConfig(Overrides{Friction: &v})
	case "mass":
		s.UpdateConfig(Overrides{Mass: &v})
	default:
		return fmt.Errorf("spring: unknown parameter %q", name)
	}
	return nil
}
