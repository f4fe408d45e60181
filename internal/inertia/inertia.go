// Package inertia implements a friction-decay integrator with optional
// bounded-domain bounce, used for momentum scrolling and flick release.
package inertia

import (
	"math"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/vmath"
)

const stepEpsilon = 1e-9

type State struct {
	Position float64
	Velocity float64
	AtRest   bool
}

// Solver is a one-dimensional inertial integrator. Invariant: AtRest implies
// a zero velocity.
type Solver struct {
	cfg      Config
	position float64
	velocity float64
	atRest   bool
}

func New(cfg Config) *Solver {
	return &Solver{cfg: cfg.Sanitize(), atRest: true}
}

func (s *Solver) Config() Config { return s.cfg }

func (s *Solver) UpdateConfig(o Overrides) { s.cfg = s.cfg.Apply(o) }

func (s *Solver) SetFrameRate(fps float64) { s.UpdateConfig(Overrides{FrameRate: &fps}) }

// Set replaces position and velocity. The solver wakes so the next update
// can settle or snap it.
func (s *Solver) Set(position, velocity float64) {
	s.position = position
	s.velocity = vmath.ClampAbs(velocity, s.cfg.MaxVelocity)
	s.atRest = false
}

func (s *Solver) AddVelocity(delta float64) {
	s.velocity = vmath.ClampAbs(s.velocity+delta, s.cfg.MaxVelocity)
	s.atRest = false
}

// Update advances one fixed step with no external acceleration.
func (s *Solver) Update() State { return s.Step(0) }

// Step advances one fixed step under accel (units/s²), applied after the
// friction decay. The solver only comes to rest on a step with no
// acceleration, so a small steady force still moves it.
func (s *Solver) Step(accel float64) State {
	if s.atRest && accel == 0 {
		return s.State()
	}
	dt := s.cfg.Step()

	s.atRest = false
	s.velocity *= s.cfg.Friction
	if accel != 0 {
		s.velocity = vmath.ClampAbs(s.velocity+accel*dt, s.cfg.MaxVelocity)
	}
	s.position += s.velocity * dt

	if b := s.cfg.Bounds; b != nil {
		bounce := s.cfg.BounceFactor
		switch {
		case s.position < b.Min:
			overshoot := b.Min - s.position
			s.position = b.Min + overshoot*bounce
			s.velocity = -s.velocity * bounce
		case s.position > b.Max:
			overshoot := b.Max - s.position
			s.position = b.Max + overshoot*bounce
			s.velocity = -s.velocity * bounce
		}
		// a reflection longer than the domain lands on the far wall
		s.position = b.Clamp(s.position)
	}

	if accel == 0 && math.Abs(s.velocity) < s.cfg.RestThreshold {
		s.velocity = 0
		s.atRest = true
		if b := s.cfg.Bounds; b != nil && !b.Contains(s.position) {
			s.position = b.Clamp(s.position)
		}
	}
	return s.State()
}

// Stop zeroes velocity and rests in place.
func (s *Solver) Stop() {
	s.velocity = 0
	s.atRest = true
}

// Reset rests at position.
func (s *Solver) Reset(position float64) {
	s.position = position
	s.velocity = 0
	s.atRest = true
}

// ProjectRest predicts where the current velocity will come to rest,
// p + v*dt*f/(1-f). ok is false when bounds exist and the unbounced
// projection leaves them.
func (s *Solver) ProjectRest() (float64, bool) {
	f := s.cfg.Friction
	p := s.position + s.velocity*s.cfg.Step()*f/(1-f)
	if b := s.cfg.Bounds; b != nil && !b.Contains(p) {
		return b.Clamp(p), false
	}
	return p, true
}

func (s *Solver) Position() float64 { return s.position }
func (s *Solver) Velocity() float64 { return s.velocity }
func (s *Solver) AtRest() bool      { return s.atRest }

func (s *Solver) State() State {
	return State{Position: s.position, Velocity: s.velocity, AtRest: s.atRest}
}

// State2D is the combined state of a Solver2D.
type State2D struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
	AtRest   bool
}

// Solver2D pairs one Solver per axis.
type Solver2D struct {
	id          string
	X, Y        *Solver
	elapsed     float64
	accumulator float64
}

type Option func(*Solver2D)

func WithID(id string) Option {
	return func(s *Solver2D) { s.id = id }
}

// New2D builds a pair from per-axis configurations, so each axis can carry
// its own bounds.
func New2D(cfgX, cfgY Config, opts ...Option) *Solver2D {
	s := &Solver2D{id: "inertia", X: New(cfgX), Y: New(cfgY)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewUniform2D uses cfg for both axes.
func NewUniform2D(cfg Config, opts ...Option) *Solver2D {
	return New2D(cfg, cfg, opts...)
}

func (s *Solver2D) ID() string { return s.id }

func (s *Solver2D) Set(position, velocity vmath.Vec2) {
	s.X.Set(position.X, velocity.X)
	s.Y.Set(position.Y, velocity.Y)
}

func (s *Solver2D) AddVelocity(delta vmath.Vec2) {
	s.X.AddVelocity(delta.X)
	s.Y.AddVelocity(delta.Y)
}


// Launch starts both axes from their current position with velocity v.
func (s *Solver2D) Launch(v vmath.Vec2) {
	s.Set(s.Position(), v)
}

func (s *Solver2D) Update() State2D { return s.Step(vmath.Zero2) }

// Step advances both axes one fixed step under accel.
func (s *Solver2D) Step(accel vmath.Vec2) State2D {
	s.X.Step(accel.X)
	s.Y.Step(accel.Y)
	s.elapsed += s.X.cfg.Step()
	return s.State()
}

func (s *Solver2D) Stop() {
	s.X.Stop()
	s.Y.Stop()
}

func (s *Solver2D) Reset(position vmath.Vec2) {
	s.X.Reset(position.X)
	s.Y.Reset(position.Y)
	s.accumulator = 0
	s.elapsed = 0
}

func (s *Solver2D) UpdateConfig(o Overrides) {
	s.X.UpdateConfig(o)
	s.Y.UpdateConfig(o)
}

func (s *Solver2D) Position() vmath.Vec2 { return vmath.V2(s.X.position, s.Y.position) }
func (s *Solver2D) Velocity() vmath.Vec2 { return vmath.V2(s.X.velocity, s.Y.velocity) }
func (s *Solver2D) AtRest() bool         { return s.X.atRest && s.Y.atRest }

func (s *Solver2D) State() State2D {
	return State2D{Position: s.Position(), Velocity: s.Velocity(), AtRest: s.AtRest()}
}

// Tick advances by dt seconds in fixed steps of the X axis frame rate.
func (s *Solver2D) Tick(dt float64) dynamo.Snapshot {
	if dt <= 0 || math.IsNaN(dt) {
		s.Update()
		return s.Snapshot()
	}
	step := s.X.cfg.Step()
	max := s.X.cfg.MaxSubsteps
	s.accumulator += dt
	n := 0
	for s.accumulator+stepEpsilon >= step && n < max {
		s.Update()
		s.accumulator = math.Max(s.accumulator-step, 0)
		n++
	}
	if s.accumulator+stepEpsilon >= step {
		s.accumulator = math.Mod(s.accumulator, step)
	}
	return s.Snapshot()
}

func (s *Solver2D) Snapshot() dynamo.Snapshot {
	rest := s.AtRest()
	return dynamo.Snapshot{
		Time: s.elapsed,
		Entities: []dynamo.EntityState{{
			ID:       s.id,
			Position: s.Position(),
			Velocity: s.Velocity(),
			AtRest:   rest,
			Active:   !rest,
		}},
	}
}
