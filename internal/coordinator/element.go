package coordinator

import (
	"math"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/vmath"
)

// Role governs how an element exchanges force with its peers.
type Role int

const (
	// Independent ignores peers but still responds to the group field.
	Independent Role = iota
	// Leader emits its field to followers and ignores peer forces.
	Leader
	// Follower responds fully to leaders and to the group field.
	Follower
)

func (r Role) String() string {
	switch r {
	case Leader:
		return "leader"
	case Follower:
		return "follower"
	default:
		return "independent"
	}
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}

// ParseRole falls back to Independent for unknown names.
func ParseRole(s string) Role {
	switch s {
	case "leader":
		return Leader
	case "follower":
		return Follower
	default:
		return Independent
	}
}

const (
	DefaultStrength = 0.3
	DefaultRadius   = 150.0
)

// Element describes one coordinated element. Position is its anchor: the
// rest position a spring element returns to and the start position of an
// inertial one.
type Element struct {
	ID          string     `yaml:"id"`
	Position    vmath.Vec2 `yaml:"position"`
	Role        Role       `yaml:"role"`
	Strength    float64    `yaml:"strength"`
	Radius      float64    `yaml:"radius"`
	MinDistance float64    `yaml:"min_distance"`
	// Size is the collision radius used against the container. Zero
	// disables container collisions for the element.
	Size float64 `yaml:"size"`
}

func (e Element) sanitize() Element {
	if !e.Position.IsValid() {
		e.Position = vmath.Zero2
	}
	if math.IsNaN(e.Strength) || math.IsInf(e.Strength, 0) {
		e.Strength = DefaultStrength
	}
	if !(e.Radius >= 1) {
		e.Radius = DefaultRadius
	}
	if !(e.MinDistance >= 0) {
		e.MinDistance = 0
	}
	if !(e.Size >= 0) {
		e.Size = 0
	}
	if e.Role < Independent || e.Role > Follower {
		e.Role = Independent
	}
	return e
}

// ElementState is a copy of an element's current values.
type ElementState struct {
	Element
	Current  vmath.Vec2
	Velocity vmath.Vec2
	Force    vmath.Vec2
	Active   bool
	AtRest   bool
}

// integrator is the per-element solver, spring or inertial.
type integrator interface {
	position() vmath.Vec2
	velocity() vmath.Vec2
	atRest() bool
	// apply integrates one step under net force with the element anchored
	// at anchor.
	apply(anchor, net vmath.Vec2)
	place(pos, vel vmath.Vec2)
	stop()
	reset(pos vmath.Vec2)
}

type springIntegrator struct{ s *spring.Solver }

func (i springIntegrator) position() vmath.Vec2 { return i.s.Position2() }
func (i springIntegrator) velocity() vmath.Vec2 { return i.s.Velocity2() }
func (i springIntegrator) atRest() bool         { return i.s.AtRest() }

// apply moves the spring target to anchor+net. Sub-threshold target moves
// are ignored so a settled element stays at rest.
func (i springIntegrator) apply(anchor, net vmath.Vec2) {
	target := anchor.Add(net)
	cur := vmath.Vec2FromSlice(i.s.Target())
	if target.Distance(cur) > i.s.Config().RestThreshold/2 {
		i.s.SetTargetVec(target)
	}
	i.s.Update()
}

func (i springIntegrator) place(pos, vel vmath.Vec2) {
	i.s.SetTarget(i.s.Target(), spring.From(pos.Slice()...), spring.WithVelocity(vel.Slice()...))
}

func (i springIntegrator) stop()                { i.s.Stop() }
func (i springIntegrator) reset(pos vmath.Vec2) { i.s.Reset(pos.Slice()) }

// inertialIntegrator treats net as an acceleration. Forces at or below
// deadZone are dropped so a settled element can rest.
type inertialIntegrator struct {
	s        *inertia.Solver2D
	deadZone float64
}

func (i inertialIntegrator) position() vmath.Vec2 { return i.s.Position() }
func (i inertialIntegrator) velocity() vmath.Vec2 { return i.s.Velocity() }
func (i inertialIntegrator) atRest() bool         { return i.s.AtRest() }

func (i inertialIntegrator) apply(_, net vmath.Vec2) {
	if net.Len() <= i.deadZone {
		net = vmath.Zero2
	}
	i.s.Step(net)
}

func (i inertialIntegrator) place(pos, vel vmath.Vec2) { i.s.Set(pos, vel) }
func (i inertialIntegrator) stop()                     { i.s.Stop() }
func (i inertialIntegrator) reset(pos vmath.Vec2)      { i.s.Reset(pos) }

type element struct {
	Element
	solver integrator
	body   *collision.Body
	force  vmath.Vec2
	active bool
}

func (e *element) state() ElementState {
	return ElementState{
		Element:  e.Element,
		Current:  e.solver.position(),
		Velocity: e.solver.velocity(),
		Force:    e.force,
		Active:   e.active,
		AtRest:   e.solver.atRest(),
	}
}
