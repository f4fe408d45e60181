// Package coordinator composes field, peer and spacing forces across a set
// of elements and integrates each element with its own spring or inertial
// solver.
//
// Every step has a read phase, where the net force on every element is
// computed against one snapshot of positions, followed by a write phase that
// advances the solvers. Results do not depend on the order elements were
// added.
package coordinator

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/field"
	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/vmath"
)

const stepEpsilon = 1e-9

type Coordinator struct {
	cfg Config
	log zerolog.Logger

	elements map[string]*element
	order    []string

	pointer    vmath.Vec2
	hasPointer bool

	bounds *collision.AABB
	walls  []*collision.Body

	elapsed     float64
	accumulator float64
}

type Option func(*Coordinator)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithBounds confines elements with a nonzero Size to b.
func WithBounds(b collision.AABB) Option {
	return func(c *Coordinator) { c.SetBounds(&b) }
}

func New(cfg Config, opts ...Option) *Coordinator {
	c := &Coordinator{
		cfg:      cfg.Sanitize(),
		log:      zerolog.Nop(),
		elements: make(map[string]*element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Config() Config { return c.cfg }

// UpdateConfig applies o. Solver overrides reach every existing element.
func (c *Coordinator) UpdateConfig(o Overrides) {
	c.cfg = c.cfg.Apply(o)
	for _, id := range c.order {
		switch s := c.elements[id].solver.(type) {
		case springIntegrator:
			s.s.UpdateConfig(springOverrides(c.cfg.Spring))
		case inertialIntegrator:
			s.s.UpdateConfig(inertiaOverrides(c.cfg.Inertia))
		}
	}
}

// SetField swaps the group field wholesale. nil removes it.
func (c *Coordinator) SetField(f *field.Config) {
	if f == nil {
		c.UpdateConfig(Overrides{ClearField: true})
		return
	}
	c.UpdateConfig(Overrides{Field: f})
}

// SetBounds replaces the container. nil removes it.
func (c *Coordinator) SetBounds(b *collision.AABB) {
	if b == nil {
		c.bounds, c.walls = nil, nil
		return
	}
	bb := *b
	size := bb.Size()
	thickness := math.Max(math.Max(math.Abs(size.X), math.Abs(size.Y)), 1)
	c.bounds = &bb
	c.walls = collision.BoundaryWalls("bounds", bb.Min, bb.Max, thickness, collision.WithRestitution(1))
}

// AddElement registers el and places it at rest on its anchor.
func (c *Coordinator) AddElement(el Element) error {
	if _, ok := c.elements[el.ID]; ok {
		return fmt.Errorf("add element %q: %w", el.ID, dynamo.ErrDuplicateID)
	}
	clean := el.sanitize()
	if clean != el {
		c.log.Debug().Str("element", el.ID).Msg("element configuration clamped")
	}
	e := &element{Element: clean, solver: c.newSolver(clean)}
	if clean.Size > 0 {
		e.body = collision.NewCircle(clean.ID, clean.Position, clean.Size,
			collision.WithMaterial(collision.Material{Restitution: c.cfg.Inertia.BounceFactor}))
	}
	c.elements[el.ID] = e
	c.order = append(c.order, el.ID)
	c.log.Debug().Str("element", el.ID).Stringer("role", clean.Role).Msg("element added")
	return nil
}

func (c *Coordinator) newSolver(el Element) integrator {
	if c.cfg.Mode == InertialMode {
		s := inertia.NewUniform2D(c.cfg.Inertia, inertia.WithID(el.ID))
		s.Reset(el.Position)
		return inertialIntegrator{s: s, deadZone: c.cfg.DeadZone}
	}
	s := spring.New(c.cfg.Spring, 2, spring.WithID(el.ID))
	s.Reset(el.Position.Slice())
	return springIntegrator{s}
}

func (c *Coordinator) RemoveElement(id string) bool {
	if _, ok := c.elements[id]; !ok {
		return false
	}
	delete(c.elements, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.log.Debug().Str("element", id).Msg("element removed")
	return true
}

func (c *Coordinator) Len() int { return len(c.order) }

// IDs returns element ids in sorted order.
func (c *Coordinator) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

func (c *Coordinator) Element(id string) (ElementState, bool) {
	e, ok := c.elements[id]
	if !ok {
		return ElementState{}, false
	}
	return e.state(), true
}

// SetRole changes an element's role from the next step on.
func (c *Coordinator) SetRole(id string, r Role) bool {
	e, ok := c.elements[id]
	if !ok {
		return false
	}
	e.Role = Element{Role: r}.sanitize().Role
	return true
}

// SetAnchor moves an element's anchor and wakes it. Spring elements glide
// to the new anchor; inertial elements are placed on it.
func (c *Coordinator) SetAnchor(id string, pos vmath.Vec2) bool {
	e, ok := c.elements[id]
	if !ok || !pos.IsValid() {
		return false
	}
	e.Position = pos
	if _, inertial := e.solver.(inertialIntegrator); inertial {
		e.solver.reset(pos)
	}
	e.active = true
	return true
}

func (c *Coordinator) SetPointer(p vmath.Vec2) {
	if !p.IsValid() {
		return
	}
	c.pointer, c.hasPointer = p, true
}

func (c *Coordinator) ClearPointer() { c.hasPointer = false }

func (c *Coordinator) Pointer() (vmath.Vec2, bool) { return c.pointer, c.hasPointer }

// Stop halts every element in place.
func (c *Coordinator) Stop() {
	for _, e := range c.elements {
		e.solver.stop()
		e.active = false
		e.force = vmath.Zero2
	}
}

// Reset returns every element to its anchor at rest and clears the clock.
func (c *Coordinator) Reset() {
	for _, e := range c.elements {
		e.solver.reset(e.Position)
		e.active = false
		e.force = vmath.Zero2
	}
	c.elapsed, c.accumulator = 0, 0
}

// Update runs one fixed step.
func (c *Coordinator) Update() dynamo.Snapshot {
	c.step()
	return c.Snapshot()
}

// Tick advances by dt seconds in fixed steps, at most MaxSubsteps per call.
// dt <= 0 runs exactly one step.
func (c *Coordinator) Tick(dt float64) dynamo.Snapshot {
	if !(dt > 0) || math.IsInf(dt, 0) {
		c.step()
		return c.Snapshot()
	}
	step := c.cfg.Step()
	c.accumulator += dt
	n := 0
	for c.accumulator+stepEpsilon >= step && n < c.cfg.MaxSubsteps {
		c.step()
		c.accumulator = math.Max(c.accumulator-step, 0)
		n++
	}
	if c.accumulator+stepEpsilon >= step {
		c.log.Debug().Float64("dropped", c.accumulator).Msg("frame budget exceeded")
		c.accumulator = math.Mod(c.accumulator, step)
	}
	return c.Snapshot()
}

func (c *Coordinator) step() {
	els := make([]*element, len(c.order))
	pos := make([]vmath.Vec2, len(c.order))
	for i, id := range c.order {
		els[i] = c.elements[id]
		pos[i] = els[i].solver.position()
	}

	forces := make([]vmath.Vec2, len(els))
	for i := range els {
		forces[i] = c.netForce(i, els, pos)
	}

	for i, e := range els {
		c.integrate(e, forces[i])
	}
	c.elapsed += c.cfg.Step()
}

// netForce sums the group field, leader attraction for followers and the
// min-distance correction for element i. Spacing is applied last so it
// always wins over attraction.
func (c *Coordinator) netForce(i int, els []*element, pos []vmath.Vec2) vmath.Vec2 {
	e, p := els[i], pos[i]
	net := vmath.Zero2

	if c.cfg.Field != nil && c.hasPointer {
		if res, ok := field.EvaluateAt(*c.cfg.Field, c.pointer, e.Position, c.elapsed); ok {
			net = net.Add(res.Force)
		}
	}

	if e.Role == Follower {
		for j, o := range els {
			if j == i || o.Role != Leader {
				continue
			}
			if res, ok := field.EvaluateAt(c.leaderField(o), pos[j], p, c.elapsed); ok {
				net = net.Add(res.Force)
			}
		}
	}

	for j, o := range els {
		if j == i {
			continue
		}
		minDist := math.Max(e.MinDistance, o.MinDistance)
		if minDist <= 0 {
			continue
		}
		dir, ok := p.Sub(pos[j]).TryNormalize()
		if !ok {
			dir = tieBreak(e.ID, o.ID)
		}
		if c.landing(e, p, net).Sub(pos[j]).Dot(dir) >= minDist {
			continue
		}
		if inward := net.Dot(dir); inward < 0 {
			net = net.Sub(dir.Scale(inward))
		}
		if gap := c.landing(e, p, net).Sub(pos[j]).Dot(dir); gap < minDist {
			net = net.Add(dir.Scale((minDist - gap) * c.cfg.Repulsion))
		}
	}
	return net
}

// landing is where net would put the element: the spring target in spring
// mode, the current position in inertial mode. Spacing is measured from it,
// so a settled spring element sits exactly MinDistance away.
func (c *Coordinator) landing(e *element, p, net vmath.Vec2) vmath.Vec2 {
	if c.cfg.Mode == SpringMode {
		return e.Position.Add(net)
	}
	return p
}

// leaderField is the point field a leader emits to its followers.
func (c *Coordinator) leaderField(leader *element) field.Config {
	f := field.DefaultConfig()
	f.Interaction = field.Attract
	f.Decay = c.cfg.PeerDecay
	f.Strength = leader.Strength
	f.Radius = leader.Radius
	f.MaxDisplacement = c.cfg.MaxPeerForce
	return f
}

// tieBreak separates coincident elements along x, deterministically and in
// opposite directions for the two members of a pair.
func tieBreak(self, other string) vmath.Vec2 {
	if self < other {
		return vmath.V2(-1, 0)
	}
	return vmath.V2(1, 0)
}

func (c *Coordinator) integrate(e *element, net vmath.Vec2) {
	e.force = net
	mag := net.Len()
	if !e.active {
		if mag <= c.cfg.DeadZone {
			return
		}
		e.active = true
		c.log.Debug().Str("element", e.ID).Float64("force", mag).Msg("element activated")
	}

	e.solver.apply(e.Position, net)
	if e.body != nil && len(c.walls) > 0 {
		c.constrain(e)
	}

	if e.solver.atRest() && mag <= c.cfg.DeadZone {
		e.active = false
		c.log.Debug().Str("element", e.ID).Msg("element settled")
	}
}

// constrain resolves the element's body against the container walls and
// writes any correction back into its solver.
func (c *Coordinator) constrain(e *element) {
	e.body.Position = e.solver.position()
	e.body.Velocity = e.solver.velocity()
	hit := false
	for _, w := range c.walls {
		if res := collision.Collide(e.body, w); res.Colliding {
			hit = true
		}
	}
	if hit {
		e.solver.place(e.body.Position, e.body.Velocity)
	}
}

// Snapshot reports elements in the order they were added.
func (c *Coordinator) Snapshot() dynamo.Snapshot {
	entities := make([]dynamo.EntityState, 0, len(c.order))
	for _, id := range c.order {
		st := c.elements[id].state()
		entities = append(entities, dynamo.EntityState{
			ID:       id,
			Position: st.Current,
			Velocity: st.Velocity,
			Force:    st.Force,
			AtRest:   st.AtRest,
			Active:   st.Active,
		})
	}
	return dynamo.Snapshot{Time: c.elapsed, Entities: entities}
}

func springOverrides(cfg spring.Config) spring.Overrides {
	return spring.Overrides{
		Tension:       &cfg.Tension,
		Friction:      &cfg.Friction,
		Mass:          &cfg.Mass,
		RestThreshold: &cfg.RestThreshold,
		Clamp:         &cfg.Clamp,
		MaxVelocity:   &cfg.MaxVelocity,
		FrameRate:     &cfg.FrameRate,
		Integrator:    &cfg.Integrator,
	}
}

func inertiaOverrides(cfg inertia.Config) inertia.Overrides {
	o := inertia.Overrides{
		Friction:      &cfg.Friction,
		RestThreshold: &cfg.RestThreshold,
		BounceFactor:  &cfg.BounceFactor,
		MaxVelocity:   &cfg.MaxVelocity,
		FrameRate:     &cfg.FrameRate,
		Bounds:        cfg.Bounds,
	}
	if cfg.Bounds == nil {
		o.ClearBounds = true
	}
	return o
}
