package collision

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/vmath"
)

const (
	DefaultFrameRate     = 60.0
	DefaultMaxSubsteps   = 8
	DefaultIterations    = 4
	DefaultRestThreshold = 0.5

	stepEpsilon = 1e-9
)

// Config controls a World.
//
//	field          default  valid range
//	Gravity        (0, 0)   units/s^2
//	FrameRate      60       [1, 1000]
//	MaxSubsteps    8        [1, 64]
//	Iterations     4        [1, 32]   resolution passes per step
//	RestThreshold  0.5      [0, inf)  units/s
type Config struct {
	Gravity       vmath.Vec2 `yaml:"gravity"`
	FrameRate     float64    `yaml:"frame_rate"`
	MaxSubsteps   int        `yaml:"max_substeps"`
	Iterations    int        `yaml:"iterations"`
	RestThreshold float64    `yaml:"rest_threshold"`
}

func DefaultConfig() Config {
	return Config{
		FrameRate:     DefaultFrameRate,
		MaxSubsteps:   DefaultMaxSubsteps,
		Iterations:    DefaultIterations,
		RestThreshold: DefaultRestThreshold,
	}
}

func (c Config) Sanitize() Config {
	if !c.Gravity.IsValid() {
		c.Gravity = vmath.Zero2
	}
	if math.IsNaN(c.FrameRate) || c.FrameRate == 0 {
		c.FrameRate = DefaultFrameRate
	}
	c.FrameRate = vmath.Clamp(c.FrameRate, 1, 1000)
	c.MaxSubsteps = clampInt(c.MaxSubsteps, 1, 64)
	c.Iterations = clampInt(c.Iterations, 1, 32)
	if math.IsNaN(c.RestThreshold) || c.RestThreshold < 0 {
		c.RestThreshold = DefaultRestThreshold
	}
	return c
}

func (c Config) Step() float64 { return 1 / c.FrameRate }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Contact is a colliding pair found during the last step.
type Contact struct {
	A, B string
	Result
}

// World owns a set of bodies and advances them in fixed steps, resolving
// every overlapping pair after integration.
type World struct {
	cfg Config
	log zerolog.Logger

	bodies   []*Body
	index    map[string]*Body
	contacts []Contact

	elapsed     float64
	accumulator float64
}

type WorldOption func(*World)

func WithLogger(log zerolog.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

func NewWorld(cfg Config, opts ...WorldOption) *World {
	w := &World{
		cfg:   cfg.Sanitize(),
		log:   zerolog.Nop(),
		index: make(map[string]*Body),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Config() Config { return w.cfg }

// AddBody copies b into the world.
func (w *World) AddBody(b *Body) error {
	if b == nil {
		return fmt.Errorf("add body: %w", dynamo.ErrInvalidState)
	}
	if _, ok := w.index[b.ID]; ok {
		return fmt.Errorf("add body %q: %w", b.ID, dynamo.ErrDuplicateID)
	}
	c := *b
	mass := c.Mass
	c.sanitize()
	if c.Mass != mass {
		w.log.Debug().Str("body", c.ID).Float64("mass", mass).Float64("clamped", c.Mass).Msg("mass clamped")
	}
	w.bodies = append(w.bodies, &c)
	w.index[c.ID] = &c
	w.log.Debug().Str("body", c.ID).Stringer("shape", c.Shape.Kind()).Bool("static", c.Static).Msg("body added")
	return nil
}

func (w *World) RemoveBody(id string) bool {
	b, ok := w.index[id]
	if !ok {
		return false
	}
	delete(w.index, id)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.log.Debug().Str("body", id).Msg("body removed")
	return true
}

// Body returns a copy of the body with the given id.
func (w *World) Body(id string) (Body, bool) {
	b, ok := w.index[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Bodies returns copies in insertion order.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = *b
	}
	return out
}

func (w *World) Len() int { return len(w.bodies) }

// AddVelocity changes a dynamic body's velocity. Static bodies ignore it.
func (w *World) AddVelocity(id string, dv vmath.Vec2) bool {
	b, ok := w.index[id]
	if !ok || b.Static || !dv.IsValid() {
		return false
	}
	b.Velocity = b.Velocity.Add(dv)
	return true
}

// Contacts lists the pairs that collided during the last step.
func (w *World) Contacts() []Contact {
	out := make([]Contact, len(w.contacts))
	copy(out, w.contacts)
	return out
}

// Update runs one step of dt seconds, or of the fixed step when dt <= 0.
func (w *World) Update(dt float64) dynamo.Snapshot {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = w.cfg.Step()
	}
	w.step(dt)
	return w.Snapshot()
}

// Tick accumulates dt and runs at most MaxSubsteps fixed steps.
func (w *World) Tick(dt float64) dynamo.Snapshot {
	step := w.cfg.Step()
	if !(dt > 0) || math.IsInf(dt, 0) {
		w.step(step)
		return w.Snapshot()
	}
	w.accumulator += dt
	n := 0
	for w.accumulator+stepEpsilon >= step && n < w.cfg.MaxSubsteps {
		w.step(step)
		w.accumulator = math.Max(w.accumulator-step, 0)
		n++
	}
	if w.accumulator+stepEpsilon >= step {
		w.log.Debug().Float64("dropped", w.accumulator).Msg("frame budget exceeded")
		w.accumulator = math.Mod(w.accumulator, step)
	}
	return w.Snapshot()
}

func (w *World) step(dt float64) {
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(w.cfg.Gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if !b.Position.IsValid() || !b.Velocity.IsValid() {
			w.log.Warn().Str("body", b.ID).Msg("non-finite body state, stopping body")
			b.Velocity = vmath.Zero2
			if !b.Position.IsValid() {
				b.Position = vmath.Zero2
			}
		}
	}

	w.contacts = w.contacts[:0]
	for iter := 0; iter < w.cfg.Iterations; iter++ {
		hit := false
		for i := 0; i < len(w.bodies); i++ {
			for j := i + 1; j < len(w.bodies); j++ {
				a, b := w.bodies[i], w.bodies[j]
				if a.Static && b.Static {
					continue
				}
				if !a.Bounds().Overlaps(b.Bounds()) {
					continue
				}
				res := Detect(a, b)
				if !res.Colliding {
					continue
				}
				hit = true
				Resolve(a, b, res)
				if iter == 0 {
					w.contacts = append(w.contacts, Contact{A: a.ID, B: b.ID, Result: res})
				}
			}
		}
		if !hit {
			break
		}
	}
	w.elapsed += dt
}

// Snapshot reports every body. Static bodies are always at rest.
func (w *World) Snapshot() dynamo.Snapshot {
	entities := make([]dynamo.EntityState, len(w.bodies))
	for i, b := range w.bodies {
		rest := b.Static || b.Velocity.Len() < w.cfg.RestThreshold
		entities[i] = dynamo.EntityState{
			ID:       b.ID,
			Position: b.Position,
			Velocity: b.Velocity,
			AtRest:   rest,
			Active:   !rest,
		}
	}
	return dynamo.Snapshot{Time: w.elapsed, Entities: entities}
}
