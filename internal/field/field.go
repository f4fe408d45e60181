// Package field evaluates vector force fields: magnetic attraction around a
// point and sampled flow fields. Evaluation is pure.
package field

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

// OrbitOffset is the rotation applied to the displacement by an orbit
// interaction. It is 0.5 rad rather than a quarter turn; visuals tuned
// against it depend on the exact value.
const OrbitOffset = 0.5

// Kind selects between a magnetic point field and the flow fields.
type Kind int

const (
	Point Kind = iota
	Directional
	Radial
	Vortex
	Noise
)

var kindNames = map[Kind]string{
	Point:       "point",
	Directional: "directional",
	Radial:      "radial",
	Vortex:      "vortex",
	Noise:       "noise",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "point"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	*k = Point
	for v, n := range kindNames {
		if n == string(b) {
			*k = v
		}
	}
	return nil
}

// Interaction is how a point field responds to the pointer.
type Interaction int

const (
	Attract Interaction = iota
	Repel
	Orbit
)

var interactionNames = map[Interaction]string{
	Attract: "attract",
	Repel:   "repel",
	Orbit:   "orbit",
}

func (i Interaction) String() string {
	if n, ok := interactionNames[i]; ok {
		return n
	}
	return "attract"
}

func (i Interaction) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Interaction) UnmarshalText(b []byte) error {
	*i = Attract
	for v, n := range interactionNames {
		if n == string(b) {
			*i = v
		}
	}
	return nil
}

const (
	DefaultStrength        = 0.3
	DefaultRadius          = 150.0
	DefaultMaxDisplacement = 50.0
	DefaultNoiseScale      = 3.0

	minRadius = 1.0
)

// Config describes one field.
//
//	field            default    valid range
//	Kind             point
//	Shape            circular
//	Decay            linear
//	Interaction      attract    point fields only
//	Strength         0.3        any finite value
//	Radius           150        [1, inf)
//	Aspect           (1, 1)     each axis (0, inf), scales Radius for non-circular shapes
//	Direction        nil        directional flows; nil means +X
//	MaxDisplacement  50         (0, inf)
//	NoiseScale       3          (0, inf)
type Config struct {
	Kind            Kind        `yaml:"kind"`
	Shape           Shape       `yaml:"shape"`
	Decay           Decay       `yaml:"decay"`
	Interaction     Interaction `yaml:"interaction"`
	Strength        float64     `yaml:"strength"`
	Radius          float64     `yaml:"radius"`
	Aspect          vmath.Vec2  `yaml:"aspect"`
	Direction       *vmath.Vec2 `yaml:"direction,omitempty"`
	MaxDisplacement float64     `yaml:"max_displacement"`
	NoiseScale      float64     `yaml:"noise_scale"`
}

func DefaultConfig() Config {
	return Config{
		Kind:            Point,
		Shape:           Circular,
		Decay:           Linear,
		Interaction:     Attract,
		Strength:        DefaultStrength,
		Radius:          DefaultRadius,
		Aspect:          vmath.V2(1, 1),
		MaxDisplacement: DefaultMaxDisplacement,
		NoiseScale:      DefaultNoiseScale,
	}
}

// Sanitize clamps every field into its valid range.
func (c Config) Sanitize() Config {
	d := DefaultConfig()
	if math.IsNaN(c.Strength) || math.IsInf(c.Strength, 0) {
		c.Strength = d.Strength
	}
	if math.IsNaN(c.Radius) || c.Radius < minRadius {
		c.Radius = minRadius
	}
	if !(c.Aspect.X > 0) || math.IsInf(c.Aspect.X, 0) {
		c.Aspect.X = 1
	}
	if !(c.Aspect.Y > 0) || math.IsInf(c.Aspect.Y, 0) {
		c.Aspect.Y = 1
	}
	if !(c.MaxDisplacement > 0) {
		c.MaxDisplacement = d.MaxDisplacement
	}
	if !(c.NoiseScale > 0) {
		c.NoiseScale = d.NoiseScale
	}
	if c.Direction != nil && !c.Direction.IsValid() {
		c.Direction = nil
	}
	return c
}

func (c Config) extents() (float64, float64) {
	if c.Shape == Circular {
		return c.Radius, c.Radius
	}
	return c.Radius * c.Aspect.X, c.Radius * c.Aspect.Y
}

// flow reports whether c samples a vector field instead of a point source.
func (c Config) flow() bool {
	return c.Kind != Point || c.Direction != nil
}

type Result struct {
	Force vmath.Vec2
	Angle float64
}

// Evaluate computes the force cfg exerts for sample s.
func Evaluate(cfg Config, s Sample) Result {
	cfg = cfg.Sanitize()
	decay := cfg.Decay.Apply(s.NormalizedDistance)

	if cfg.flow() {
		v := flowVector(cfg, s)
		force := v.Scale(cfg.Strength * decay).ClampLength(cfg.MaxDisplacement)
		return Result{Force: force, Angle: v.Angle()}
	}

	var force vmath.Vec2
	switch cfg.Interaction {
	case Repel:
		force = s.Offset.Neg()
	case Orbit:
		force = s.Offset.Rotate(OrbitOffset)
	default:
		force = s.Offset
	}
	force = force.Scale(cfg.Strength * decay).ClampLength(cfg.MaxDisplacement)
	return Result{Force: force, Angle: force.Angle()}
}

// flowVector samples the unit flow direction at the normalized position.
func flowVector(cfg Config, s Sample) vmath.Vec2 {
	switch cfg.Kind {
	case Radial:
		return s.Position.Normalize()
	case Vortex:
		return s.Position.Normalize().Perp()
	case Noise:
		k := cfg.NoiseScale
		p := s.Position
		a := math.Sin(p.X*k+s.Elapsed)*math.Cos(p.Y*k-s.Elapsed)*math.Pi + s.Elapsed
		return vmath.FromAngle(a, 1)
	default:
		if cfg.Direction != nil {
			return cfg.Direction.Normalize()
		}
		return vmath.V2(1, 0)
	}
}

// EvaluateAt is a convenience for NewSample followed by Evaluate. ok is
// false and the result zero when pointer lies outside the field.
func EvaluateAt(cfg Config, pointer, center vmath.Vec2, elapsed float64) (Result, bool) {
	s := NewSample(cfg, pointer, center, elapsed)
	if !s.InRange() {
		return Result{}, false
	}
	return Evaluate(cfg, s), true
}
