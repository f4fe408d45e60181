package inertia

import "math"

const (
	DefaultFriction      = 0.92
	DefaultRestThreshold = 0.5
	DefaultBounceFactor  = 0.5
	DefaultMaxVelocity   = 4000.0
	DefaultFrameRate     = 60.0
	DefaultMaxSubsteps   = 8

	MinFriction = 0.01
	MaxFriction = 0.999
	minRest     = 1e-6
)

// Bounds is an optional closed interval the position must stay inside.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (b Bounds) Contains(x float64) bool { return x >= b.Min && x <= b.Max }

// Clamp returns the nearest point of b to x.
func (b Bounds) Clamp(x float64) float64 { return math.Min(math.Max(x, b.Min), b.Max) }

// Config is the fully specified inertial configuration.
//
//	field          default   valid range
//	Friction       0.92      [0.01, 0.999]   per-step velocity multiplier
//	RestThreshold  0.5       [1e-6, inf)     units/s
//	Bounds         nil       Min <= Max (swapped otherwise)
//	BounceFactor   0.5       [0, 1]
//	MaxVelocity    4000      (0, inf)        units/s
//	FrameRate      60        [1, 1000]
//	MaxSubsteps    8         [1, 64]
type Config struct {
	Friction      float64 `yaml:"friction"`
	RestThreshold float64 `yaml:"rest_threshold"`
	Bounds        *Bounds `yaml:"bounds,omitempty"`
	BounceFactor  float64 `yaml:"bounce_factor"`
	MaxVelocity   float64 `yaml:"max_velocity"`
	FrameRate     float64 `yaml:"frame_rate"`
	MaxSubsteps   int     `yaml:"max_substeps"`
}

func DefaultConfig() Config {
	return Config{
		Friction:      DefaultFriction,
		RestThreshold: DefaultRestThreshold,
		BounceFactor:  DefaultBounceFactor,
		MaxVelocity:   DefaultMaxVelocity,
		FrameRate:     DefaultFrameRate,
		MaxSubsteps:   DefaultMaxSubsteps,
	}
}

// Overrides carries the fields a caller wants to change.
type Overrides struct {
	Friction      *float64 `yaml:"friction,omitempty"`
	RestThreshold *float64 `yaml:"rest_threshold,omitempty"`
	Bounds        *Bounds  `yaml:"bounds,omitempty"`
	ClearBounds   bool     `yaml:"clear_bounds,omitempty"`
	BounceFactor  *float64 `yaml:"bounce_factor,omitempty"`
	MaxVelocity   *float64 `yaml:"max_velocity,omitempty"`
	FrameRate     *float64 `yaml:"frame_rate,omitempty"`
	MaxSubsteps   *int     `yaml:"max_substeps,omitempty"`
}

func (c Config) Apply(o Overrides) Config {
	if o.Friction != nil {
		c.Friction = *o.Friction
	}
	if o.RestThreshold != nil {
		c.RestThreshold = *o.RestThreshold
	}
	if o.ClearBounds {
		c.Bounds = nil
	}
	if o.Bounds != nil {
		b := *o.Bounds
		c.Bounds = &b
	}
	if o.BounceFactor != nil {
		c.BounceFactor = *o.BounceFactor
	}
	if o.MaxVelocity != nil {
		c.MaxVelocity = *o.MaxVelocity
	}
	if o.FrameRate != nil {
		c.FrameRate = *o.FrameRate
	}
	if o.MaxSubsteps != nil {
		c.MaxSubsteps = *o.MaxSubsteps
	}
	return c.Sanitize()
}

// Sanitize clamps every field into its valid range.
func (c Config) Sanitize() Config {
	d := DefaultConfig()
	c.Friction = orDefault(c.Friction, d.Friction)
	c.Friction = math.Min(math.Max(c.Friction, MinFriction), MaxFriction)
	c.RestThreshold = math.Max(orDefault(c.RestThreshold, d.RestThreshold), minRest)
	c.BounceFactor = math.Min(math.Max(orDefault(c.BounceFactor, d.BounceFactor), 0), 1)
	c.MaxVelocity = orDefault(c.MaxVelocity, d.MaxVelocity)
	if c.MaxVelocity <= 0 {
		c.MaxVelocity = d.MaxVelocity
	}
	c.FrameRate = orDefault(c.FrameRate, d.FrameRate)
	if c.FrameRate == 0 {
		c.FrameRate = d.FrameRate
	}
	c.FrameRate = math.Min(math.Max(c.FrameRate, 1), 1000)
	if c.MaxSubsteps < 1 {
		c.MaxSubsteps = 1
	}
	if c.MaxSubsteps > 64 {
		c.MaxSubsteps = 64
	}
	if c.Bounds != nil {
		b := *c.Bounds
		if b.Min > b.Max {
			b.Min, b.Max = b.Max, b.Min
		}
		c.Bounds = &b
	}
	return c
}

func (c Config) Step() float64 { return 1 / c.FrameRate }

func orDefault(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
