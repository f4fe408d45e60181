package spring

import "math"

const (
	DefaultTension       = 170.0
	DefaultFriction      = 26.0
	DefaultMass          = 1.0
	DefaultRestThreshold = 0.01
	DefaultFrameRate     = 60.0
	DefaultMaxSubsteps   = 8

	// MinMass is the smallest mass a solver will integrate with.
	MinMass         = 1e-2
	minRest         = 1e-6
	minFrameRate    = 1.0
	maxFrameRate    = 1000.0
	maxSubstepLimit = 64

	// explicit integration stays stable while omega*h and (friction/mass)*h
	// stay below these bounds
	maxOmegaStep      = 0.5
	maxDampingStep    = 1.0
	maxStabilitySplit = 256
)

// Config is the fully specified spring configuration.
//
//	field          default        valid range
//	Tension        170            [0, inf)
//	Friction       26             [0, inf)
//	Mass           1              [MinMass, inf)
//	RestThreshold  0.01           [1e-6, inf)
//	Clamp          false
//	MaxVelocity    0 (unlimited)  [0, inf)
//	FrameRate      60             [1, 1000]
//	MaxSubsteps    8              [1, 64]
//	Integrator     "semi-implicit"
type Config struct {
	Tension       float64 `yaml:"tension"`
	Friction      float64 `yaml:"friction"`
	Mass          float64 `yaml:"mass"`
	RestThreshold float64 `yaml:"rest_threshold"`
	Clamp         bool    `yaml:"clamp"`
	MaxVelocity   float64 `yaml:"max_velocity"`
	FrameRate     float64 `yaml:"frame_rate"`
	MaxSubsteps   int     `yaml:"max_substeps"`
	Integrator    string  `yaml:"integrator"`
}

func DefaultConfig() Config {
	return Config{
		Tension:       DefaultTension,
		Friction:      DefaultFriction,
		Mass:          DefaultMass,
		RestThreshold: DefaultRestThreshold,
		FrameRate:     DefaultFrameRate,
		MaxSubsteps:   DefaultMaxSubsteps,
		Integrator:    "semi-implicit",
	}
}

// Overrides carries the fields a caller wants to change. Nil fields keep the
// base value.
type Overrides struct {
	Tension       *float64 `yaml:"tension,omitempty"`
	Friction      *float64 `yaml:"friction,omitempty"`
	Mass          *float64 `yaml:"mass,omitempty"`
	RestThreshold *float64 `yaml:"rest_threshold,omitempty"`
	Clamp         *bool    `yaml:"clamp,omitempty"`
	MaxVelocity   *float64 `yaml:"max_velocity,omitempty"`
	FrameRate     *float64 `yaml:"frame_rate,omitempty"`
	MaxSubsteps   *int     `yaml:"max_substeps,omitempty"`
	Integrator    *string  `yaml:"integrator,omitempty"`
	Preset        *string  `yaml:"preset,omitempty"`
}

// Apply layers o over c and returns the sanitized result. A preset named in
// o is applied first, then the individual fields.
func (c Config) Apply(o Overrides) Config {
	if o.Preset != nil {
		if p, ok := Presets[*o.Preset]; ok {
			c.Tension, c.Friction = p.Tension, p.Friction
		}
	}
	if o.Tension != nil {
		c.Tension = *o.Tension
	}
	if o.Friction != nil {
		c.Friction = *o.Friction
	}
	if o.Mass != nil {
		c.Mass = *o.Mass
	}
	if o.RestThreshold != nil {
		c.RestThreshold = *o.RestThreshold
	}
	if o.Clamp != nil {
		c.Clamp = *o.Clamp
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
	if o.Integrator != nil {
		c.Integrator = *o.Integrator
	}
	return c.Sanitize()
}

// Sanitize clamps every field into its valid range. NaN falls back to the
// default for that field.
func (c Config) Sanitize() Config {
	d := DefaultConfig()
	c.Tension = nonNegative(c.Tension, d.Tension)
	c.Friction = nonNegative(c.Friction, d.Friction)
	if math.IsNaN(c.Mass) || math.IsInf(c.Mass, 0) {
		c.Mass = d.Mass
	}
	c.Mass = math.Max(c.Mass, MinMass)
	if math.IsNaN(c.RestThreshold) {
		c.RestThreshold = d.RestThreshold
	}
	c.RestThreshold = math.Max(c.RestThreshold, minRest)
	c.MaxVelocity = nonNegative(c.MaxVelocity, 0)
	if math.IsNaN(c.FrameRate) || c.FrameRate == 0 {
		c.FrameRate = d.FrameRate
	}
	c.FrameRate = math.Min(math.Max(c.FrameRate, minFrameRate), maxFrameRate)
	if c.MaxSubsteps < 1 {
		c.MaxSubsteps = 1
	}
	if c.MaxSubsteps > maxSubstepLimit {
		c.MaxSubsteps = maxSubstepLimit
	}
	if c.Integrator == "" {
		c.Integrator = d.Integrator
	}
	return c
}

// Step returns the fixed timestep in seconds.
func (c Config) Step() float64 { return 1 / c.FrameRate }

// stabilitySubsteps splits one fixed step into enough integration steps to
// keep stiff or heavily damped configurations from diverging.
func (c Config) stabilitySubsteps(dt float64) int {
	omega := math.Sqrt(c.Tension / c.Mass)
	damping := c.Friction / c.Mass
	n := math.Ceil(math.Max(omega*dt/maxOmegaStep, damping*dt/maxDampingStep))
	if n < 1 {
		return 1
	}
	if n > maxStabilitySplit {
		return maxStabilitySplit
	}
	return int(n)
}

func nonNegative(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Max(v, 0)
}
