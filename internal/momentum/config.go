package momentum

import "math"

// Direction constrains which axes a gesture may launch along.
type Direction int

const (
	Both Direction = iota
	Horizontal
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "both"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	*d = ParseDirection(string(b))
	return nil
}

// ParseDirection maps "horizontal", "vertical" and anything else to Both.
func ParseDirection(s string) Direction {
	switch s {
	case "horizontal", "x":
		return Horizontal
	case "vertical", "y":
		return Vertical
	default:
		return Both
	}
}

const (
	DefaultVelocityMultiplier     = 1.0
	DefaultSmallGestureMultiplier = 1.5
	DefaultMinimumDistance        = 10.0
	DefaultMinimumVelocity        = 50.0
	DefaultMaxVelocity            = 3000.0
)

// Config is the release policy of a Tracker.
//
//	field                   default  valid range
//	VelocityMultiplier      1        [0, inf)
//	SmallGestureMultiplier  1.5      [0, inf)
//	MinimumDistance         10       [0, inf)   units
//	MinimumVelocity         50       [0, inf)   units/s
//	MaxVelocity             3000     (0, inf)   units/s
//	DurationScaling         true
//	Direction               both
//	AxisLock                false
type Config struct {
	VelocityMultiplier     float64   `yaml:"velocity_multiplier"`
	SmallGestureMultiplier float64   `yaml:"small_gesture_multiplier"`
	MinimumDistance        float64   `yaml:"minimum_distance"`
	MinimumVelocity        float64   `yaml:"minimum_velocity"`
	MaxVelocity            float64   `yaml:"max_velocity"`
	DurationScaling        bool      `yaml:"duration_scaling"`
	Direction              Direction `yaml:"direction"`
	AxisLock               bool      `yaml:"axis_lock"`
}

func DefaultConfig() Config {
	return Config{
		VelocityMultiplier:     DefaultVelocityMultiplier,
		SmallGestureMultiplier: DefaultSmallGestureMultiplier,
		MinimumDistance:        DefaultMinimumDistance,
		MinimumVelocity:        DefaultMinimumVelocity,
		MaxVelocity:            DefaultMaxVelocity,
		DurationScaling:        true,
		Direction:              Both,
	}
}

type Overrides struct {
	VelocityMultiplier     *float64 `yaml:"velocity_multiplier,omitempty"`
	SmallGestureMultiplier *float64 `yaml:"small_gesture_multiplier,omitempty"`
	MinimumDistance        *float64 `yaml:"minimum_distance,omitempty"`
	MinimumVelocity        *float64 `yaml:"minimum_velocity,omitempty"`
	MaxVelocity            *float64 `yaml:"max_velocity,omitempty"`
	DurationScaling        *bool    `yaml:"duration_scaling,omitempty"`
	Direction              *string  `yaml:"direction,omitempty"`
	AxisLock               *bool    `yaml:"axis_lock,omitempty"`
}

func (c Config) Apply(o Overrides) Config {
	if o.VelocityMultiplier != nil {
		c.VelocityMultiplier = *o.VelocityMultiplier
	}
	if o.SmallGestureMultiplier != nil {
		c.SmallGestureMultiplier = *o.SmallGestureMultiplier
	}
	if o.MinimumDistance != nil {
		c.MinimumDistance = *o.MinimumDistance
	}
	if o.MinimumVelocity != nil {
		c.MinimumVelocity = *o.MinimumVelocity
	}
	if o.MaxVelocity != nil {
		c.MaxVelocity = *o.MaxVelocity
	}
	if o.DurationScaling != nil {
		c.DurationScaling = *o.DurationScaling
	}
	if o.Direction != nil {
		c.Direction = ParseDirection(*o.Direction)
	}
	if o.AxisLock != nil {
		c.AxisLock = *o.AxisLock
	}
	return c.Sanitize()
}

// Sanitize clamps every field into its valid range.
func (c Config) Sanitize() Config {
	d := DefaultConfig()
	c.VelocityMultiplier = nonNegative(c.VelocityMultiplier, d.VelocityMultiplier)
	c.SmallGestureMultiplier = nonNegative(c.SmallGestureMultiplier, d.SmallGestureMultiplier)
	c.MinimumDistance = nonNegative(c.MinimumDistance, d.MinimumDistance)
	c.MinimumVelocity = nonNegative(c.MinimumVelocity, d.MinimumVelocity)
	if !(c.MaxVelocity > 0) || math.IsInf(c.MaxVelocity, 0) {
		c.MaxVelocity = d.MaxVelocity
	}
	if c.Direction < Both || c.Direction > Vertical {
		c.Direction = Both
	}
	return c
}

func nonNegative(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Max(v, 0)
}
