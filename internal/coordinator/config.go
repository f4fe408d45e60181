package coordinator

import (
	"math"

	"github.com/san-kum/motionsim/internal/field"
	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/spring"
)

// Mode selects the solver that integrates each element.
type Mode int

const (
	SpringMode Mode = iota
	InertialMode
)

func (m Mode) String() string {
	if m == InertialMode {
		return "inertial"
	}
	return "spring"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	*m = SpringMode
	if string(b) == "inertial" || string(b) == "inertia" {
		*m = InertialMode
	}
	return nil
}

const (
	DefaultFrameRate   = 60.0
	DefaultMaxSubsteps = 8
	DefaultDeadZone    = 0.5
	DefaultRepulsion   = 1.0
	DefaultMaxPeer     = 50.0
)

// Config controls a Coordinator.
//
//	field         default   valid range
//	Mode          spring
//	Field         nil       group field around every anchor, driven by the pointer
//	PeerDecay     linear    decay of a leader's field as seen by followers
//	MaxPeerForce  50        (0, inf)
//	DeadZone      0.5       [0, inf)  net force needed to activate an element
//	Repulsion     1         [0, inf)  min-distance correction per unit of overlap
//	FrameRate     60        [1, 1000] shared by every element solver
//	MaxSubsteps   8         [1, 64]
//	Spring        spring.DefaultConfig()
//	Inertia       inertia.DefaultConfig()
type Config struct {
	Mode         Mode           `yaml:"mode"`
	Field        *field.Config  `yaml:"field,omitempty"`
	PeerDecay    field.Decay    `yaml:"peer_decay"`
	MaxPeerForce float64        `yaml:"max_peer_force"`
	DeadZone     float64        `yaml:"dead_zone"`
	Repulsion    float64        `yaml:"repulsion"`
	FrameRate    float64        `yaml:"frame_rate"`
	MaxSubsteps  int            `yaml:"max_substeps"`
	Spring       spring.Config  `yaml:"spring"`
	Inertia      inertia.Config `yaml:"inertia"`
}

func DefaultConfig() Config {
	return Config{
		Mode:         SpringMode,
		PeerDecay:    field.Linear,
		MaxPeerForce: DefaultMaxPeer,
		DeadZone:     DefaultDeadZone,
		Repulsion:    DefaultRepulsion,
		FrameRate:    DefaultFrameRate,
		MaxSubsteps:  DefaultMaxSubsteps,
		Spring:       spring.DefaultConfig(),
		Inertia:      inertia.DefaultConfig(),
	}
}

// Overrides carries the fields a caller wants to change after construction.
// Mode is fixed for the lifetime of a Coordinator.
type Overrides struct {
	Field        *field.Config      `yaml:"field,omitempty"`
	ClearField   bool               `yaml:"clear_field,omitempty"`
	DeadZone     *float64           `yaml:"dead_zone,omitempty"`
	Repulsion    *float64           `yaml:"repulsion,omitempty"`
	MaxPeerForce *float64           `yaml:"max_peer_force,omitempty"`
	Spring       *spring.Overrides  `yaml:"spring,omitempty"`
	Inertia      *inertia.Overrides `yaml:"inertia,omitempty"`
}

func (c Config) Apply(o Overrides) Config {
	if o.ClearField {
		c.Field = nil
	}
	if o.Field != nil {
		f := *o.Field
		c.Field = &f
	}
	if o.DeadZone != nil {
		c.DeadZone = *o.DeadZone
	}
	if o.Repulsion != nil {
		c.Repulsion = *o.Repulsion
	}
	if o.MaxPeerForce != nil {
		c.MaxPeerForce = *o.MaxPeerForce
	}
	if o.Spring != nil {
		c.Spring = c.Spring.Apply(*o.Spring)
	}
	if o.Inertia != nil {
		c.Inertia = c.Inertia.Apply(*o.Inertia)
	}
	return c.Sanitize()
}

// Sanitize clamps every field and pushes the shared frame rate into the
// solver configurations.
func (c Config) Sanitize() Config {
	d := DefaultConfig()
	if c.Mode != InertialMode {
		c.Mode = SpringMode
	}
	if c.Field != nil {
		f := c.Field.Sanitize()
		c.Field = &f
	}
	if !(c.MaxPeerForce > 0) || math.IsInf(c.MaxPeerForce, 0) {
		c.MaxPeerForce = d.MaxPeerForce
	}
	if math.IsNaN(c.DeadZone) || c.DeadZone < 0 {
		c.DeadZone = 0
	}
	if math.IsNaN(c.Repulsion) || c.Repulsion < 0 {
		c.Repulsion = 0
	}
	if math.IsNaN(c.FrameRate) || c.FrameRate == 0 {
		c.FrameRate = d.FrameRate
	}
	c.FrameRate = math.Min(math.Max(c.FrameRate, 1), 1000)
	if c.MaxSubsteps < 1 {
		c.MaxSubsteps = 1
	}
	if c.MaxSubsteps > 64 {
		c.MaxSubsteps = 64
	}
	c.Spring.FrameRate = c.FrameRate
	c.Inertia.FrameRate = c.FrameRate
	c.Spring = c.Spring.Sanitize()
	c.Inertia = c.Inertia.Sanitize()
	return c
}

func (c Config) Step() float64 { return 1 / c.FrameRate }
