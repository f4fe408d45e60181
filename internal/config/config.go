// Package config loads and saves scenario files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/coordinator"
	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/momentum"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/vmath"
)

const (
	DefaultScenario = "spring"
	DefaultDt       = 1.0 / 60
	DefaultDuration = 3.0
)

// Config is one scenario file. Engine sections hold overrides; anything left
// out keeps the engine default.
type Config struct {
	Scenario   string  `yaml:"scenario"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	StopAtRest bool    `yaml:"stop_at_rest"`

	Spring      spring.Overrides   `yaml:"spring,omitempty"`
	Inertia     inertia.Overrides  `yaml:"inertia,omitempty"`
	Momentum    momentum.Overrides `yaml:"momentum,omitempty"`
	Coordinator CoordinatorConfig  `yaml:"coordinator,omitempty"`
	Collision   CollisionConfig    `yaml:"collision,omitempty"`
	Init        InitConfig         `yaml:"init"`
}

// InitConfig is the starting state and scripted input.
type InitConfig struct {
	Position vmath.Vec2 `yaml:"position"`
	Velocity vmath.Vec2 `yaml:"velocity"`
	Target   vmath.Vec2 `yaml:"target"`
	// Gesture is replayed through a momentum tracker before launch.
	Gesture []GesturePoint `yaml:"gesture,omitempty"`
	// Pointer moves the coordinator pointer at the given times.
	Pointer []PointerMove `yaml:"pointer,omitempty"`
}

// GesturePoint is one pointer sample, T in milliseconds from gesture start.
type GesturePoint struct {
	T float64 `yaml:"t"`
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PointerMove struct {
	At    float64     `yaml:"at"`
	To    *vmath.Vec2 `yaml:"to"`
	Clear bool        `yaml:"clear,omitempty"`
}

type CoordinatorConfig struct {
	Mode      coordinator.Mode      `yaml:"mode"`
	Overrides coordinator.Overrides `yaml:",inline"`
	Elements  []coordinator.Element `yaml:"elements,omitempty"`
	Bounds    *collision.AABB       `yaml:"bounds,omitempty"`
}

type CollisionConfig struct {
	World  collision.Config `yaml:"world"`
	Walls  *collision.AABB  `yaml:"walls,omitempty"`
	Bodies []BodyConfig     `yaml:"bodies,omitempty"`
}

// BodyConfig describes one body. Shape is circle, rect, polygon or point.
type BodyConfig struct {
	ID          string       `yaml:"id"`
	Shape       string       `yaml:"shape"`
	Radius      float64      `yaml:"radius,omitempty"`
	Width       float64      `yaml:"width,omitempty"`
	Height      float64      `yaml:"height,omitempty"`
	Rotation    float64      `yaml:"rotation,omitempty"`
	Vertices    []vmath.Vec2 `yaml:"vertices,omitempty"`
	Position    vmath.Vec2   `yaml:"position"`
	Velocity    vmath.Vec2   `yaml:"velocity"`
	Mass        float64      `yaml:"mass,omitempty"`
	Friction    *float64     `yaml:"friction,omitempty"`
	Restitution *float64     `yaml:"restitution,omitempty"`
	Static      bool         `yaml:"static,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Init: InitConfig{
			Target: vmath.V2(100, 0),
		},
		Coordinator: CoordinatorConfig{Mode: coordinator.SpringMode},
		Collision:   CollisionConfig{World: collision.DefaultConfig()},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SpringConfig() spring.Config {
	return spring.DefaultConfig().Apply(c.Spring)
}

func (c *Config) InertiaConfig() inertia.Config {
	return inertia.DefaultConfig().Apply(c.Inertia)
}

func (c *Config) MomentumConfig() momentum.Config {
	return momentum.DefaultConfig().Apply(c.Momentum)
}

// CoordinatorConfig resolves the coordinator section. The spring and inertia
// sections seed the element solvers before coordinator overrides apply.
func (c *Config) CoordinatorConfig() coordinator.Config {
	base := coordinator.DefaultConfig()
	base.Mode = c.Coordinator.Mode
	base.Spring = c.SpringConfig()
	base.Inertia = c.InertiaConfig()
	return base.Apply(c.Coordinator.Overrides)
}

// Body builds the collision body. Unknown shapes become circles.
func (b BodyConfig) Body() *collision.Body {
	opts := []collision.BodyOption{collision.WithVelocity(b.Velocity)}
	if b.Mass > 0 {
		opts = append(opts, collision.WithMass(b.Mass))
	}
	if b.Friction != nil {
		opts = append(opts, collision.WithFriction(*b.Friction))
	}
	if b.Restitution != nil {
		opts = append(opts, collision.WithRestitution(*b.Restitution))
	}
	if b.Static {
		opts = append(opts, collision.Static())
	}
	switch b.Shape {
	case "rect":
		if b.Rotation != 0 {
			opts = append(opts, collision.WithRotation(b.Rotation))
		}
		return collision.NewRect(b.ID, b.Position, b.Width, b.Height, opts...)
	case "polygon":
		return collision.NewPolygon(b.ID, b.Position, b.Vertices, opts...)
	case "point":
		return collision.NewPoint(b.ID, b.Position, opts...)
	default:
		return collision.NewCircle(b.ID, b.Position, b.Radius, opts...)
	}
}
