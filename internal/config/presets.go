package config

import (
	"sort"

	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/coordinator"
	"github.com/san-kum/motionsim/internal/field"
	"github.com/san-kum/motionsim/internal/momentum"
	"github.com/san-kum/motionsim/internal/spring"
	"github.com/san-kum/motionsim/internal/vmath"
)

func ptr[T any](v T) *T { return &v }

func flick(gesture []GesturePoint, m momentum.Overrides) *Config {
	c := DefaultConfig()
	c.Scenario = "flick"
	c.Duration = 4
	c.StopAtRest = true
	c.Init.Gesture = gesture
	c.Momentum = m
	return c
}

func springPreset(name string) *Config {
	c := DefaultConfig()
	c.Spring = spring.Overrides{Preset: ptr(name)}
	c.StopAtRest = true
	return c
}

func magnetic(interaction field.Interaction) *Config {
	c := DefaultConfig()
	c.Scenario = "magnetic"
	c.Duration = 4
	f := field.DefaultConfig()
	f.Interaction = interaction
	c.Coordinator.Overrides.Field = &f
	c.Coordinator.Elements = []coordinator.Element{
		{ID: "a", Position: vmath.V2(-60, 0)},
		{ID: "b", Position: vmath.V2(0, 0)},
		{ID: "c", Position: vmath.V2(60, 0)},
	}
	c.Init.Pointer = []PointerMove{
		{At: 0, To: ptr(vmath.V2(20, 40))},
		{At: 2, Clear: true},
	}
	return c
}

func box(restitution float64, gravity vmath.Vec2) *Config {
	c := DefaultConfig()
	c.Scenario = "box"
	c.Duration = 6
	c.Collision.World.Gravity = gravity
	c.Collision.Walls = &collision.AABB{Min: vmath.V2(-100, -100), Max: vmath.V2(100, 100)}
	c.Collision.Bodies = []BodyConfig{
		{ID: "ball", Shape: "circle", Radius: 8, Position: vmath.V2(-40, 0), Velocity: vmath.V2(120, 35), Restitution: ptr(restitution), Friction: ptr(0.0)},
		{ID: "crate", Shape: "rect", Width: 20, Height: 20, Position: vmath.V2(40, 10), Velocity: vmath.V2(-60, -20), Restitution: ptr(restitution), Friction: ptr(0.0)},
		{ID: "wedge", Shape: "polygon", Vertices: []vmath.Vec2{{X: -10, Y: -8}, {X: 10, Y: -8}, {X: 0, Y: 12}}, Position: vmath.V2(0, -50), Velocity: vmath.V2(30, 70), Restitution: ptr(restitution), Friction: ptr(0.0)},
	}
	return c
}

// Presets are ready-made scenarios keyed by scenario then preset name.
var Presets = map[string]map[string]*Config{
	"spring": {
		"default":  springPreset("default"),
		"wobbly":   springPreset("wobbly"),
		"stiff":    springPreset("stiff"),
		"molasses": springPreset("molasses"),
	},
	"flick": {
		"gentle": flick([]GesturePoint{{0, 0, 0}, {16, 4, 1}, {32, 8, 2}, {48, 12, 3}}, momentum.Overrides{}),
		"hard":   flick([]GesturePoint{{0, 0, 0}, {16, 14, 6}, {32, 30, 12}, {48, 48, 18}, {64, 68, 24}}, momentum.Overrides{}),
		"locked": flick([]GesturePoint{{0, 0, 0}, {16, 14, 10}, {32, 30, 20}, {48, 48, 30}}, momentum.Overrides{AxisLock: ptr(true)}),
	},
	"magnetic": {
		"attract": magnetic(field.Attract),
		"repel":   magnetic(field.Repel),
		"orbit":   magnetic(field.Orbit),
	},
	"box": {
		"elastic": box(1, vmath.Vec2{}),
		"damped":  box(0.6, vmath.Vec2{}),
		"gravity": box(0.8, vmath.V2(0, -300)),
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
