package spring

import "sort"

// Presets are named tension/friction pairs. Every other field comes from
// DefaultConfig.
var Presets = map[string]Config{
	"default":  preset(170, 26),
	"gentle":   preset(120, 14),
	"wobbly":   preset(180, 12),
	"stiff":    preset(210, 20),
	"slow":     preset(280, 60),
	"molasses": preset(280, 120),
}

func preset(tension, friction float64) Config {
	c := DefaultConfig()
	c.Tension = tension
	c.Friction = friction
	return c
}

// Preset returns a copy of the named preset.
func Preset(name string) (Config, bool) {
	c, ok := Presets[name]
	return c, ok
}

func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
