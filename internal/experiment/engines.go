package experiment

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/registry"
)

// Engines is the handle table an experiment builds its engines through,
// keyed by entity or scenario id. Each experiment owns one; Close stops and
// drops every instance it holds.
type Engines struct {
	Springs      *registry.Springs
	Inertials    *registry.Inertials
	Coordinators *registry.Coordinators
	Worlds       *registry.Worlds
}

func NewEngines(log zerolog.Logger) *Engines {
	opt := registry.WithLogger(log)
	return &Engines{
		Springs:      registry.NewSprings(opt),
		Inertials:    registry.NewInertials(opt),
		Coordinators: registry.NewCoordinators(opt),
		Worlds:       registry.NewWorlds(opt),
	}
}

// Len counts live instances across all tables.
func (e *Engines) Len() int {
	return e.Springs.Len() + e.Inertials.Len() + e.Coordinators.Len() + e.Worlds.Len()
}

func (e *Engines) Close() {
	e.Springs.Close()
	e.Inertials.Close()
	e.Coordinators.Close()
	e.Worlds.Close()
}
