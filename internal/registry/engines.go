package registry

import (
	"github.com/san-kum/motionsim/internal/collision"
	"github.com/san-kum/motionsim/internal/coordinator"
	"github.com/san-kum/motionsim/internal/inertia"
	"github.com/san-kum/motionsim/internal/spring"
)

// Springs is a table of two-dimensional spring solvers.
type Springs = Registry[spring.Config, *spring.Solver]

func NewSprings(opts ...Option) *Springs {
	return New(func(id string, cfg spring.Config) *spring.Solver {
		return spring.New(cfg, 2, spring.WithID(id))
	}, opts...)
}

// Inertials is a table of X/Y inertial solver pairs.
type Inertials = Registry[inertia.Config, *inertia.Solver2D]

func NewInertials(opts ...Option) *Inertials {
	return New(func(id string, cfg inertia.Config) *inertia.Solver2D {
		return inertia.NewUniform2D(cfg, inertia.WithID(id))
	}, opts...)
}

// Coordinators is a table of multi-element coordinators.
type Coordinators = Registry[coordinator.Config, *coordinator.Coordinator]

func NewCoordinators(opts ...Option) *Coordinators {
	o := collect(opts)
	return New(func(id string, cfg coordinator.Config) *coordinator.Coordinator {
		return coordinator.New(cfg, coordinator.WithLogger(o.log.With().Str("coordinator", id).Logger()))
	}, opts...)
}

// Worlds is a table of collision worlds.
type Worlds = Registry[collision.Config, *collision.World]

func NewWorlds(opts ...Option) *Worlds {
	o := collect(opts)
	return New(func(id string, cfg collision.Config) *collision.World {
		return collision.NewWorld(cfg, collision.WithLogger(o.log.With().Str("world", id).Logger()))
	}, opts...)
}
