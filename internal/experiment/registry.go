package experiment

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/config"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/metrics"
	"github.com/san-kum/motionsim/internal/sim"
)

// Build is a ready-to-run scenario: the ticker and the input to feed it.
type Build struct {
	Ticker dynamo.Ticker
	Script sim.Script
}

// Builder creates a scenario's engines through eng, keyed by entity or
// scenario id, and returns them ready to run.
type Builder func(cfg *config.Config, eng *Engines, log zerolog.Logger) (*Build, error)

type Registry struct {
	scenarios map[string]Builder
	about     map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]Builder),
		about:     make(map[string]string),
	}

	r.Register("spring", "2-D spring from init.position to init.target", buildSpring)
	r.Register("inertia", "inertial glide launched with init.velocity", buildInertia)
	r.Register("flick", "gesture replayed through the momentum tracker, then glide", buildFlick)
	r.Register("magnetic", "coordinated elements pulled by a pointer field", buildMagnetic)
	r.Register("follow", "leader moves to init.target, followers respond", buildFollow)
	r.Register("box", "rigid bodies bouncing inside four walls", buildBox)

	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name, about string, b Builder) {
	r.scenarios[name] = b
	r.about[name] = about
}

func (r *Registry) GetScenario(name string) (Builder, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownScenario, name)
	}
	return fn, nil
}

// Describe returns the one-line description of a scenario.
func (r *Registry) Describe(name string) string { return r.about[name] }

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(scenario string) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewKineticEnergy(1.0),
		metrics.NewMaxSpeed(),
		metrics.NewSettleTime(),
	}
	switch scenario {
	case "box":
		ms = append(ms, metrics.NewEnergyDrift(1.0), metrics.NewStability(1000))
	case "magnetic", "follow":
		ms = append(ms, metrics.NewForceEffort())
	}
	return ms
}
