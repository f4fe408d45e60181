// Package experiment turns a scenario file into a runnable simulation.
package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/config"
	"github.com/san-kum/motionsim/internal/dynamo"
	"github.com/san-kum/motionsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	log       zerolog.Logger
	engines   *Engines
	build     *Build
	simulator *sim.Simulator
}

type Option func(*Experiment)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Experiment) { e.log = log }
}

func New(cfg *config.Config, registry *Registry, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, registry: registry, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup builds the scenario ticker and attaches metrics.
func (e *Experiment) Setup(metrics []dynamo.Metric) error {
	builder, err := e.registry.GetScenario(e.cfg.Scenario)
	if err != nil {
		return err
	}
	log := e.log.With().Str("scenario", e.cfg.Scenario).Logger()
	e.Close()
	e.engines = NewEngines(log)
	build, err := builder(e.cfg, e.engines, log)
	if err != nil {
		e.Close()
		return fmt.Errorf("build %s: %w", e.cfg.Scenario, err)
	}
	e.build = build
	e.simulator = sim.New(build.Ticker, sim.WithLogger(log))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	cfg := sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		StopAtRest:    e.cfg.StopAtRest,
		ValidateState: true,
	}
	if e.build != nil {
		cfg.Script = e.build.Script
	}
	return cfg
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Ticker is the scenario ticker, for drivers that step it themselves.
func (e *Experiment) Ticker() dynamo.Ticker {
	if e.build == nil {
		return nil
	}
	return e.build.Ticker
}

// Script is the scenario input, sorted by time.
func (e *Experiment) Script() sim.Script {
	if e.build == nil {
		return nil
	}
	return e.build.Script
}

// Engines is the handle table the scenario was built through.
func (e *Experiment) Engines() *Engines { return e.engines }

// Close stops and disposes every engine of the current build. The
// experiment must be set up again before it can run.
func (e *Experiment) Close() {
	if e.engines == nil {
		return
	}
	e.engines.Close()
	e.engines = nil
	e.build = nil
	e.simulator = nil
}
