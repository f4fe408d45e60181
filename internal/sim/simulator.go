// Package sim is the external driver: it calls Tick once per frame, feeds
// scripted input, and collects frames and metrics.
package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/motionsim/internal/dynamo"
)

type Simulator struct {
	ticker    dynamo.Ticker
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       zerolog.Logger
}

type Option func(*Simulator)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

func New(ticker dynamo.Ticker, opts ...Option) *Simulator {
	s := &Simulator{
		ticker:    ticker,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Ticker() dynamo.Ticker { return s.ticker }

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Frames:    make([]dynamo.Snapshot, 0, frames),
		Times:     make([]float64, 0, frames),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
		SettledAt: -1,
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	script := cfg.Script.sorted()
	lastEvent := 0.0
	if len(script) > 0 {
		lastEvent = script[len(script)-1].At
	}
	next := 0
	t := 0.0

	s.log.Debug().Int("frames", frames).Int("events", len(script)).Msg("run started")

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for next < len(script) && script[next].At <= t+1e-12 {
			s.log.Debug().Str("event", script[next].Name).Float64("t", t).Msg("input")
			script[next].Do()
			next++
		}

		snap := s.ticker.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !snap.IsValid() {
			err := &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.log.Error().Err(err).Int("step", i).Msg("invalid state")
			break
		}

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		result.Frames = append(result.Frames, snap)
		result.Times = append(result.Times, t)

		if snap.AtRest() && next == len(script) && t >= lastEvent {
			if result.SettledAt < 0 {
				result.SettledAt = t
			}
			if cfg.StopAtRest {
				break
			}
		} else {
			result.SettledAt = -1
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.log.Debug().Int("steps", result.StepsTaken).Float64("settled_at", result.SettledAt).Msg("run finished")
	return result, nil
}

// RunWithCallback ticks until the duration elapses or fn returns false. It
// keeps no frames.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(dynamo.Snapshot) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	script := cfg.Script.sorted()
	next := 0
	for t := 0.0; t < cfg.Duration; t += cfg.Dt {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		for next < len(script) && script[next].At <= t+1e-12 {
			script[next].Do()
			next++
		}
		snap := s.ticker.Tick(cfg.Dt)
		if cfg.ValidateState && !snap.IsValid() {
			return fmt.Errorf("t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
		if !fn(snap) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
