// Package optim searches solver parameters for the best-scoring run.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/motionsim/internal/experiment"
	"github.com/san-kum/motionsim/internal/sim"
)

// Objective scores a run; lower is better.
type Objective func(r *sim.Result) float64

// MetricObjective reads a named metric. Negative values, such as a settle
// time that never happened, score +Inf.
func MetricObjective(name string) Objective {
	return func(r *sim.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok || v < 0 || math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Score  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: 4}
}

// Workers sets how many runs execute at once.
func (g *GridSearch) Workers(n int) *GridSearch {
	g.workers = n
	return g
}

// Search evaluates every grid point and returns trials sorted by score.
// Points whose experiment fails to build are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) ([]Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("grid: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	var points []map[string]float64
	g.enumerate(0, make(map[string]float64), &points)

	var (
		jobs   []sim.Job
		params []map[string]float64
	)
	for _, p := range points {
		exp, err := buildExperiment(p)
		if err != nil {
			continue
		}
		jobs = append(jobs, func() (*sim.Simulator, sim.Config, error) {
			return exp.GetSimulator(), exp.SimConfig(), nil
		})
		params = append(params, p)
	}

	results, err := sim.NewBatch(g.workers).Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	trials := make([]Trial, len(results))
	for i, r := range results {
		trials[i] = Trial{Params: params[i], Score: objective(r)}
	}
	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Score < trials[j].Score })
	return trials, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.enumerate(depth+1, newParams, out)
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
