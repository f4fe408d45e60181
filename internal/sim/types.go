package sim

import (
	"sort"

	"github.com/san-kum/motionsim/internal/dynamo"
)

// Config drives one run. Dt is the frame interval handed to Tick, not the
// ticker's internal step.
type Config struct {
	Dt            float64 `yaml:"dt"`
	Duration      float64 `yaml:"duration"`
	StopAtRest    bool    `yaml:"stop_at_rest"`
	ValidateState bool    `yaml:"validate_state"`
	Script        Script  `yaml:"-"`
}

// Event is an input injected into the ticker at a point in time, such as a
// new spring target or a pointer move.
type Event struct {
	At   float64
	Name string
	Do   func()
}

// Script is a list of events. It is sorted by time before a run.
type Script []Event

func (s Script) sorted() Script {
	out := append(Script(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// Result collects every frame of a run.
type Result struct {
	Frames     []dynamo.Snapshot
	Times      []float64
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
	// SettledAt is the first frame time after the last scripted event at
	// which every entity was at rest, or -1.
	SettledAt float64
}

// Final is the last frame, or an empty snapshot.
func (r *Result) Final() dynamo.Snapshot {
	if len(r.Frames) == 0 {
		return dynamo.Snapshot{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Track returns the positions of one entity across the run.
func (r *Result) Track(id string) []dynamo.EntityState {
	out := make([]dynamo.EntityState, 0, len(r.Frames))
	for _, f := range r.Frames {
		if e, ok := f.Entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// EntityIDs lists the ids seen in the first frame, in frame order.
func (r *Result) EntityIDs() []string {
	if len(r.Frames) == 0 {
		return nil
	}
	ids := make([]string, len(r.Frames[0].Entities))
	for i, e := range r.Frames[0].Entities {
		ids[i] = e.ID
	}
	return ids
}
