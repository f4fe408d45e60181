package dynamo

import (
	"math"

	"github.com/san-kum/motionsim/internal/vmath"
)

type State []float64

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

// System is an ODE whose state is laid out as [positions..., velocities...].
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// EntityState is one tracked entity in a frame.
type EntityState struct {
	ID       string     `json:"id"`
	Position vmath.Vec2 `json:"position"`
	Velocity vmath.Vec2 `json:"velocity"`
	Force    vmath.Vec2 `json:"force"`
	AtRest   bool       `json:"atRest"`
	Active   bool       `json:"active"`
}

// Snapshot is what a Ticker hands back to its driver every frame.
type Snapshot struct {
	Time     float64       `json:"time"`
	Entities []EntityState `json:"entities"`
}

// AtRest reports whether every entity in the frame is at rest.
func (s Snapshot) AtRest() bool {
	for _, e := range s.Entities {
		if !e.AtRest {
			return false
		}
	}
	return true
}

// Entity looks up an entity by id.
func (s Snapshot) Entity(id string) (EntityState, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityState{}, false
}

func (s Snapshot) IsValid() bool {
	for _, e := range s.Entities {
		if !e.Position.IsValid() || !e.Velocity.IsValid() {
			return false
		}
	}
	return true
}

// Ticker is advanced once per frame by an external driver.
// dt <= 0 means "use the ticker's own fixed step".
type Ticker interface {
	Tick(dt float64) Snapshot
}

// Stopper is implemented by tickers that can be halted synchronously.
type Stopper interface {
	Stop()
}

// Pointer is implemented by tickers that react to a pointer position.
type Pointer interface {
	SetPointer(p vmath.Vec2)
	ClearPointer()
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

// Configurable exposes numeric parameters for live tuning.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
