package dynamo

import "errors"

// Domain errors. Numeric configuration problems are never reported through
// these; they are clamped where they are read.
var (
	// ErrInvalidState indicates a NaN or Inf appeared in a snapshot.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDuplicateID indicates an entity id is already registered.
	ErrDuplicateID = errors.New("dynamo: duplicate id")

	// ErrUnknownScenario indicates no builder is registered under a name.
	ErrUnknownScenario = errors.New("dynamo: unknown scenario")

	// ErrUnknownIntegrator indicates no integrator is registered under a name.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrContextCanceled indicates the driver was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the frame it happened on.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
