package integrators

import "github.com/san-kum/motionsim/internal/dynamo"

// rk4Nodes and rk4Weights are the classic Runge-Kutta tableau: stage s is
// evaluated at t+nodes[s]*dt from the previous stage's slope.
var (
	rk4Nodes   = [4]float64{0, 0.5, 0.5, 1}
	rk4Weights = [4]float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6}
)

// RK4 is the fourth-order Runge-Kutta method. Stage buffers are reused
// between steps, so an instance must not be shared between solvers.
type RK4 struct {
	slopes [4]dynamo.State
	stage  dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.stage = resize(r.stage, n)
	for s := range r.slopes {
		r.slopes[s] = resize(r.slopes[s], n)
	}

	copy(r.slopes[0], dyn.Derive(x, u, t))
	for s := 1; s < len(rk4Nodes); s++ {
		h := rk4Nodes[s] * dt
		for i := range x {
			r.stage[i] = x[i] + h*r.slopes[s-1][i]
		}
		copy(r.slopes[s], dyn.Derive(r.stage, u, t+h))
	}

	out := make(dynamo.State, n)
	for i := range x {
		sum := 0.0
		for s, w := range rk4Weights {
			sum += w * r.slopes[s][i]
		}
		out[i] = x[i] + dt*sum
	}
	return out
}
