package integrators

import "github.com/san-kum/motionsim/internal/dynamo"

// Verlet is velocity Verlet over a [positions..., velocities...] state.
//
// The closing force is evaluated at the new position with the predicted
// velocity v+a*dt rather than the old one, which keeps damped systems such as
// the spring second order.
type Verlet struct {
	predicted dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := len(x) / 2
	v.predicted = resize(v.predicted, len(x))

	a0 := dyn.Derive(x, u, t)
	out := make(dynamo.State, len(x))
	for i := 0; i < half; i++ {
		pos, vel, acc := x[i], x[half+i], a0[half+i]
		out[i] = pos + vel*dt + 0.5*acc*dt*dt
		v.predicted[i] = out[i]
		v.predicted[half+i] = vel + acc*dt
	}

	a1 := dyn.Derive(v.predicted, u, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = x[half+i] + 0.5*(a0[half+i]+a1[half+i])*dt
	}
	return out
}

// Leapfrog is kick-drift-kick over a [positions..., velocities...] state.
// The closing kick reads the force at a velocity predicted from the
// half-step one, so velocity-dependent damping does not drop it to first
// order.
type Leapfrog struct {
	predicted dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := len(x) / 2
	halfDt := 0.5 * dt
	l.predicted = resize(l.predicted, len(x))

	a0 := dyn.Derive(x, u, t)
	out := make(dynamo.State, len(x))
	for i := 0; i < half; i++ {
		kick := x[half+i] + a0[half+i]*halfDt
		out[half+i] = kick
		out[i] = x[i] + kick*dt
		l.predicted[i] = out[i]
		l.predicted[half+i] = kick
	}

	// predict the end-of-step velocity from the drifted position
	drift := dyn.Derive(l.predicted, u, t+dt)
	for i := 0; i < half; i++ {
		l.predicted[half+i] = out[half+i] + drift[half+i]*halfDt
	}

	a1 := dyn.Derive(l.predicted, u, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] += a1[half+i] * halfDt
	}
	return out
}

func resize(s dynamo.State, n int) dynamo.State {
	if len(s) != n {
		return make(dynamo.State, n)
	}
	return s
}
