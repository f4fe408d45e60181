// Package dynamo defines the contract between the motion engine and the
// driver that steps it.
//
// The package holds the small set of shared types every solver speaks:
//
//   - [State]: per-dimension vector handed to integrators
//   - [System]: ODE right-hand side (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [Ticker]: anything a driver can advance one frame at a time
//   - [Snapshot]: the per-frame result a driver renders
//   - [Metric] and [Observer]: hooks used by the simulation driver
//
// # Example
//
//	c := coordinator.New(coordinator.DefaultConfig())
//	for running {
//	    snap := c.Tick(1.0 / 60)
//	    paint(snap)
//	}
//
// # Thread Safety
//
// Nothing in the engine is thread-safe. A Ticker is owned by exactly one
// caller; drivers that need to share one across goroutines must serialize
// their calls externally.
package dynamo
