package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/motionsim/internal/dynamo"
)

// Default is the integrator used when a config leaves the name empty.
const Default = "semi-implicit"

var constructors = map[string]func() dynamo.Integrator{
	"semi-implicit": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"euler":         func() dynamo.Integrator { return NewEuler() },
	"rk4":           func() dynamo.Integrator { return NewRK4() },
	"verlet":        func() dynamo.Integrator { return NewVerlet() },
	"leapfrog":      func() dynamo.Integrator { return NewLeapfrog() },
}

// ByName builds a fresh integrator. Integrators keep scratch buffers, so
// every solver gets its own instance.
func ByName(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
