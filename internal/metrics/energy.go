package metrics

import (
	"math"

	"github.com/san-kum/motionsim/internal/dynamo"
)

// KineticEnergy is the mean over frames of sum(0.5 * m * |v|^2). Every
// entity is given the same mass.
type KineticEnergy struct {
	name        string
	mass        float64
	samples     int
	totalEnergy float64
	last        float64
}

func NewKineticEnergy(mass float64) *KineticEnergy {
	if mass <= 0 {
		mass = 1
	}
	return &KineticEnergy{
		name: "kinetic_energy",
		mass: mass,
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s dynamo.Snapshot) {
	e.last = FrameEnergy(s, e.mass)
	e.totalEnergy += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last is the energy of the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
	e.last = 0
}

// FrameEnergy is the kinetic energy of one frame.
func FrameEnergy(s dynamo.Snapshot, mass float64) float64 {
	sum := 0.0
	for _, ent := range s.Entities {
		sum += 0.5 * mass * ent.Velocity.LenSqr()
	}
	return sum
}

// EnergyDrift tracks the largest relative change in kinetic energy from the
// first frame. In a closed elastic box this should stay near zero.
type EnergyDrift struct {
	name          string
	mass          float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(mass float64) *EnergyDrift {
	if mass <= 0 {
		mass = 1
	}
	return &EnergyDrift{
		name: "energy_drift",
		mass: mass,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Snapshot) {
	energy := FrameEnergy(s, e.mass)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
