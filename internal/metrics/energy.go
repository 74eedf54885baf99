package metrics

import (
	"math"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

// Energy is the mean energy per site over the observed samples.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(l *lattice.Lattice, s sim.Sample) {
	if l.Len() == 0 {
		return
	}
	e.total += s.Energy / float64(l.Len())
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrop tracks the largest fall in energy per site below the first
// sample. A run started far from equilibrium reports how far it relaxed.
type EnergyDrop struct {
	name    string
	initial float64
	maxDrop float64
	samples int
}

func NewEnergyDrop() *EnergyDrop {
	return &EnergyDrop{name: "energy_drop"}
}

func (e *EnergyDrop) Name() string { return e.name }

func (e *EnergyDrop) Observe(l *lattice.Lattice, s sim.Sample) {
	if l.Len() == 0 {
		return
	}
	perSite := s.Energy / float64(l.Len())
	if e.samples == 0 {
		e.initial = perSite
	}
	e.samples++
	e.maxDrop = math.Max(e.maxDrop, e.initial-perSite)
}

func (e *EnergyDrop) Value() float64 {
	return e.maxDrop
}

func (e *EnergyDrop) Reset() {
	e.initial = 0
	e.maxDrop = 0
	e.samples = 0
}
