package sim

import (
	"github.com/san-kum/isingsim/internal/lattice"
)

// Sample is a snapshot of the observables after a given number of trials.
type Sample struct {
	Trial         int     `json:"trial"`
	Magnetization float64 `json:"magnetization"`
	Energy        float64 `json:"energy"`
}

// Metric accumulates an observable over the samples of a run.
type Metric interface {
	Name() string
	Observe(l *lattice.Lattice, s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every sample.
type Observer interface {
	OnSample(l *lattice.Lattice, s Sample)
}

// Config controls a Metropolis run.
type Config struct {
	Temperature float64
	Trials      int
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Temperature: 2.0,
		Trials:      100000,
		SampleEvery: 1000,
	}
}

// Result holds the outcome of a run. Final is the lattice that was evolved.
type Result struct {
	Final      *lattice.Lattice
	Samples    []Sample
	Accepted   int
	TrialsRun  int
	Acceptance float64
	Metrics    map[string]float64
}

// Last returns the final sample.
func (r *Result) Last() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Magnetizations returns the magnetization trace.
func (r *Result) Magnetizations() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Magnetization
	}
	return out
}

// Energies returns the total energy trace.
func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy
	}
	return out
}
