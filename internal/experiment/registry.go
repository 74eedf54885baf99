package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/sim"
)

type Registry struct {
	inits map[string]lattice.Initializer
}

func NewRegistry() *Registry {
	r := &Registry{
		inits: make(map[string]lattice.Initializer),
	}

	r.inits["uniform"] = func(h int, _ lattice.IntSource) (*lattice.Lattice, error) {
		return lattice.NewUniform(h)
	}
	r.inits["checkerboard"] = func(h int, _ lattice.IntSource) (*lattice.Lattice, error) {
		return lattice.NewCheckerboard(h)
	}
	r.inits["random"] = lattice.NewRandom

	return r
}

// Register adds or replaces a named initializer.
func (r *Registry) Register(name string, init lattice.Initializer) {
	r.inits[name] = init
}

func (r *Registry) GetInit(name string) (lattice.Initializer, error) {
	fn, ok := r.inits[name]
	if !ok {
		return nil, fmt.Errorf("unknown init: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListInits() []string {
	names := make([]string, 0, len(r.inits))
	for name := range r.inits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(temperature float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewMagnetization(),
		metrics.NewSusceptibility(temperature),
		metrics.NewOrder(0.9),
	}
}
