package analysis

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/metropolis"
	"github.com/san-kum/isingsim/internal/sim"
)

var (
	ErrScanRange = errors.New("analysis: scan range must satisfy 0 < t_min <= t_max")
	ErrScanSteps = errors.New("analysis: scan needs at least one step")
	ErrNoInit    = errors.New("analysis: scan needs an initializer")
)

// ScanConfig describes a temperature sweep. When Anneal is set the lattice
// carries over from one temperature to the next instead of being rebuilt.
type ScanConfig struct {
	TMin        float64
	TMax        float64
	Steps       int
	Size        int
	Trials      int
	SampleEvery int
	Equilibrate int
	Anneal      bool
	Init        lattice.Initializer
}

// ScanPoint holds the equilibrium observables at one temperature.
type ScanPoint struct {
	Temperature      float64 `json:"temperature"`
	Magnetization    float64 `json:"magnetization"`
	AbsMagnetization float64 `json:"abs_magnetization"`
	EnergyPerSite    float64 `json:"energy_per_site"`
	Susceptibility   float64 `json:"susceptibility"`
	Domains          int     `json:"domains"`
	Acceptance       float64 `json:"acceptance"`
}

// Temperatures returns the evenly spaced temperatures of the sweep,
// endpoints included.
func (c ScanConfig) Temperatures() []float64 {
	if c.Steps <= 1 {
		return []float64{c.TMin}
	}
	return floats.Span(make([]float64, c.Steps), c.TMin, c.TMax)
}

// Scan runs one equilibration and one sampled run per temperature. The
// returned points are in sweep order. On cancellation the points completed
// so far are returned with the context error.
func Scan(ctx context.Context, cfg ScanConfig, rng metropolis.Source) ([]ScanPoint, error) {
	if !(cfg.TMin > 0) || cfg.TMax < cfg.TMin {
		return nil, fmt.Errorf("%w, got [%g, %g]", ErrScanRange, cfg.TMin, cfg.TMax)
	}
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrScanSteps, cfg.Steps)
	}
	if cfg.Init == nil {
		return nil, ErrNoInit
	}

	temps := cfg.Temperatures()
	points := make([]ScanPoint, 0, len(temps))

	var l *lattice.Lattice
	for _, t := range temps {
		if err := ctx.Err(); err != nil {
			return points, err
		}

		if l == nil || !cfg.Anneal {
			var err error
			l, err = cfg.Init(cfg.Size, rng)
			if err != nil {
				return points, err
			}
		}

		if cfg.Equilibrate > 0 {
			metropolis.Run(l.Spins, t, cfg.Equilibrate, l.Size, rng)
		}

		point, err := measure(ctx, l, t, cfg, rng)
		if err != nil {
			return points, err
		}
		points = append(points, point)
	}

	return points, nil
}

func measure(ctx context.Context, l *lattice.Lattice, t float64, cfg ScanConfig, rng metropolis.Source) (ScanPoint, error) {
	s := sim.New(rng)
	abs := metrics.NewMagnetization()
	energy := metrics.NewEnergy()
	chi := metrics.NewSusceptibility(t)
	s.AddMetric(abs)
	s.AddMetric(energy)
	s.AddMetric(chi)

	result, err := s.Run(ctx, l, sim.Config{
		Temperature: t,
		Trials:      cfg.Trials,
		SampleEvery: cfg.SampleEvery,
	})
	if err != nil {
		return ScanPoint{}, err
	}

	return ScanPoint{
		Temperature:      t,
		Magnetization:    stat.Mean(result.Magnetizations(), nil),
		AbsMagnetization: abs.Value(),
		EnergyPerSite:    energy.Value(),
		Susceptibility:   chi.Value(),
		Domains:          domains.Count(domains.LabelLattice(l)),
		Acceptance:       result.Acceptance,
	}, nil
}

// PeakSusceptibility returns the point with the largest susceptibility.
func PeakSusceptibility(points []ScanPoint) (ScanPoint, bool) {
	if len(points) == 0 {
		return ScanPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Susceptibility > best.Susceptibility {
			best = p
		}
	}
	return best, true
}
