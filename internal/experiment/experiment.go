package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

type Config struct {
	Init        string
	Size        int
	Temperature float64
	Trials      int
	SampleEvery int
	Seed        int64
}

// Outcome is a finished run together with the domain labeling of its final
// lattice.
type Outcome struct {
	*sim.Result
	Initial *lattice.Lattice
	Labels  []int
	Domains domains.Summary
}

type Experiment struct {
	cfg        Config
	simulator  *sim.Simulator
	randSource *rand.Rand
	init       lattice.Initializer
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (e *Experiment) Setup(init lattice.Initializer, metrics []sim.Metric) error {
	if init == nil {
		return fmt.Errorf("experiment: nil initializer")
	}
	e.init = init
	e.simulator = sim.New(e.randSource)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

// SetupFromRegistry resolves the configured initializer and the default
// metric set from r.
func (e *Experiment) SetupFromRegistry(r *Registry) error {
	init, err := r.GetInit(e.cfg.Init)
	if err != nil {
		return err
	}
	return e.Setup(init, r.DefaultMetrics(e.cfg.Temperature))
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	l, err := e.init(e.cfg.Size, e.randSource)
	if err != nil {
		return nil, err
	}
	initial := l.Clone()

	simCfg := sim.Config{
		Temperature: e.cfg.Temperature,
		Trials:      e.cfg.Trials,
		SampleEvery: e.cfg.SampleEvery,
	}

	result, err := e.simulator.Run(ctx, l, simCfg)
	if result == nil {
		return nil, err
	}

	labels := domains.LabelLattice(result.Final)
	out := &Outcome{
		Result:  result,
		Initial: initial,
		Labels:  labels,
		Domains: domains.Summarize(labels),
	}
	return out, err
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() Config {
	return e.cfg
}
