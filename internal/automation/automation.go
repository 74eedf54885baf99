package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/experiment"
	"github.com/san-kum/isingsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields fall back to the
// preset, then to the defaults.
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	Init        string  `yaml:"init"`
	Size        int     `yaml:"size"`
	Temperature float64 `yaml:"temperature"`
	Trials      int     `yaml:"trials"`
	SampleEvery int     `yaml:"sample_every"`
	Seed        int64   `yaml:"seed"`
	Save        bool    `yaml:"save"`
}

// StepResult is the outcome of one scenario step. RunID is empty unless the
// step was saved.
type StepResult struct {
	Config  experiment.Config
	Outcome *experiment.Outcome
	RunID   string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve merges the step over its preset and the defaults.
func (s ScenarioStep) Resolve() (experiment.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return experiment.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
		cfg.Apply(p)
	}
	if s.Init != "" {
		cfg.Init = s.Init
	}
	if s.Size != 0 {
		cfg.Size = s.Size
	}
	if s.Temperature != 0 {
		cfg.Temperature = s.Temperature
	}
	if s.Trials != 0 {
		cfg.Trials = s.Trials
	}
	if s.SampleEvery != 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if err := cfg.Validate(); err != nil {
		return experiment.Config{}, err
	}

	return experiment.Config{
		Init:        cfg.Init,
		Size:        cfg.Size,
		Temperature: cfg.Temperature,
		Trials:      cfg.Trials,
		SampleEvery: cfg.SampleEvery,
		Seed:        cfg.Seed,
	}, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	logger := slog.Default().With(slog.String("component", "automation"), slog.String("scenario", scenario.Name))
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("running step",
			slog.Int("step", i+1),
			slog.Int("of", len(scenario.Steps)),
			slog.String("init", cfg.Init),
			slog.Float64("temperature", cfg.Temperature),
		)

		exp := experiment.New(cfg)
		if err := exp.SetupFromRegistry(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		res := StepResult{Config: cfg, Outcome: out}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			res.RunID, err = st.Save(storage.Record{
				Init:        cfg.Init,
				Temperature: cfg.Temperature,
				Trials:      cfg.Trials,
				SampleEvery: cfg.SampleEvery,
				Seed:        cfg.Seed,
				Result:      out.Result,
				Labels:      out.Labels,
			})
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, res)
	}

	return results, nil
}

// EnsembleConfig repeats one run over consecutive seeds.
type EnsembleConfig struct {
	Run       experiment.Config
	NumTrials int
	// Threshold on |m| above which a final lattice counts as ordered.
	Threshold float64
}

// EnsembleResult holds the final state of one member
type EnsembleResult struct {
	Seed          int64
	Magnetization float64
	Domains       int
	Ordered       bool
}

// RunEnsemble runs cfg.NumTrials experiments with seeds Run.Seed,
// Run.Seed+1, ...
func RunEnsemble(ctx context.Context, cfg *EnsembleConfig, registry *experiment.Registry) ([]EnsembleResult, error) {
	logger := slog.Default().With(slog.String("component", "automation"))
	results := make([]EnsembleResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		runCfg := cfg.Run
		runCfg.Seed = cfg.Run.Seed + int64(trial)

		exp := experiment.New(runCfg)
		if err := exp.SetupFromRegistry(registry); err != nil {
			return nil, err
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		m := out.Final.Magnetization()
		results = append(results, EnsembleResult{
			Seed:          runCfg.Seed,
			Magnetization: m,
			Domains:       out.Domains.Count,
			Ordered:       math.Abs(m) >= cfg.Threshold,
		})

		if (trial+1)%10 == 0 {
			logger.Info("ensemble progress", slog.Int("done", trial+1), slog.Int("of", cfg.NumTrials))
		}
	}

	return results, nil
}

// EnsembleStats summarizes an ensemble: ordered and disordered counts plus
// the mean and standard deviation of |m|. The deviation is NaN for fewer
// than two members.
func EnsembleStats(results []EnsembleResult) (ordered, disordered int, mean, std float64) {
	abs := make([]float64, len(results))
	for i, r := range results {
		if r.Ordered {
			ordered++
		} else {
			disordered++
		}
		abs[i] = math.Abs(r.Magnetization)
	}
	if len(abs) > 0 {
		mean, std = stat.MeanStdDev(abs, nil)
	}
	return
}
