// Package sim drives Metropolis runs over a lattice, sampling observables
// at a fixed trial interval and feeding them to metrics and observers.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metropolis"
)

type Simulator struct {
	rng       metropolis.Source
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(rng metropolis.Source) *Simulator {
	return &Simulator{
		rng:       rng,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default().With(slog.String("component", "sim")),
	}
}

func (s *Simulator) AddMetric(m Metric)            { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)        { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(logger *slog.Logger) { s.logger = logger }

// Run evolves l in place for cfg.Trials trials at cfg.Temperature. A sample
// is taken before the first trial and after every cfg.SampleEvery trials
// (the last chunk may be shorter). On cancellation the partial result is
// returned with a *RunError.
func (s *Simulator) Run(ctx context.Context, l *lattice.Lattice, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Final:   l,
		Samples: make([]Sample, 0, cfg.Trials/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}

	start := time.Now()
	s.record(l, result, 0)

	done := 0
	for done < cfg.Trials {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, &RunError{Trial: done, Wrapped: ctx.Err()}
		default:
		}

		chunk := min(cfg.SampleEvery, cfg.Trials-done)
		result.Accepted += metropolis.Run(l.Spins, cfg.Temperature, chunk, l.Size, s.rng)
		done += chunk
		result.TrialsRun = done

		s.record(l, result, done)
	}

	s.finish(result)

	s.logger.Debug("run complete",
		slog.Int("size", l.Size),
		slog.Float64("temperature", cfg.Temperature),
		slog.Int("trials", done),
		slog.Int("accepted", result.Accepted),
		slog.Int("samples", len(result.Samples)),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// RunWithCallback evolves l like Run but hands every sample to callback
// instead of collecting them. The run stops early when callback returns
// false.
func (s *Simulator) RunWithCallback(ctx context.Context, l *lattice.Lattice, cfg Config, callback func(*lattice.Lattice, Sample) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	if !callback(l, sampleOf(l, 0)) {
		return nil
	}

	done := 0
	for done < cfg.Trials {
		select {
		case <-ctx.Done():
			return &RunError{Trial: done, Wrapped: ctx.Err()}
		default:
		}

		chunk := min(cfg.SampleEvery, cfg.Trials-done)
		metropolis.Run(l.Spins, cfg.Temperature, chunk, l.Size, s.rng)
		done += chunk

		if !callback(l, sampleOf(l, done)) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Temperature > 0) {
		return fmt.Errorf("%w, got %g", ErrTemperature, cfg.Temperature)
	}
	if cfg.Trials < 0 {
		return fmt.Errorf("%w, got %d", ErrTrials, cfg.Trials)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("%w, got %d", ErrSampleInterval, cfg.SampleEvery)
	}
	return nil
}

func (s *Simulator) record(l *lattice.Lattice, result *Result, trial int) {
	sample := sampleOf(l, trial)
	result.Samples = append(result.Samples, sample)

	for _, m := range s.metrics {
		m.Observe(l, sample)
	}
	for _, obs := range s.observers {
		obs.OnSample(l, sample)
	}
}

func (s *Simulator) finish(result *Result) {
	if result.TrialsRun > 0 {
		result.Acceptance = float64(result.Accepted) / float64(result.TrialsRun)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sampleOf(l *lattice.Lattice, trial int) Sample {
	return Sample{
		Trial:         trial,
		Magnetization: l.Magnetization(),
		Energy:        l.Energy(),
	}
}
