package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isingsim/internal/meanfield"
)

const (
	DefaultInit        = "uniform"
	DefaultSize        = 100
	DefaultTemperature = 2.0
	DefaultTrials      = 100000
	DefaultSampleEvery = 1000
	DefaultT1          = 0.1
	DefaultT2          = 2.0
	DefaultScanMin     = 1.0
	DefaultScanMax     = 4.0
	DefaultScanSteps   = 16
	DefaultEquilibrate = 50000
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Init        string          `yaml:"init"`
	Size        int             `yaml:"size"`
	Temperature float64         `yaml:"temperature"`
	Trials      int             `yaml:"trials"`
	SampleEvery int             `yaml:"sample_every"`
	Seed        int64           `yaml:"seed"`
	MeanField   MeanFieldConfig `yaml:"meanfield"`
	Scan        ScanConfig      `yaml:"scan"`
}

type MeanFieldConfig struct {
	T1               float64 `yaml:"t1"`
	T2               float64 `yaml:"t2"`
	meanfield.Solver `yaml:",inline"`
}

type ScanConfig struct {
	TMin        float64 `yaml:"t_min"`
	TMax        float64 `yaml:"t_max"`
	Steps       int     `yaml:"steps"`
	Equilibrate int     `yaml:"equilibrate"`
	Anneal      bool    `yaml:"anneal"`
}

func DefaultConfig() *Config {
	return &Config{
		Init:        DefaultInit,
		Size:        DefaultSize,
		Temperature: DefaultTemperature,
		Trials:      DefaultTrials,
		SampleEvery: DefaultSampleEvery,
		MeanField: MeanFieldConfig{
			T1:     DefaultT1,
			T2:     DefaultT2,
			Solver: meanfield.DefaultSolver(),
		},
		Scan: ScanConfig{
			TMin:        DefaultScanMin,
			TMax:        DefaultScanMax,
			Steps:       DefaultScanSteps,
			Equilibrate: DefaultEquilibrate,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg, so keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges only; whether Init names a known initializer is
// decided by the experiment registry.
func (c *Config) Validate() error {
	switch {
	case c.Size <= 0:
		return fmt.Errorf("%w: size %d", ErrInvalid, c.Size)
	case !(c.Temperature > 0):
		return fmt.Errorf("%w: temperature %g", ErrInvalid, c.Temperature)
	case c.Trials < 0:
		return fmt.Errorf("%w: trials %d", ErrInvalid, c.Trials)
	case c.SampleEvery <= 0:
		return fmt.Errorf("%w: sample_every %d", ErrInvalid, c.SampleEvery)
	case c.MeanField.Tolerance <= 0:
		return fmt.Errorf("%w: meanfield tolerance %g", ErrInvalid, c.MeanField.Tolerance)
	case c.MeanField.Points < 2:
		return fmt.Errorf("%w: meanfield points %d", ErrInvalid, c.MeanField.Points)
	case c.MeanField.T2 < c.MeanField.T1:
		return fmt.Errorf("%w: meanfield range [%g, %g]", ErrInvalid, c.MeanField.T1, c.MeanField.T2)
	case !(c.Scan.TMin > 0) || c.Scan.TMax < c.Scan.TMin:
		return fmt.Errorf("%w: scan range [%g, %g]", ErrInvalid, c.Scan.TMin, c.Scan.TMax)
	case c.Scan.Steps < 1:
		return fmt.Errorf("%w: scan steps %d", ErrInvalid, c.Scan.Steps)
	case c.Scan.Equilibrate < 0:
		return fmt.Errorf("%w: scan equilibrate %d", ErrInvalid, c.Scan.Equilibrate)
	}
	return nil
}
