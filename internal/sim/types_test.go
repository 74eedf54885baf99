package sim

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Temperature <= 0 {
		t.Error("DefaultConfig has invalid Temperature")
	}
	if cfg.Trials <= 0 {
		t.Error("DefaultConfig has invalid Trials")
	}
	if cfg.SampleEvery <= 0 {
		t.Error("DefaultConfig has invalid SampleEvery")
	}
}

func TestResultTraces(t *testing.T) {
	r := &Result{Samples: []Sample{
		{Trial: 0, Magnetization: 1, Energy: -8},
		{Trial: 10, Magnetization: 0.5, Energy: -4},
	}}

	m := r.Magnetizations()
	e := r.Energies()
	if len(m) != 2 || m[1] != 0.5 {
		t.Errorf("Magnetizations() = %v", m)
	}
	if len(e) != 2 || e[0] != -8 {
		t.Errorf("Energies() = %v", e)
	}
	if r.Last().Trial != 10 {
		t.Errorf("Last() = %+v", r.Last())
	}
	if (&Result{}).Last() != (Sample{}) {
		t.Error("Last() on empty result should be zero sample")
	}
}

func TestRunError(t *testing.T) {
	inner := errors.New("boom")
	err := &RunError{Trial: 150, Wrapped: inner}
	expected := "trial 150: boom"
	if err.Error() != expected {
		t.Errorf("RunError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, inner) {
		t.Error("RunError should unwrap to the wrapped error")
	}
}
