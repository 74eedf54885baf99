package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

func TestMagnetizationAbsolute(t *testing.T) {
	m := NewMagnetization()
	l, _ := lattice.NewUniform(4)

	m.Observe(l, sim.Sample{Magnetization: 1})
	m.Observe(l, sim.Sample{Magnetization: -0.5})

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected mean |m| 0.75, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSusceptibility(t *testing.T) {
	l, _ := lattice.NewUniform(10)

	tests := []struct {
		name   string
		values []float64
		temp   float64
		want   float64
	}{
		{"constant", []float64{0.5, 0.5, -0.5}, 2.0, 0},
		{"spread", []float64{1, 0}, 2.0, 100 * 0.25 / 2.0},
		{"no temperature", []float64{1, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSusceptibility(tt.temp)
			for _, v := range tt.values {
				c.Observe(l, sim.Sample{Magnetization: v})
			}
			if got := c.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	o := NewOrder(0.9)
	l, _ := lattice.NewUniform(2)

	for _, v := range []float64{1, -0.95, 0.2, 0} {
		o.Observe(l, sim.Sample{Magnetization: v})
	}
	if got := o.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}
