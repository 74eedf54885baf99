package metrics

import (
	"math"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

// Order is the fraction of samples whose |m| reaches threshold.
type Order struct {
	name      string
	threshold float64
	ordered   int
	samples   int
}

func NewOrder(threshold float64) *Order {
	return &Order{
		name:      "order",
		threshold: threshold,
	}
}

func (o *Order) Name() string {
	return o.name
}

func (o *Order) Observe(l *lattice.Lattice, s sim.Sample) {
	o.samples++
	if math.Abs(s.Magnetization) >= o.threshold {
		o.ordered++
	}
}

func (o *Order) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.ordered) / float64(o.samples)
}

func (o *Order) Reset() {
	o.ordered = 0
	o.samples = 0
}
