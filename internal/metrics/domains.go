package metrics

import (
	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
)

// DomainCount is the mean number of Weiss domains per sample. Labeling is
// linear in the number of sites, so sample sparsely on large lattices.
type DomainCount struct {
	name    string
	samples int
	total   int
	last    int
}

func NewDomainCount() *DomainCount {
	return &DomainCount{name: "domains"}
}

func (d *DomainCount) Name() string { return d.name }

func (d *DomainCount) Observe(l *lattice.Lattice, s sim.Sample) {
	d.last = domains.Count(domains.LabelLattice(l))
	d.total += d.last
	d.samples++
}

func (d *DomainCount) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.total) / float64(d.samples)
}

// Last returns the count from the most recent sample.
func (d *DomainCount) Last() int { return d.last }

func (d *DomainCount) Reset() {
	d.samples = 0
	d.total = 0
	d.last = 0
}
