// Package domains labels Weiss domains: maximal connected regions of equal
// spins under the toroidal four-neighbour relation.
//
// Labels are dense integers assigned in the order in which the outer scan
// over site indices first meets each domain, so the labelling of a given
// configuration is unique. The flood fill keeps an explicit stack; a
// 100x100 lattice can form a single domain of 10,000 sites.
package domains

import (
	"github.com/san-kum/isingsim/internal/lattice"
)

// Unassigned marks a site that no domain has claimed yet.
const Unassigned = -1

// Label returns a domain ID for every site of spins, which must have a
// perfect-square length.
func Label(spins []lattice.Spin) ([]int, error) {
	h, err := lattice.SideLength(len(spins))
	if err != nil {
		return nil, err
	}
	return label(spins, h), nil
}

// LabelLattice labels an already validated lattice.
func LabelLattice(l *lattice.Lattice) []int {
	return label(l.Spins, l.Size)
}

func label(spins []lattice.Spin, h int) []int {
	labels := make([]int, len(spins))
	for i := range labels {
		labels[i] = Unassigned
	}

	stack := make([]int, 0, 64)
	next := 0
	for i := range spins {
		if labels[i] != Unassigned {
			continue
		}
		stack = fill(spins, labels, h, i, next, stack)
		next++
	}
	return labels
}

// fill claims every site reachable from seed through equal spins. Sites are
// labelled when pushed, so none enters the stack twice. The stack is
// returned for reuse by the next fill.
func fill(spins []lattice.Spin, labels []int, h, seed, id int, stack []int) []int {
	labels[seed] = id
	stack = append(stack[:0], seed)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, nb := range lattice.Neighbors(cur, h) {
			if labels[nb] == Unassigned && spins[nb] == spins[cur] {
				labels[nb] = id
				stack = append(stack, nb)
			}
		}
	}
	return stack
}
