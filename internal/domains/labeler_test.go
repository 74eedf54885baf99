package domains_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metropolis"
)

// unionFind is an independent connectivity oracle for checking labels.
type unionFind []int

func newUnionFind(n int) unionFind {
	u := make(unionFind, n)
	for i := range u {
		u[i] = i
	}
	return u
}

func (u unionFind) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u unionFind) union(a, b int) { u[u.find(a)] = u.find(b) }

func connectivity(l *lattice.Lattice) unionFind {
	u := newUnionFind(l.Len())
	for i, s := range l.Spins {
		for _, j := range lattice.Neighbors(i, l.Size) {
			if l.Spins[j] == s {
				u.union(i, j)
			}
		}
	}
	return u
}

func fromRows(rows ...[]lattice.Spin) *lattice.Lattice {
	flat, err := lattice.Flatten(rows)
	Expect(err).NotTo(HaveOccurred())
	l, err := lattice.FromSpins(flat)
	Expect(err).NotTo(HaveOccurred())
	return l
}

var _ = Describe("Label", func() {
	Context("with uniform lattices", func() {
		DescribeTable("assigns a single domain",
			func(h int) {
				l, err := lattice.NewUniform(h)
				Expect(err).NotTo(HaveOccurred())

				labels, err := domains.Label(l.Spins)
				Expect(err).NotTo(HaveOccurred())
				Expect(labels).To(HaveLen(h * h))
				Expect(labels).To(HaveEach(0))
				Expect(domains.Count(labels)).To(Equal(1))
			},
			Entry("1x1", 1),
			Entry("10x10", 10),
			Entry("100x100 without exhausting the stack", 100),
		)
	})

	Context("with checkerboard lattices", func() {
		It("isolates every site", func() {
			l, _ := lattice.NewCheckerboard(100)
			labels := domains.LabelLattice(l)

			Expect(domains.Count(labels)).To(Equal(10000))
			for i, id := range labels {
				Expect(id).To(Equal(i))
			}
		})
	})

	Context("with hand-built configurations", func() {
		It("joins sites across the horizontal and vertical wrap", func() {
			l := fromRows(
				[]lattice.Spin{1, 1, -1},
				[]lattice.Spin{-1, 1, -1},
				[]lattice.Spin{1, -1, -1},
			)
			Expect(domains.LabelLattice(l)).To(Equal([]int{0, 0, 1, 1, 0, 1, 0, 1, 1}))
		})

		It("keeps alternating rows apart", func() {
			l := fromRows(
				[]lattice.Spin{1, 1, 1, 1},
				[]lattice.Spin{-1, -1, -1, -1},
				[]lattice.Spin{1, 1, 1, 1},
				[]lattice.Spin{-1, -1, -1, -1},
			)
			Expect(domains.LabelLattice(l)).To(Equal([]int{
				0, 0, 0, 0,
				1, 1, 1, 1,
				2, 2, 2, 2,
				3, 3, 3, 3,
			}))
		})

		It("merges the top and bottom rows through the boundary", func() {
			l := fromRows(
				[]lattice.Spin{1, 1, 1, 1},
				[]lattice.Spin{-1, -1, -1, -1},
				[]lattice.Spin{-1, -1, -1, -1},
				[]lattice.Spin{1, 1, 1, 1},
			)
			Expect(domains.LabelLattice(l)).To(Equal([]int{
				0, 0, 0, 0,
				1, 1, 1, 1,
				1, 1, 1, 1,
				0, 0, 0, 0,
			}))
		})
	})

	Context("with Monte Carlo configurations", func() {
		var rng *rand.Rand

		BeforeEach(func() {
			rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		})

		It("matches an independent connectivity check", func() {
			for _, T := range []float64{1.5, 2.269, 3.5} {
				l, _ := lattice.NewRandom(24, rng)
				metropolis.Run(l.Spins, T, 20*l.Len(), l.Size, rng)

				labels := domains.LabelLattice(l)
				uf := connectivity(l)

				Expect(labels).NotTo(ContainElement(domains.Unassigned))
				mismatches := 0
				for i := range labels {
					for j := i + 1; j < len(labels); j++ {
						if (labels[i] == labels[j]) != (uf.find(i) == uf.find(j)) {
							mismatches++
						}
					}
				}
				Expect(mismatches).To(BeZero(), "T=%.3f", T)
			}
		})

		It("numbers domains densely in scan order", func() {
			l, _ := lattice.NewRandom(30, rng)
			labels := domains.LabelLattice(l)

			next := 0
			for _, id := range labels {
				Expect(id).To(BeNumerically("<=", next))
				if id == next {
					next++
				}
			}
			Expect(next).To(Equal(domains.Count(labels)))
		})

		It("is deterministic for a given configuration", func() {
			l, _ := lattice.NewRandom(40, rng)
			first := domains.LabelLattice(l)
			second := domains.LabelLattice(l.Clone())
			Expect(second).To(Equal(first))
		})
	})

	Context("with invalid input", func() {
		It("rejects non-square lengths", func() {
			_, err := domains.Label(make([]lattice.Spin, 12))
			Expect(err).To(MatchError(lattice.ErrInvalidDimension))
		})

		It("rejects empty input", func() {
			_, err := domains.Label(nil)
			Expect(err).To(MatchError(lattice.ErrInvalidDimension))
		})
	})
})

var _ = Describe("Summarize", func() {
	It("reports sizes by domain ID", func() {
		s := domains.Summarize([]int{0, 0, 1, 1, 0, 1, 0, 1, 1})
		Expect(s.Count).To(Equal(2))
		Expect(s.Sizes).To(Equal([]int{4, 5}))
		Expect(s.Largest).To(Equal(5))
		Expect(s.MeanSize).To(BeNumerically("~", 4.5))
	})

	It("handles an empty labelling", func() {
		s := domains.Summarize(nil)
		Expect(s.Count).To(BeZero())
		Expect(s.Sizes).To(BeEmpty())
		Expect(s.Largest).To(BeZero())
	})
})
