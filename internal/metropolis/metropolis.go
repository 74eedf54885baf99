package metropolis

import (
	"math"

	"github.com/san-kum/isingsim/internal/lattice"
)

// DefaultSize is the side length used by MeanMagnetization.
const DefaultSize = 100

// Source is the random stream consumed by the Monte Carlo engine.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// DeltaE returns the energy change caused by flipping site i:
// 2 * s_i * sum of its four neighbours.
func DeltaE(spins []lattice.Spin, i, h int) float64 {
	sum := 0
	for _, j := range lattice.Neighbors(i, h) {
		sum += int(spins[j])
	}
	return float64(2 * int(spins[i]) * sum)
}

// Accept applies the Metropolis criterion. Non-positive deltaE is always
// accepted without consuming a random number; otherwise the move is taken
// when a uniform draw falls below exp(-deltaE/T). T must be > 0.
func Accept(deltaE, T float64, rng Source) bool {
	if deltaE <= 0 {
		return true
	}
	return rng.Float64() < math.Exp(-deltaE/T)
}

// Run performs nTrials independent trials on spins, mutating it in place.
// Each trial samples a site uniformly, so a site may be visited any number
// of times. It returns the number of accepted flips.
func Run(spins []lattice.Spin, T float64, nTrials, h int, rng Source) int {
	n := len(spins)
	accepted := 0
	for k := 0; k < nTrials; k++ {
		i := rng.Intn(n)
		if Accept(DeltaE(spins, i, h), T, rng) {
			spins[i] = -spins[i]
			accepted++
		}
	}
	return accepted
}

// MeanMagnetization evolves a fresh uniform lattice of side DefaultSize for
// nTrials trials at temperature T and returns the mean final spin.
func MeanMagnetization(nTrials int, T float64, rng Source) float64 {
	l, _ := lattice.NewUniform(DefaultSize)
	Run(l.Spins, T, nTrials, l.Size, rng)
	return l.Magnetization()
}
