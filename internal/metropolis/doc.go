// Package metropolis implements single-spin-flip Metropolis Monte Carlo
// updates for the Ising lattice.
//
// A trial picks a uniformly random site, computes the energy change of
// flipping it with [DeltaE], and flips it when [Accept] says so. Moves that
// lower or keep the energy are always taken; others are taken with the
// Boltzmann probability exp(-dE/T).
//
// # Randomness
//
// Every function that draws random numbers takes a [Source]. A seeded
// *math/rand.Rand satisfies it, so runs are reproducible:
//
//	rng := rand.New(rand.NewSource(42))
//	l, _ := lattice.NewUniform(100)
//	accepted := metropolis.Run(l.Spins, 2.0, 100000, l.Size, rng)
//
// The package keeps no global state. Temperatures must be strictly positive;
// T == 0 divides by zero and is not guarded here.
package metropolis
