// Package lattice provides the square spin lattice used by the Ising model.
//
// A lattice of side H stores H*H spins in a flat row-major slice: index i
// maps to row i/H and column i%H. Every spin is exactly [Up] or [Down].
//
//   - [NewUniform]: all spins up (ferromagnetic ground state)
//   - [NewCheckerboard]: alternating spins (antiferromagnetic pattern)
//   - [NewRandom]: independent random spins (infinite temperature)
//
// # Boundaries
//
// Neighbours wrap toroidally: the left edge of a row touches its right edge
// and the top row touches the bottom row. [Neighbors] is a pure function of
// the index and side length.
//
// # Energy
//
// [TotalEnergy] evaluates the nearest-neighbour Hamiltonian with coupling 1
// and no external field:
//
//	E = -1/2 * sum_i sum_{j in N(i)} s_i * s_j
//
// so a uniform lattice has E = -2*H*H and a checkerboard has E = +2*H*H.
package lattice
