package lattice

import (
	"fmt"
	"math"
)

// Spin is the orientation of a single site.
type Spin int8

const (
	Up   Spin = 1
	Down Spin = -1
)

// Valid reports whether s is +1 or -1.
func (s Spin) Valid() bool { return s == Up || s == Down }

// IntSource yields uniform integers in [0, n).
type IntSource interface {
	Intn(n int) int
}

// Lattice is an H x H grid of spins stored row-major.
type Lattice struct {
	Size  int
	Spins []Spin
}

// NewUniform returns a lattice of side h with every spin up.
func NewUniform(h int) (*Lattice, error) {
	if h <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, h)
	}
	spins := make([]Spin, h*h)
	for i := range spins {
		spins[i] = Up
	}
	return &Lattice{Size: h, Spins: spins}, nil
}

// NewCheckerboard returns a lattice of side h where site (row, col) is up
// when row+col is even and down otherwise.
func NewCheckerboard(h int) (*Lattice, error) {
	if h <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, h)
	}
	spins := make([]Spin, 0, h*h)
	for row := 0; row < h; row++ {
		for col := 0; col < h; col++ {
			if (row+col)%2 == 0 {
				spins = append(spins, Up)
			} else {
				spins = append(spins, Down)
			}
		}
	}
	return &Lattice{Size: h, Spins: spins}, nil
}

// NewRandom returns a lattice of side h with each spin drawn independently
// with probability 1/2.
func NewRandom(h int, rng IntSource) (*Lattice, error) {
	if h <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, h)
	}
	spins := make([]Spin, h*h)
	for i := range spins {
		if rng.Intn(2) == 0 {
			spins[i] = Down
		} else {
			spins[i] = Up
		}
	}
	return &Lattice{Size: h, Spins: spins}, nil
}

// FromSpins wraps a flat spin slice after checking that its length is a
// perfect square and that every value is +1 or -1. The slice is not copied.
func FromSpins(spins []Spin) (*Lattice, error) {
	h, err := SideLength(len(spins))
	if err != nil {
		return nil, err
	}
	l := &Lattice{Size: h, Spins: spins}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// SideLength returns H such that H*H == n.
func SideLength(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDimension, n)
	}
	h := int(math.Sqrt(float64(n)))
	for h*h > n {
		h--
	}
	for (h+1)*(h+1) <= n {
		h++
	}
	if h*h != n {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDimension, n)
	}
	return h, nil
}

// Reshape folds a flat spin slice into H rows of H columns. The rows share
// storage with spins.
func Reshape(spins []Spin) ([][]Spin, error) {
	h, err := SideLength(len(spins))
	if err != nil {
		return nil, err
	}
	grid := make([][]Spin, h)
	for row := 0; row < h; row++ {
		grid[row] = spins[row*h : (row+1)*h : (row+1)*h]
	}
	return grid, nil
}

// Flatten concatenates the rows of an H x H grid into a new row-major slice.
func Flatten(grid [][]Spin) ([]Spin, error) {
	h := len(grid)
	if h == 0 {
		return nil, ErrNonSquare
	}
	spins := make([]Spin, 0, h*h)
	for _, row := range grid {
		if len(row) != h {
			return nil, fmt.Errorf("%w: row of length %d in %d-row grid", ErrNonSquare, len(row), h)
		}
		spins = append(spins, row...)
	}
	return spins, nil
}

// Len returns the number of sites.
func (l *Lattice) Len() int { return len(l.Spins) }

// Validate checks the size invariant and every spin value.
func (l *Lattice) Validate() error {
	if l.Size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, l.Size)
	}
	if len(l.Spins) != l.Size*l.Size {
		return fmt.Errorf("%w: %d spins for side %d", ErrInvalidDimension, len(l.Spins), l.Size)
	}
	for i, s := range l.Spins {
		if !s.Valid() {
			return fmt.Errorf("%w: site %d has %d", ErrInvalidSpin, i, s)
		}
	}
	return nil
}

// Grid returns the lattice as H rows sharing storage with l.Spins.
func (l *Lattice) Grid() [][]Spin {
	grid, _ := Reshape(l.Spins)
	return grid
}

// Flip negates the spin at site i.
func (l *Lattice) Flip(i int) { l.Spins[i] = -l.Spins[i] }

// Energy returns the total nearest-neighbour energy.
func (l *Lattice) Energy() float64 { return TotalEnergy(l.Spins, l.Size) }

// Magnetization returns the mean spin value in [-1, 1].
func (l *Lattice) Magnetization() float64 {
	if len(l.Spins) == 0 {
		return 0
	}
	sum := 0
	for _, s := range l.Spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(l.Spins))
}

// Clone returns a deep copy.
func (l *Lattice) Clone() *Lattice {
	spins := make([]Spin, len(l.Spins))
	copy(spins, l.Spins)
	return &Lattice{Size: l.Size, Spins: spins}
}

// Initializer builds a lattice of side h. Deterministic initializers ignore
// rng.
type Initializer func(h int, rng IntSource) (*Lattice, error)
